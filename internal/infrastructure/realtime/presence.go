package realtime

import "encoding/json"

// PresenceBroadcaster emits the current online-identity set to every
// registered connection whenever registry membership changes. Delivery is
// best-effort: a connection that closes mid-broadcast simply misses this
// round and refreshes on its next registration.
type PresenceBroadcaster struct {
	registry *Registry
}

// NewPresenceBroadcaster wires a broadcaster to the registry as its
// membership listener.
func NewPresenceBroadcaster(registry *Registry) *PresenceBroadcaster {
	b := &PresenceBroadcaster{registry: registry}
	registry.SetListener(b)
	return b
}

var _ MembershipListener = (*PresenceBroadcaster)(nil)

// MembershipChanged snapshots the online set and fans it out. The snapshot is
// taken before any send so no connection write happens under the registry lock.
func (b *PresenceBroadcaster) MembershipChanged() {
	event := OnlineUsersEvent{Type: EventOnlineUsers, Users: b.registry.OnlineUsers()}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	for _, conn := range b.registry.AllConnections() {
		// One slow or closing connection must not affect the others.
		_ = conn.Send(payload)
	}
}

// SendSnapshot pushes the current online set to a single connection. Used
// right after registration: an additional device for an already-online user
// causes no membership change, so without this it would never see a roster.
func (b *PresenceBroadcaster) SendSnapshot(conn Conn) {
	event := OnlineUsersEvent{Type: EventOnlineUsers, Users: b.registry.OnlineUsers()}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	_ = conn.Send(payload)
}
