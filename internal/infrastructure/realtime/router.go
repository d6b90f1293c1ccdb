package realtime

import "encoding/json"

// DeliveryPolicy controls how one payload reaches one connection. The default
// is fire-and-forget with no acknowledgment; a stricter at-least-once policy
// can be substituted without touching the Registry or MessageRouter contracts.
type DeliveryPolicy interface {
	Push(conn Conn, payload []byte) error
}

type fireAndForget struct{}

func (fireAndForget) Push(conn Conn, payload []byte) error {
	return conn.Send(payload)
}

// MessageRouter fans a newly persisted message out to the recipient's live
// connections. Delivery is best-effort and at-most-once per connection; a
// recipient with no connections misses the push and catches up on its next
// conversation fetch. There is no queuing and no durable retry.
type MessageRouter struct {
	registry *Registry
	policy   DeliveryPolicy
}

// NewMessageRouter constructs a router with the fire-and-forget policy.
func NewMessageRouter(registry *Registry) *MessageRouter {
	return &MessageRouter{registry: registry, policy: fireAndForget{}}
}

// SetPolicy replaces the delivery policy. Not safe to call concurrently with Deliver.
func (rt *MessageRouter) SetPolicy(p DeliveryPolicy) {
	if p != nil {
		rt.policy = p
	}
}

// Deliver pushes a copy of the message to each of the recipient's connections.
// Each push succeeds or fails independently; one connection's failure never
// affects the others. Returns the number of connections that accepted the push.
func (rt *MessageRouter) Deliver(msg MessagePayload) int {
	conns := rt.registry.ConnectionsFor(msg.RecipientID)
	if len(conns) == 0 {
		return 0
	}

	payload, err := json.Marshal(NewMessageEvent{Type: EventNewMessage, Message: msg})
	if err != nil {
		return 0
	}

	delivered := 0
	for _, conn := range conns {
		if err := rt.policy.Push(conn, payload); err == nil {
			delivered++
		}
	}
	return delivered
}
