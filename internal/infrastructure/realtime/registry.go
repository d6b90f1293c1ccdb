package realtime

import (
	"sort"
	"sync"
)

// MembershipListener observes identity-level presence changes. It is invoked
// after the registry mutation completes and outside the registry lock, so
// implementations may call back into the registry freely.
type MembershipListener interface {
	MembershipChanged()
}

// Registry tracks which user identities currently have live connections.
// A single identity may own many concurrent connections (multiple devices or
// tabs); presence is identity-level, so the listener only fires when an
// identity's connection count transitions between zero and non-zero.
type Registry struct {
	mu       sync.RWMutex
	conns    map[string]Conn            // connID -> conn
	byUser   map[string]map[string]Conn // userID -> connID -> conn
	listener MembershipListener
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]Conn),
		byUser: make(map[string]map[string]Conn),
	}
}

// SetListener installs the presence listener. Must be called before the first
// Register; the registry does not synchronize listener replacement.
func (r *Registry) SetListener(l MembershipListener) {
	r.listener = l
}

// Register adds the connection under its user's entry and reports whether
// the user came online with it. Registering the same connection twice is a
// no-op. Callers use the return to decide whether the membership broadcast
// already covered the connection or it still needs a direct roster snapshot.
func (r *Registry) Register(conn Conn) bool {
	r.mu.Lock()
	if _, ok := r.conns[conn.ID()]; ok {
		r.mu.Unlock()
		return false
	}
	r.conns[conn.ID()] = conn

	set := r.byUser[conn.UserID()]
	if set == nil {
		set = make(map[string]Conn)
		r.byUser[conn.UserID()] = set
	}
	newlyOnline := len(set) == 0
	set[conn.ID()] = conn
	r.mu.Unlock()

	if newlyOnline && r.listener != nil {
		r.listener.MembershipChanged()
	}
	return newlyOnline
}

// Unregister removes the connection if it is still tracked. Safe to call more
// than once per connection; the transport-close path and an authentication
// reject can race, so the second call is a no-op.
func (r *Registry) Unregister(conn Conn) {
	r.mu.Lock()
	if _, ok := r.conns[conn.ID()]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.conns, conn.ID())

	nowOffline := false
	if set, ok := r.byUser[conn.UserID()]; ok {
		delete(set, conn.ID())
		if len(set) == 0 {
			delete(r.byUser, conn.UserID())
			nowOffline = true
		}
	}
	r.mu.Unlock()

	if nowOffline && r.listener != nil {
		r.listener.MembershipChanged()
	}
}

// ConnectionsFor returns a snapshot of the user's live connections, possibly empty.
func (r *Registry) ConnectionsFor(userID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byUser[userID]
	out := make([]Conn, 0, len(set))
	for _, conn := range set {
		out = append(out, conn)
	}
	return out
}

// OnlineUsers returns the sorted set of identities with at least one live connection.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.byUser))
	for userID := range r.byUser {
		out = append(out, userID)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// AllConnections returns a snapshot of every tracked connection. Callers fan
// out over the copy so no send happens under the registry lock.
func (r *Registry) AllConnections() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Conn, 0, len(r.conns))
	for _, conn := range r.conns {
		out = append(out, conn)
	}
	return out
}

// Close terminates all tracked connections and clears registry state.
func (r *Registry) Close() {
	r.mu.Lock()
	conns := make([]Conn, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	r.conns = make(map[string]Conn)
	r.byUser = make(map[string]map[string]Conn)
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "registry shutdown")
	}
}
