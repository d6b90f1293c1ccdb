package realtime

import "time"

// Server-to-client event types carried on the realtime channel. The channel is
// receive-only from the client's perspective; message creation goes through
// the REST API.
const (
	EventOnlineUsers = "onlineUsers"
	EventNewMessage  = "newMessage"
)

// OnlineUsersEvent carries the full current online-identity set. A full set is
// sent on every membership change rather than a diff; user counts are small
// and a reconnecting client implicitly refreshes via its own registration.
type OnlineUsersEvent struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

// NewMessageEvent pushes one persisted message to the recipient's connections.
type NewMessageEvent struct {
	Type    string         `json:"type"`
	Message MessagePayload `json:"message"`
}

// MessagePayload is the wire shape of a persisted message. The authoritative
// copy lives in the store; the realtime layer only observes and forwards it.
type MessagePayload struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"sender_id"`
	RecipientID   string    `json:"recipient_id"`
	Body          *string   `json:"body,omitempty"`
	AttachmentURL *string   `json:"attachment_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
