package chatclient

import (
	"time"

	"github.com/google/uuid"

	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
)

// Entry is one row in a conversation view: either a confirmed message or a
// pending optimistic placeholder awaiting server confirmation. Pending
// entries are client-local and never visible to the peer.
type Entry struct {
	// LocalID identifies an optimistic entry until the server confirms it.
	// Empty once confirmed.
	LocalID string
	Message realtime.MessagePayload
	Pending bool
}

// Conversation is the ordered view of one two-party thread. Every transition
// returns a new value instead of mutating shared state, which keeps the
// reconciliation logic testable in isolation and free of ambient globals.
//
// Ordering is insertion order, not timestamp order: out-of-order network
// delivery may produce a view that differs from strict chronology, which is
// an accepted simplification.
type Conversation struct {
	SelfID  string
	PeerID  string
	Entries []Entry
}

// NewConversation opens an empty view for the given peer.
func NewConversation(selfID, peerID string) Conversation {
	return Conversation{SelfID: selfID, PeerID: peerID}
}

// WithHistory replaces the view contents with fetched history, dropping any
// duplicates by message identifier. Pending entries are not preserved; a
// history load happens before the first send in a freshly opened view.
func (c Conversation) WithHistory(msgs []realtime.MessagePayload) Conversation {
	entries := make([]Entry, 0, len(msgs))
	seen := make(map[string]struct{}, len(msgs))
	for _, m := range msgs {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		entries = append(entries, Entry{Message: m})
	}
	c.Entries = entries
	return c
}

// BeginSend inserts a pending optimistic entry and returns its local
// identifier. The entry stays at this position until confirmed or failed.
func (c Conversation) BeginSend(body, attachmentURL *string, now time.Time) (Conversation, string) {
	localID := "temp-" + uuid.NewString()
	if now.IsZero() {
		now = time.Now().UTC()
	}
	entry := Entry{
		LocalID: localID,
		Pending: true,
		Message: realtime.MessagePayload{
			ID:            localID,
			SenderID:      c.SelfID,
			RecipientID:   c.PeerID,
			Body:          body,
			AttachmentURL: attachmentURL,
			CreatedAt:     now,
		},
	}
	c.Entries = append(cloneEntries(c.Entries), entry)
	return c, localID
}

// Confirm replaces the optimistic entry in place with the authoritative
// message. If the confirmed identifier somehow already exists in the view,
// the optimistic entry is simply removed so the message never appears twice.
func (c Conversation) Confirm(localID string, msg realtime.MessagePayload) Conversation {
	if c.Contains(msg.ID) {
		return c.Fail(localID)
	}
	entries := cloneEntries(c.Entries)
	for i := range entries {
		if entries[i].Pending && entries[i].LocalID == localID {
			entries[i] = Entry{Message: msg}
			break
		}
	}
	c.Entries = entries
	return c
}

// Fail removes the optimistic entry entirely, leaving no error artifact in
// the view. The caller surfaces the failure out of band.
func (c Conversation) Fail(localID string) Conversation {
	entries := make([]Entry, 0, len(c.Entries))
	for _, e := range c.Entries {
		if e.Pending && e.LocalID == localID {
			continue
		}
		entries = append(entries, e)
	}
	c.Entries = entries
	return c
}

// ApplyPush merges a realtime-pushed message. Messages not addressed to or
// from this view's peer are ignored so they never land in the wrong view,
// and the insert is idempotent by message identifier to absorb transport
// redelivery. Reports whether the view changed.
func (c Conversation) ApplyPush(msg realtime.MessagePayload) (Conversation, bool) {
	if msg.SenderID != c.PeerID && msg.RecipientID != c.PeerID {
		return c, false
	}
	if c.Contains(msg.ID) {
		return c, false
	}
	c.Entries = append(cloneEntries(c.Entries), Entry{Message: msg})
	return c, true
}

// Contains reports whether a confirmed message with the given identifier is
// already in the view.
func (c Conversation) Contains(messageID string) bool {
	for _, e := range c.Entries {
		if !e.Pending && e.Message.ID == messageID {
			return true
		}
	}
	return false
}

// PendingCount reports how many optimistic entries are still awaiting
// confirmation.
func (c Conversation) PendingCount() int {
	n := 0
	for _, e := range c.Entries {
		if e.Pending {
			n++
		}
	}
	return n
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
