package chatclient

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
)

// MessageService is the REST collaborator that persists an outgoing message
// and returns the authoritative copy.
type MessageService interface {
	CreateMessage(ctx context.Context, recipientID string, body, attachmentURL *string) (realtime.MessagePayload, error)
}

// EventHandler receives realtime events, one at a time.
type EventHandler interface {
	OnOnlineUsers(users []string)
	OnNewMessage(msg realtime.MessagePayload)
}

// Subscription is a realtime event source that admits a single subscriber at
// a time. Subscribing while another handler is attached is a bug.
type Subscription interface {
	Subscribe(h EventHandler) error
	Unsubscribe()
}

// ErrNoActivePeer is returned by Send when no conversation is selected.
var ErrNoActivePeer = errors.New("chatclient: no active peer selected")

// Store holds one user's client-side session: the conversation views, the
// presence roster and the active-peer selection. The store subscribes itself
// as the realtime handler at Attach, so presence and inactive-view message
// routing stay live even when no conversation is selected; the active peer
// only chooses which view Send and ActiveConversation target. Events and
// calls are serialized by an internal mutex, which is released across the
// REST round trip in Send so pushes arriving mid-send still land in the
// right view.
type Store struct {
	selfID  string
	service MessageService

	mu            sync.Mutex
	socket        Subscription
	conversations map[string]Conversation
	activePeer    string
	online        map[string]struct{}

	onSendFailure func(peerID string, err error)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSendFailureHandler registers a callback invoked after a failed send has
// been rolled out of the view. The view itself carries no error artifact.
func WithSendFailureHandler(f func(peerID string, err error)) StoreOption {
	return func(s *Store) { s.onSendFailure = f }
}

func NewStore(selfID string, service MessageService, opts ...StoreOption) *Store {
	s := &Store{
		selfID:        selfID,
		service:       service,
		conversations: make(map[string]Conversation),
		online:        make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach wires the realtime event source and subscribes the store as its
// handler immediately, so the registration roster snapshot is captured
// before any peer is selected. Not held under the store lock: the socket
// replays buffered frames into the store during Subscribe.
func (s *Store) Attach(socket Subscription) error {
	s.mu.Lock()
	s.socket = socket
	s.mu.Unlock()
	return socket.Subscribe(s)
}

// Detach tears down the realtime subscription, for logout or before
// redialing after a dropped connection.
func (s *Store) Detach() {
	s.mu.Lock()
	socket := s.socket
	s.socket = nil
	s.mu.Unlock()
	if socket != nil {
		socket.Unsubscribe()
	}
}

// SetActivePeer switches the selected conversation. Passing an empty peer
// deselects. The subscription is untouched; unselected views keep receiving
// routed pushes.
func (s *Store) SetActivePeer(peerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activePeer = peerID
	if peerID == "" {
		return
	}
	if _, ok := s.conversations[peerID]; !ok {
		s.conversations[peerID] = NewConversation(s.selfID, peerID)
	}
}

// LoadHistory replaces a conversation view with fetched history.
func (s *Store) LoadHistory(peerID string, msgs []realtime.MessagePayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[peerID]
	if !ok {
		conv = NewConversation(s.selfID, peerID)
	}
	s.conversations[peerID] = conv.WithHistory(msgs)
}

// Send runs the optimistic send protocol against the active conversation:
// insert a pending entry, call the service, then confirm in place or remove
// the entry on failure. The lock is not held across the service call, so
// pushed messages can interleave between the two transitions.
func (s *Store) Send(ctx context.Context, body, attachmentURL *string) error {
	s.mu.Lock()
	peer := s.activePeer
	if peer == "" {
		s.mu.Unlock()
		return ErrNoActivePeer
	}
	conv := s.conversations[peer]
	conv, localID := conv.BeginSend(body, attachmentURL, time.Now().UTC())
	s.conversations[peer] = conv
	s.mu.Unlock()

	msg, err := s.service.CreateMessage(ctx, peer, body, attachmentURL)

	s.mu.Lock()
	conv = s.conversations[peer]
	if err != nil {
		s.conversations[peer] = conv.Fail(localID)
		s.mu.Unlock()
		if s.onSendFailure != nil {
			s.onSendFailure(peer, err)
		}
		return err
	}
	s.conversations[peer] = conv.Confirm(localID, msg)
	s.mu.Unlock()
	return nil
}

// ActiveConversation returns a copy of the selected view, or a zero value
// when nothing is selected.
func (s *Store) ActiveConversation() Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activePeer == "" {
		return Conversation{}
	}
	return s.conversations[s.activePeer]
}

// ConversationWith returns a copy of the view for the given peer, which may
// be empty if no history or pushes have arrived for it.
func (s *Store) ConversationWith(peerID string) Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[peerID]
	if !ok {
		return NewConversation(s.selfID, peerID)
	}
	return conv
}

// OnlineUsers returns the current presence roster, sorted.
func (s *Store) OnlineUsers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]string, 0, len(s.online))
	for id := range s.online {
		users = append(users, id)
	}
	sort.Strings(users)
	return users
}

// IsOnline reports whether the given user appears in the presence roster.
func (s *Store) IsOnline(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.online[userID]
	return ok
}

// OnOnlineUsers replaces the presence roster with the pushed snapshot.
func (s *Store) OnOnlineUsers(users []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = make(map[string]struct{}, len(users))
	for _, id := range users {
		s.online[id] = struct{}{}
	}
}

// OnNewMessage routes a pushed message to the view of the counterparty, so
// messages for inactive conversations accumulate there instead of leaking
// into the selected view.
func (s *Store) OnNewMessage(msg realtime.MessagePayload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	peer := msg.SenderID
	if peer == s.selfID {
		peer = msg.RecipientID
	}
	conv, ok := s.conversations[peer]
	if !ok {
		conv = NewConversation(s.selfID, peer)
	}
	conv, _ = conv.ApplyPush(msg)
	s.conversations[peer] = conv
}
