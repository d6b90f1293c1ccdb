package chatclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
)

type fakeService struct {
	nextID string
	err    error
	// hook runs while the request is "in flight", before the result returns.
	hook func()
}

func (f *fakeService) CreateMessage(_ context.Context, recipientID string, body, attachmentURL *string) (realtime.MessagePayload, error) {
	if f.hook != nil {
		f.hook()
	}
	if f.err != nil {
		return realtime.MessagePayload{}, f.err
	}
	return realtime.MessagePayload{
		ID:            f.nextID,
		SenderID:      self,
		RecipientID:   recipientID,
		Body:          body,
		AttachmentURL: attachmentURL,
	}, nil
}

type fakeSubscription struct {
	handler EventHandler
	calls   []string
}

func (f *fakeSubscription) Subscribe(h EventHandler) error {
	if f.handler != nil {
		return ErrAlreadySubscribed
	}
	f.handler = h
	f.calls = append(f.calls, "subscribe")
	return nil
}

func (f *fakeSubscription) Unsubscribe() {
	f.handler = nil
	f.calls = append(f.calls, "unsubscribe")
}

func TestSendConfirmsOptimisticEntry(t *testing.T) {
	svc := &fakeService{nextID: "m1"}
	store := NewStore(self, svc)
	store.SetActivePeer(peer)

	require.NoError(t, store.Send(context.Background(), str("hello"), nil))

	conv := store.ActiveConversation()
	assert.Equal(t, []string{"m1"}, viewIDs(conv))
	assert.Zero(t, conv.PendingCount())
}

func TestSendFailureRollsBackAndNotifies(t *testing.T) {
	svc := &fakeService{err: assert.AnError}
	var failedPeer string
	store := NewStore(self, svc, WithSendFailureHandler(func(p string, err error) {
		failedPeer = p
	}))
	store.SetActivePeer(peer)

	err := store.Send(context.Background(), str("doomed"), nil)

	require.Error(t, err)
	assert.Equal(t, peer, failedPeer)
	assert.Empty(t, store.ActiveConversation().Entries, "a failed send leaves no trace in the view")
}

func TestSendWithoutActivePeer(t *testing.T) {
	store := NewStore(self, &fakeService{})

	err := store.Send(context.Background(), str("hello"), nil)

	assert.ErrorIs(t, err, ErrNoActivePeer)
}

func TestPushDuringSendLandsInView(t *testing.T) {
	store := NewStore(self, nil)
	svc := &fakeService{
		nextID: "m2",
		hook: func() {
			store.OnNewMessage(serverMessage("m1", peer, self, "interleaved"))
		},
	}
	store.service = svc
	store.SetActivePeer(peer)

	require.NoError(t, store.Send(context.Background(), str("outgoing"), nil))

	assert.Equal(t, []string{"m2", "m1"}, viewIDs(store.ActiveConversation()))
}

func TestPushForInactivePeerStaysOutOfActiveView(t *testing.T) {
	store := NewStore(self, &fakeService{})
	store.SetActivePeer(peer)

	other := "user-other"
	store.OnNewMessage(serverMessage("m1", other, self, "from someone else"))

	assert.Empty(t, store.ActiveConversation().Entries)
	assert.Equal(t, []string{"m1"}, viewIDs(store.ConversationWith(other)),
		"the message accumulates in its own conversation")
}

func TestAttachSubscribesExactlyOnce(t *testing.T) {
	store := NewStore(self, &fakeService{})
	sub := &fakeSubscription{}
	require.NoError(t, store.Attach(sub))

	store.SetActivePeer(peer)
	store.SetActivePeer("user-other")
	store.SetActivePeer("")

	assert.Equal(t, []string{"subscribe"}, sub.calls,
		"peer selection must not churn the subscription")
	assert.NotNil(t, sub.handler)
}

func TestDetachUnsubscribes(t *testing.T) {
	store := NewStore(self, &fakeService{})
	sub := &fakeSubscription{}
	require.NoError(t, store.Attach(sub))

	store.Detach()

	assert.Equal(t, []string{"subscribe", "unsubscribe"}, sub.calls)
	assert.Nil(t, sub.handler)
}

func TestPresenceTrackedWithoutActivePeer(t *testing.T) {
	store := NewStore(self, &fakeService{})
	sub := &fakeSubscription{}
	require.NoError(t, store.Attach(sub))

	// The registration snapshot arrives before any conversation is opened.
	sub.handler.OnOnlineUsers([]string{peer})

	assert.True(t, store.IsOnline(peer))
	assert.Empty(t, store.ActiveConversation().Entries)
}

func TestOnlineUsersSnapshotReplacesRoster(t *testing.T) {
	store := NewStore(self, &fakeService{})

	store.OnOnlineUsers([]string{peer, "user-other"})
	assert.True(t, store.IsOnline(peer))

	store.OnOnlineUsers([]string{"user-other"})
	assert.False(t, store.IsOnline(peer))
	assert.Equal(t, []string{"user-other"}, store.OnlineUsers())
}

func TestLoadHistorySeedsView(t *testing.T) {
	store := NewStore(self, &fakeService{})
	store.SetActivePeer(peer)

	store.LoadHistory(peer, []realtime.MessagePayload{
		serverMessage("m1", peer, self, "a"),
		serverMessage("m2", self, peer, "b"),
	})

	assert.Equal(t, []string{"m1", "m2"}, viewIDs(store.ActiveConversation()))
}

func TestDuplicatePushIgnoredByStore(t *testing.T) {
	store := NewStore(self, &fakeService{})
	store.SetActivePeer(peer)

	msg := serverMessage("m1", peer, self, "hi")
	store.OnNewMessage(msg)
	store.OnNewMessage(msg)

	assert.Equal(t, []string{"m1"}, viewIDs(store.ActiveConversation()))
}
