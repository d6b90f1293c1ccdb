package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	messaging "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/application/domain"
)

type fakeMessageRepo struct {
	saved   []messaging.Message
	nextID  string
	saveErr error
}

func (f *fakeMessageRepo) SaveMessage(ctx context.Context, m messaging.Message) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved = append(f.saved, m)
	return f.nextID, nil
}

func (f *fakeMessageRepo) GetConversation(ctx context.Context, a, b string, limit, offset int) ([]messaging.Message, error) {
	return nil, nil
}

func (f *fakeMessageRepo) ListChatPartnerIDs(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}

type recordingNotifier struct {
	notified []messaging.Message
}

func (n *recordingNotifier) MessagePersisted(m messaging.Message) {
	n.notified = append(n.notified, m)
}

func strPtr(s string) *string { return &s }

func TestSendMessagePersistsThenNotifies(t *testing.T) {
	repo := &fakeMessageRepo{nextID: "m1"}
	notifier := &recordingNotifier{}
	uc := NewSendMessageUseCase(repo, notifier)

	msg, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID:    "alice",
		RecipientID: "bob",
		Body:        strPtr("hi"),
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.ID)
	assert.False(t, msg.CreatedAt.IsZero())

	// The notifier sees the authoritative copy, id included.
	require.Len(t, notifier.notified, 1)
	assert.Equal(t, "m1", notifier.notified[0].ID)
	assert.Equal(t, "bob", notifier.notified[0].RecipientID)
}

func TestSendMessageValidationSkipsNotifier(t *testing.T) {
	repo := &fakeMessageRepo{nextID: "m1"}
	notifier := &recordingNotifier{}
	uc := NewSendMessageUseCase(repo, notifier)

	_, err := uc.Execute(context.Background(), SendMessageInput{SenderID: "alice", RecipientID: "alice", Body: strPtr("hi")})
	assert.ErrorIs(t, err, messaging.ErrSelfMessage)

	_, err = uc.Execute(context.Background(), SendMessageInput{SenderID: "alice", RecipientID: "bob"})
	assert.ErrorIs(t, err, messaging.ErrEmptyMessage)

	assert.Empty(t, repo.saved)
	assert.Empty(t, notifier.notified)
}

func TestSendMessagePersistenceFailureSkipsNotifier(t *testing.T) {
	repo := &fakeMessageRepo{saveErr: assert.AnError}
	notifier := &recordingNotifier{}
	uc := NewSendMessageUseCase(repo, notifier)

	_, err := uc.Execute(context.Background(), SendMessageInput{SenderID: "alice", RecipientID: "bob", Body: strPtr("hi")})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, notifier.notified)
}

func TestSendMessageWorksWithoutNotifier(t *testing.T) {
	uc := NewSendMessageUseCase(&fakeMessageRepo{nextID: "m2"}, nil)
	msg, err := uc.Execute(context.Background(), SendMessageInput{SenderID: "alice", RecipientID: "bob", Body: strPtr("hi")})
	require.NoError(t, err)
	assert.Equal(t, "m2", msg.ID)
}
