package usecase

import (
	"context"
	"fmt"

	messaging "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/application/domain"
	repository "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/persistence/repository/port"
)

// DeliveryNotifier observes messages after they are durably persisted, for
// realtime push to the recipient. Notification is best-effort; a miss only
// means the recipient catches up on their next conversation fetch.
type DeliveryNotifier interface {
	MessagePersisted(m messaging.Message)
}

// SendMessageInput carries the data needed to send a new message.
type SendMessageInput struct {
	SenderID      string
	RecipientID   string
	Body          *string
	AttachmentURL *string
}

// SendMessageUseCase persists a message and hands the authoritative copy to
// the delivery notifier. The notifier runs only after the store commit, so a
// pushed message is always fetchable.
type SendMessageUseCase struct {
	Repo     repository.MessageRepository
	Notifier DeliveryNotifier // optional
}

func NewSendMessageUseCase(repo repository.MessageRepository, notifier DeliveryNotifier) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Notifier: notifier}
}

// Execute validates, persists and announces a new message.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*messaging.Message, error) {
	msg, err := messaging.NewMessage(messaging.Message{
		SenderID:      in.SenderID,
		RecipientID:   in.RecipientID,
		Body:          in.Body,
		AttachmentURL: in.AttachmentURL,
	})
	if err != nil {
		return nil, err
	}

	id, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id

	if uc.Notifier != nil {
		uc.Notifier.MessagePersisted(*msg)
	}
	return msg, nil
}
