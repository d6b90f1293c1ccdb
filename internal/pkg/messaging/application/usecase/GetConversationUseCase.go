package usecase

import (
	"context"
	"fmt"

	messaging "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/application/domain"
	repository "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/persistence/repository/port"
)

// GetConversationInput identifies one two-party thread.
type GetConversationInput struct {
	UserID string
	PeerID string
	Limit  int
	Offset int
}

// GetConversationUseCase fetches the message history between two users.
type GetConversationUseCase struct {
	Repo repository.MessageRepository
}

func NewGetConversationUseCase(repo repository.MessageRepository) *GetConversationUseCase {
	return &GetConversationUseCase{Repo: repo}
}

func (uc *GetConversationUseCase) Execute(ctx context.Context, in GetConversationInput) ([]messaging.Message, error) {
	if in.UserID == "" || in.PeerID == "" {
		return nil, fmt.Errorf("user id and peer id are required")
	}
	msgs, err := uc.Repo.GetConversation(ctx, in.UserID, in.PeerID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
