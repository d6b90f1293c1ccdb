package usecase

import (
	"context"
	"fmt"

	repository "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/persistence/repository/port"
)

// ListChatPartnersUseCase returns the identities the user already has a
// conversation with.
type ListChatPartnersUseCase struct {
	Repo repository.MessageRepository
}

func NewListChatPartnersUseCase(repo repository.MessageRepository) *ListChatPartnersUseCase {
	return &ListChatPartnersUseCase{Repo: repo}
}

func (uc *ListChatPartnersUseCase) Execute(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	ids, err := uc.Repo.ListChatPartnerIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return ids, nil
}
