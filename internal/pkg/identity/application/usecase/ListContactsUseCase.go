package usecase

import (
	"context"
	"fmt"

	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
	repository "github.com/Dhruvraj1821/chatify/internal/pkg/identity/persistence/repository/port"
)

// ListContactsUseCase returns every other account the user could message.
type ListContactsUseCase struct {
	Repo repository.UserRepository
}

func NewListContactsUseCase(repo repository.UserRepository) *ListContactsUseCase {
	return &ListContactsUseCase{Repo: repo}
}

func (uc *ListContactsUseCase) Execute(ctx context.Context, userID string) ([]identity.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	users, err := uc.Repo.ListUsersExcept(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return users, nil
}
