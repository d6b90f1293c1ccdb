package usecase

import (
	"context"
	"errors"
	"fmt"

	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
	repository "github.com/Dhruvraj1821/chatify/internal/pkg/identity/persistence/repository/port"
)

// ErrUserNotFound is returned when the identity does not resolve to an account.
var ErrUserNotFound = errors.New("user not found")

// GetUserUseCase looks up a user profile by identity.
type GetUserUseCase struct {
	Repo repository.UserRepository
}

func NewGetUserUseCase(repo repository.UserRepository) *GetUserUseCase {
	return &GetUserUseCase{Repo: repo}
}

func (uc *GetUserUseCase) Execute(ctx context.Context, id string) (*identity.User, error) {
	if id == "" {
		return nil, fmt.Errorf("user id is required")
	}
	u, err := uc.Repo.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return u, nil
}
