package repository

import (
	"context"
	"errors"

	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
)

// Sentinel errors adapters must translate store failures into.
var (
	ErrNotFound       = errors.New("identity repository: user not found")
	ErrDuplicateEmail = errors.New("identity repository: email already registered")
)

// UserRepository defines persistence operations for the identity domain.
type UserRepository interface {
	CreateUser(ctx context.Context, u identity.User) (string, error)
	GetUserByID(ctx context.Context, id string) (*identity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*identity.User, error)
	UpdateProfile(ctx context.Context, id string, fullName *string, profilePic *string) (*identity.User, error)
	ListUsersExcept(ctx context.Context, id string) ([]identity.User, error)
}
