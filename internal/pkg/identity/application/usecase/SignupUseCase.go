package usecase

import (
	"context"
	"errors"
	"fmt"

	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
	repository "github.com/Dhruvraj1821/chatify/internal/pkg/identity/persistence/repository/port"
)

// ErrEmailTaken surfaces a duplicate registration attempt.
var ErrEmailTaken = errors.New("email is already registered")

// PasswordHasher hashes a plaintext password for storage.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// TokenIssuer mints a session token for a user identity.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// WelcomeNotifier enqueues the post-signup welcome notification. Failures are
// best-effort and never fail the signup.
type WelcomeNotifier interface {
	NotifySignup(ctx context.Context, u identity.User) error
}

// SignupInput carries the data needed to register an account.
type SignupInput struct {
	Email    string
	FullName string
	Password string
}

// SignupUseCase registers a new account, issues its first session token and
// triggers the welcome notification.
// Hexagonal: depends on repository port plus hashing/token/notifier ports.
type SignupUseCase struct {
	Repo     repository.UserRepository
	Hasher   PasswordHasher
	Tokens   TokenIssuer
	Notifier WelcomeNotifier // optional
}

func NewSignupUseCase(repo repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, notifier WelcomeNotifier) *SignupUseCase {
	return &SignupUseCase{Repo: repo, Hasher: hasher, Tokens: tokens, Notifier: notifier}
}

// Execute validates, persists and logs in the new account.
func (uc *SignupUseCase) Execute(ctx context.Context, in SignupInput) (*identity.User, string, error) {
	u, err := identity.NewUser(in.Email, in.FullName, in.Password)
	if err != nil {
		return nil, "", err
	}

	hashed, err := uc.Hasher.Hash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	u.HashedPassword = hashed

	id, err := uc.Repo.CreateUser(ctx, *u)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, "", ErrEmailTaken
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	u.ID = id

	signed, err := uc.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Notifier != nil {
		// Welcome delivery is best-effort; the account is already created.
		_ = uc.Notifier.NotifySignup(ctx, *u)
	}

	return u, signed, nil
}
