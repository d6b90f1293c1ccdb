package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
	repository "github.com/Dhruvraj1821/chatify/internal/pkg/identity/persistence/repository/port"
)

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(password, hash string) bool
}

// LoginInput carries submitted credentials.
type LoginInput struct {
	Email    string
	Password string
}

// LoginUseCase authenticates credentials and issues a session token.
type LoginUseCase struct {
	Repo     repository.UserRepository
	Verifier PasswordVerifier
	Tokens   TokenIssuer
}

func NewLoginUseCase(repo repository.UserRepository, verifier PasswordVerifier, tokens TokenIssuer) *LoginUseCase {
	return &LoginUseCase{Repo: repo, Verifier: verifier, Tokens: tokens}
}

// Execute returns the authenticated user and a fresh session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (uc *LoginUseCase) Execute(ctx context.Context, in LoginInput) (*identity.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, "", identity.ErrInvalidCredentials
	}

	u, err := uc.Repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", identity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if !uc.Verifier.Verify(in.Password, u.HashedPassword) {
		return nil, "", identity.ErrInvalidCredentials
	}

	signed, err := uc.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return u, signed, nil
}
