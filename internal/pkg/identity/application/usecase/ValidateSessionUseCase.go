package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	cacheport "github.com/Dhruvraj1821/chatify/internal/infrastructure/cache/port"
	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
	repository "github.com/Dhruvraj1821/chatify/internal/pkg/identity/persistence/repository/port"
)

// ErrInvalidSession is returned for missing, malformed or expired credentials,
// and for tokens whose identity no longer exists.
var ErrInvalidSession = errors.New("invalid or expired session")

// TokenParser verifies a session token and returns the bound user identity.
type TokenParser interface {
	Parse(token string) (string, error)
}

const sessionCacheTTL = 60 * time.Second

// ValidateSessionUseCase resolves a session token to its account. It backs
// both the REST auth middleware and the websocket handshake so the two paths
// share one validation rule. Profiles are cached briefly to keep the
// per-request store lookup off the hot path.
type ValidateSessionUseCase struct {
	Tokens TokenParser
	Repo   repository.UserRepository
	Cache  cacheport.Cache // optional
}

func NewValidateSessionUseCase(tokens TokenParser, repo repository.UserRepository, cache cacheport.Cache) *ValidateSessionUseCase {
	return &ValidateSessionUseCase{Tokens: tokens, Repo: repo, Cache: cache}
}

// Execute returns the account bound to the token.
func (uc *ValidateSessionUseCase) Execute(ctx context.Context, tokenString string) (*identity.User, error) {
	if tokenString == "" {
		return nil, ErrInvalidSession
	}

	userID, err := uc.Tokens.Parse(tokenString)
	if err != nil {
		return nil, ErrInvalidSession
	}

	if u := uc.cachedUser(ctx, userID); u != nil {
		return u, nil
	}

	u, err := uc.Repo.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.cacheUser(ctx, u)
	return u, nil
}

// Validate adapts Execute to the realtime authenticator's credential port.
func (uc *ValidateSessionUseCase) Validate(ctx context.Context, tokenString string) (string, error) {
	u, err := uc.Execute(ctx, tokenString)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

func sessionCacheKey(userID string) string { return "session:user:" + userID }

func (uc *ValidateSessionUseCase) cachedUser(ctx context.Context, userID string) *identity.User {
	if uc.Cache == nil {
		return nil
	}
	raw, err := uc.Cache.Get(ctx, sessionCacheKey(userID))
	if err != nil {
		return nil
	}
	var u identity.User
	if json.Unmarshal([]byte(raw), &u) != nil || u.ID == "" {
		return nil
	}
	return &u
}

func (uc *ValidateSessionUseCase) cacheUser(ctx context.Context, u *identity.User) {
	if uc.Cache == nil {
		return
	}
	if raw, err := json.Marshal(u); err == nil {
		_ = uc.Cache.Set(ctx, sessionCacheKey(u.ID), string(raw), sessionCacheTTL)
	}
}
