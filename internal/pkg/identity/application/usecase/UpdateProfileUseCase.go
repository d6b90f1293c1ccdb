package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cacheport "github.com/Dhruvraj1821/chatify/internal/infrastructure/cache/port"
	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
	repository "github.com/Dhruvraj1821/chatify/internal/pkg/identity/persistence/repository/port"
)

// UpdateProfileInput carries optional profile fields; nil means "leave unchanged".
type UpdateProfileInput struct {
	UserID     string
	FullName   *string
	ProfilePic *string
}

// UpdateProfileUseCase mutates display fields of an existing account. The
// cached session profile is dropped on success so the auth check never
// serves pre-update fields for the remainder of the cache TTL.
type UpdateProfileUseCase struct {
	Repo  repository.UserRepository
	Cache cacheport.Cache // optional
}

func NewUpdateProfileUseCase(repo repository.UserRepository, cache cacheport.Cache) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{Repo: repo, Cache: cache}
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, in UpdateProfileInput) (*identity.User, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if in.FullName != nil {
		trimmed := strings.TrimSpace(*in.FullName)
		if trimmed == "" {
			return nil, identity.ErrMissingFullName
		}
		in.FullName = &trimmed
	}
	if in.FullName == nil && in.ProfilePic == nil {
		return nil, fmt.Errorf("nothing to update")
	}

	u, err := uc.Repo.UpdateProfile(ctx, in.UserID, in.FullName, in.ProfilePic)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		_, _ = uc.Cache.Del(ctx, sessionCacheKey(u.ID))
	}
	return u, nil
}
