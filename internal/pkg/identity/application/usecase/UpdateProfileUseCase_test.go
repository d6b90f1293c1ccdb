package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cacheport "github.com/Dhruvraj1821/chatify/internal/infrastructure/cache/port"
	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
	repository "github.com/Dhruvraj1821/chatify/internal/pkg/identity/persistence/repository/port"
)

type fakeUserRepo struct {
	users map[string]*identity.User
}

func (f *fakeUserRepo) CreateUser(_ context.Context, u identity.User) (string, error) {
	return u.ID, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*identity.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id string, fullName *string, profilePic *string) (*identity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if fullName != nil {
		u.FullName = *fullName
	}
	if profilePic != nil {
		u.ProfilePic = profilePic
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) ListUsersExcept(_ context.Context, id string) ([]identity.User, error) {
	out := make([]identity.User, 0, len(f.users))
	for _, u := range f.users {
		if u.ID != id {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeCache struct {
	values  map[string]string
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", cacheport.ErrMiss
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) (int64, error) {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
		f.deleted = append(f.deleted, k)
	}
	return n, nil
}

func (f *fakeCache) Ping(context.Context) error { return nil }
func (f *fakeCache) Close() error               { return nil }

func TestUpdateProfileDropsCachedSession(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*identity.User{
		"u1": {ID: "u1", Email: "a@b.com", FullName: "Old Name"},
	}}
	cache := newFakeCache()
	cache.values[sessionCacheKey("u1")] = `{"ID":"u1","FullName":"Old Name"}`

	uc := NewUpdateProfileUseCase(repo, cache)
	name := "New Name"
	u, err := uc.Execute(context.Background(), UpdateProfileInput{UserID: "u1", FullName: &name})

	require.NoError(t, err)
	assert.Equal(t, "New Name", u.FullName)
	assert.NotContains(t, cache.values, sessionCacheKey("u1"),
		"the session cache must not serve the pre-update profile")
}

func TestUpdateProfileRejectsEmptyInput(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*identity.User{"u1": {ID: "u1"}}}
	cache := newFakeCache()
	cache.values[sessionCacheKey("u1")] = "cached"

	uc := NewUpdateProfileUseCase(repo, cache)
	_, err := uc.Execute(context.Background(), UpdateProfileInput{UserID: "u1"})

	require.Error(t, err)
	assert.Empty(t, cache.deleted, "a rejected update must leave the cache alone")
}

func TestUpdateProfileWorksWithoutCache(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*identity.User{
		"u1": {ID: "u1", FullName: "Old"},
	}}

	uc := NewUpdateProfileUseCase(repo, nil)
	name := "New"
	u, err := uc.Execute(context.Background(), UpdateProfileInput{UserID: "u1", FullName: &name})

	require.NoError(t, err)
	assert.Equal(t, "New", u.FullName)
}
