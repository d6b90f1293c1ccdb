package identity

import (
	"errors"
	"strings"
	"time"
)

// Domain-level errors for identity behaviors
var (
	ErrInvalidEmail       = errors.New("identity: invalid email address")
	ErrWeakPassword       = errors.New("identity: password must be at least 6 characters")
	ErrMissingFullName    = errors.New("identity: full name is required")
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
)

// User is an account in the system. ID is opaque, generated by the store, and
// stable for the lifetime of the account.
type User struct {
	ID             string    `db:"id"`
	Email          string    `db:"email"`
	FullName       string    `db:"full_name"`
	HashedPassword string    `db:"hashed_password"`
	ProfilePic     *string   `db:"profile_pic"`
	CreatedAt      time.Time `db:"created_at"`
}

// NewUser validates and normalizes signup input. The password here is the
// plaintext candidate; hashing happens in the application layer.
func NewUser(email, fullName, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)

	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if fullName == "" {
		return nil, ErrMissingFullName
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	return &User{
		Email:     email,
		FullName:  fullName,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(s, " \t")
}
