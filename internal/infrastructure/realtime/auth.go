package realtime

import (
	"context"
	"errors"
	"net/http"
)

// ErrUnauthorized is returned when a handshake credential is missing, invalid,
// or resolves to an identity that no longer exists.
var ErrUnauthorized = errors.New("realtime: connection not authorized")

// CredentialValidator resolves a credential token to a user identity using the
// same validation rule as the REST session check.
type CredentialValidator interface {
	Validate(ctx context.Context, token string) (userID string, err error)
}

// Authenticator binds a transport connection to a user identity before the
// registry ever sees it. The check runs exactly once, synchronously, during
// the handshake; a rejected connection never becomes visible to presence or
// message routing.
type Authenticator struct {
	validator CredentialValidator
}

func NewAuthenticator(validator CredentialValidator) *Authenticator {
	return &Authenticator{validator: validator}
}

// Authenticate returns the user identity bound to the handshake token.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	userID, err := a.validator.Validate(ctx, token)
	if err != nil || userID == "" {
		return "", ErrUnauthorized
	}
	return userID, nil
}

// TokenFromRequest extracts the handshake credential: an explicit "token"
// query parameter takes precedence, then the session cookie shared with the
// REST API. Returns "" when neither is present.
func TokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if cookie, err := r.Cookie("jwt"); err == nil {
		return cookie.Value
	}
	return ""
}
