package token

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token is malformed, unsigned by us,
	// or carries no subject.
	ErrInvalidToken = errors.New("token: invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token: token has expired")
)

const defaultTTL = 7 * 24 * time.Hour

// Claims are the session claims carried in the jwt cookie. The same token is
// accepted by the REST middleware and the websocket handshake.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens with HS256.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewManager constructs a Manager. A zero ttl falls back to seven days,
// matching the session cookie lifetime.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token: signing secret is required")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl, issuer: "chatify"}, nil
}

// NewManagerFromEnv reads the signing secret from the JWT_SECRET environment variable.
func NewManagerFromEnv() (*Manager, error) {
	return NewManager(os.Getenv("JWT_SECRET"), 0)
}

// TTL reports the configured token lifetime, used for the cookie max-age.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs a new session token for the given user identity.
func (m *Manager) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("token: user id is required")
	}
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies the token signature and expiry and returns the user identity.
func (m *Manager) Parse(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
