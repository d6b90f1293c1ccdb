package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	m, err := NewManager("test-secret", 0)
	require.NoError(t, err)

	signed, err := m.Issue("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	issuer, err := NewManager("secret-a", 0)
	require.NoError(t, err)
	verifier, err := NewManager("secret-b", 0)
	require.NoError(t, err)

	signed, err := issuer.Issue("user-1")
	require.NoError(t, err)

	_, err = verifier.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m, err := NewManager("test-secret", time.Nanosecond)
	require.NoError(t, err)

	signed, err := m.Issue("user-1")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	m, err := NewManager("test-secret", 0)
	require.NoError(t, err)

	_, err = m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("  ", 0)
	assert.Error(t, err)
}

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher()
	hash, err := h.Hash("hunter42")
	require.NoError(t, err)
	require.NotEqual(t, "hunter42", hash)

	assert.True(t, h.Verify("hunter42", hash))
	assert.False(t, h.Verify("hunter43", hash))
}
