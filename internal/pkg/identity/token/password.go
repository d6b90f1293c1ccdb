package token

import "golang.org/x/crypto/bcrypt"

// bcryptCost of 12 keeps hashing time reasonable while staying above the
// library default.
const bcryptCost = 12

// Hasher provides password hashing and verification.
type Hasher struct {
	cost int
}

func NewHasher() *Hasher {
	return &Hasher{cost: bcryptCost}
}

// Hash generates a bcrypt hash of the given password.
func (h *Hasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether the password matches the stored hash.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
