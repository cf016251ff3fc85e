package identity

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHash is a value object representing a hashed password using bcrypt.
// Passwords are never stored in plaintext; bcrypt cost 12 is the mandated
// work factor so verification stays deliberately slow against brute force.
type PasswordHash struct {
	hash string
}

// Password validation constants.
const (
	minPasswordLength = 12
	maxPasswordLength = 128
	bcryptCost        = 12
)

// commonPasswords contains a list of commonly used weak passwords.
// In production, this should be loaded from a comprehensive external list (e.g., top 10k passwords).
var commonPasswords = map[string]bool{
	"password":       true,
	"password123":    true,
	"password1234":   true,
	"123456":         true,
	"12345678":       true,
	"123456789012":   true,
	"qwerty":         true,
	"qwertyuiop123":  true,
	"abc123":         true,
	"monkey":         true,
	"1234567":        true,
	"letmein":        true,
	"trustno1":       true,
	"dragon":         true,
	"baseball":       true,
	"111111":         true,
	"iloveyou":       true,
	"master":         true,
	"sunshine":       true,
	"ashley":         true,
	"bailey":         true,
	"passw0rd":       true,
	"shadow":         true,
	"123123":         true,
	"654321":         true,
	"superman":       true,
	"qazwsx":         true,
	"michael":        true,
	"football":       true,
	"welcomehome123": true,
}

// NewPasswordHash hashes a plaintext password with bcrypt at cost 12.
// The password must be between 12 and 128 characters and cannot be a commonly
// used weak password.
func NewPasswordHash(plaintext string) (PasswordHash, error) {
	if plaintext == "" {
		return PasswordHash{}, ErrPasswordEmpty
	}
	if len(plaintext) < minPasswordLength {
		return PasswordHash{}, ErrPasswordTooShort
	}
	if len(plaintext) > maxPasswordLength {
		return PasswordHash{}, ErrPasswordTooLong
	}
	if commonPasswords[strings.ToLower(plaintext)] {
		return PasswordHash{}, ErrPasswordWeak
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return PasswordHash{}, err
	}

	return PasswordHash{hash: string(hash)}, nil
}

// ParsePasswordHash creates a PasswordHash from an encoded string.
// Used when loading a hash from storage.
func ParsePasswordHash(encoded string) (PasswordHash, error) {
	if encoded == "" {
		return PasswordHash{}, ErrPasswordEmpty
	}
	return PasswordHash{hash: encoded}, nil
}

// String returns the encoded hash string.
// Note: This method should only be used for persistence, never for logging or display.
func (p PasswordHash) String() string {
	return p.hash
}

// IsEmpty returns true if the PasswordHash is the zero value.
func (p PasswordHash) IsEmpty() bool {
	return p.hash == ""
}

// Verify checks if the given plaintext password matches this hash in
// constant time. Returns ErrPasswordMismatch for any malformed hash or
// mismatch; never panics.
func (p PasswordHash) Verify(plaintext string) error {
	if p.IsEmpty() {
		return ErrPasswordEmpty
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(plaintext)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
