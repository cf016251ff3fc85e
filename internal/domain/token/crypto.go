package token

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// opaqueByteLen is the random-byte length backing an opaque refresh token.
const opaqueByteLen = 32

// hexByteLen is the random-byte length backing email-verification and
// password-reset tokens, which are stored plain (already unguessable).
const hexByteLen = 32

// opaqueHashCost is the bcrypt work factor for opaque-token hash-at-rest.
const opaqueHashCost = 12

// GenerateOpaque produces a fresh opaque token pair: a url-safe-base64
// plaintext of 32 random bytes, and its bcrypt hash for storage. The
// plaintext is returned to the caller exactly once; only the hash is
// persisted.
func GenerateOpaque() (plain string, hash string, err error) {
	buf := make([]byte, opaqueByteLen)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	plain = base64.RawURLEncoding.EncodeToString(buf)

	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), opaqueHashCost)
	if err != nil {
		return "", "", err
	}
	return plain, string(hashed), nil
}

// VerifyOpaque reports whether plain matches hash in constant time. Returns
// false for any malformed hash; never panics.
func VerifyOpaque(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// GenerateHex returns a 64-character lowercase-hex token (32 random bytes),
// suitable for email-verification and password-reset tokens that are stored
// plain because they are already unguessable and single-use.
func GenerateHex() (string, error) {
	buf := make([]byte, hexByteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
