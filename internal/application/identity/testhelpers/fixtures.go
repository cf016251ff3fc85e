package testhelpers

import (
	"time"

	"github.com/google/uuid"

	"github.com/dashtam/core/internal/domain/identity"
	"github.com/dashtam/core/internal/domain/security"
	"github.com/dashtam/core/internal/domain/session"
	"github.com/dashtam/core/internal/domain/token"
)

// Test constants for consistent fixture data.
const (
	ValidEmail       = "test@example.com"
	ValidUsername    = "testuser"
	ValidPassword    = "SecureP@ssw0rd123"
	ValidDisplayName = "Test User"
	ValidBio         = "This is a test bio"
	ValidIPAddress   = "192.168.1.1"
	ValidUserAgent   = "Mozilla/5.0 (Test Browser)"
	ValidDeviceInfo  = "Chrome on macOS"
	ValidLocation    = "San Francisco, US"
)

var (
	// ValidUserID is a reusable user ID for tests.
	ValidUserID = identity.NewUserID()
	// ValidSessionID is a reusable session ID for tests.
	ValidSessionID = uuid.New()
)

// ValidUser returns a valid user entity for testing.
func ValidUser() *identity.User {
	email, _ := identity.NewEmail(ValidEmail)
	username, _ := identity.NewUsername(ValidUsername)
	passwordHash, _ := identity.NewPasswordHash(ValidPassword)

	user, _ := identity.NewUser(email, username, passwordHash)
	user.ClearEvents() // Clear creation event for cleaner tests
	return user
}

// ValidUserWithID returns a valid user with a specific ID.
func ValidUserWithID(userID identity.UserID) *identity.User {
	email, _ := identity.NewEmail(ValidEmail)
	username, _ := identity.NewUsername(ValidUsername)
	passwordHash, _ := identity.NewPasswordHash(ValidPassword)

	user := identity.ReconstructUser(
		userID,
		email,
		username,
		passwordHash,
		identity.RoleUser,
		identity.StatusActive,
		ValidDisplayName,
		ValidBio,
		time.Now().UTC(),
		time.Now().UTC(),
	)
	return user
}

// ValidUserWithPassword returns a valid, verified user whose password is the given plaintext.
func ValidUserWithPassword(password string) *identity.User {
	email, _ := identity.NewEmail(ValidEmail)
	username, _ := identity.NewUsername(ValidUsername)
	passwordHash, _ := identity.NewPasswordHash(password)

	user, _ := identity.NewUser(email, username, passwordHash)
	user.MarkVerified()
	user.ClearEvents()
	return user
}

// ValidActiveUser returns a verified, active user.
func ValidActiveUser() *identity.User {
	user := ValidUser()
	user.MarkVerified()
	_ = user.Activate()
	user.ClearEvents()
	return user
}

// ValidAdminUser returns a user with admin role.
func ValidAdminUser() *identity.User {
	user := ValidActiveUser()
	_ = user.ChangeRole(identity.RoleAdmin)
	user.ClearEvents()
	return user
}

// ValidSuspendedUser returns a suspended user.
func ValidSuspendedUser() *identity.User {
	user := ValidActiveUser()
	_ = user.Suspend("Test suspension")
	user.ClearEvents()
	return user
}

// ValidEmailVO returns a valid Email value object.
func ValidEmailVO() identity.Email {
	email, _ := identity.NewEmail(ValidEmail)
	return email
}

// ValidUsernameVO returns a valid Username value object.
func ValidUsernameVO() identity.Username {
	username, _ := identity.NewUsername(ValidUsername)
	return username
}

// ValidPasswordHashVO returns a valid PasswordHash value object.
func ValidPasswordHashVO() identity.PasswordHash {
	hash, _ := identity.NewPasswordHash(ValidPassword)
	return hash
}

// ValidSessionData returns a valid session.Data for testing.
func ValidSessionData(userID uuid.UUID) *session.Data {
	s, _ := session.New(userID, ValidDeviceInfo, ValidUserAgent, ValidIPAddress, ValidLocation, time.Time{})
	return s
}

// ExpiredSessionData returns a session.Data whose expiry is already in the past.
func ExpiredSessionData(userID uuid.UUID) *session.Data {
	s := ValidSessionData(userID)
	s.ExpiresAt = time.Now().UTC().Add(-1 * time.Hour)
	return s
}

// ValidRefreshTokenData returns a plaintext refresh token and its record for testing.
func ValidRefreshTokenData(userID, sessionID uuid.UUID) (string, *token.RefreshTokenData) {
	plain, record, _ := token.NewRefreshToken(userID, sessionID, 0, 0)
	return plain, record
}

// ValidEmailVerificationToken returns a valid, unexpired email verification token.
func ValidEmailVerificationToken(userID uuid.UUID) *token.EmailVerificationToken {
	t, _ := token.NewEmailVerificationToken(userID)
	return t
}

// ValidPasswordResetToken returns a valid, unexpired password reset token.
func ValidPasswordResetToken(userID uuid.UUID) *token.PasswordResetToken {
	t, _ := token.NewPasswordResetToken(userID, ValidIPAddress, ValidUserAgent)
	return t
}

// DefaultSecurityConfig returns a zero-rotation SecurityConfig for testing.
func DefaultSecurityConfig() *security.Config {
	return &security.Config{
		GlobalMinTokenVersion: 0,
		LastRotationAt:        time.Now().UTC(),
		GracePeriodSeconds:    int(security.DefaultGracePeriod.Seconds()),
		Reason:                "",
	}
}

// AlternateEmail returns an alternate email for testing uniqueness constraints.
func AlternateEmail() identity.Email {
	email, _ := identity.NewEmail("alternate@example.com")
	return email
}

// AlternateUsername returns an alternate username for testing uniqueness constraints.
func AlternateUsername() identity.Username {
	username, _ := identity.NewUsername("alternateuser")
	return username
}

// InvalidEmails returns various invalid email strings for testing validation.
func InvalidEmails() []string {
	return []string{
		"",                    // empty
		"notanemail",          // missing @
		"@example.com",        // missing local part
		"user@",               // missing domain
		"user name@test.com",  // spaces
		"user@mailinator.com", // disposable
	}
}

// InvalidUsernames returns various invalid username strings for testing validation.
func InvalidUsernames() []string {
	return []string{
		"",       // empty
		"ab",     // too short
		"user@",  // invalid character
		"user ",  // space
		"admin",  // reserved
		"system", // reserved
	}
}

// InvalidPasswords returns various invalid password strings for testing validation.
func InvalidPasswords() []string {
	return []string{
		"",           // empty
		"short",      // too short
		"nodigit",    // missing digit
		"NOUPPER",    // missing uppercase
		"nolower1",   // missing lowercase
		"NoSpecial1", // missing special character
	}
}

// WeakPasswords returns passwords that pass validation but are weak.
func WeakPasswords() []string {
	return []string{
		"Password1!",  // common pattern
		"Welcome123!", // common pattern
		"Test1234!",   // sequential
		"Qwerty123!",  // keyboard pattern
	}
}
