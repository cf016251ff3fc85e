package token

import "errors"

// Domain-specific errors for the token bounded context.
var (
	// ErrRefreshTokenNotFound indicates no refresh token matched the lookup.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrEmailVerificationTokenNotFound indicates no email verification token matched the lookup.
	ErrEmailVerificationTokenNotFound = errors.New("email verification token not found")
	// ErrPasswordResetTokenNotFound indicates no password reset token matched the lookup.
	ErrPasswordResetTokenNotFound = errors.New("password reset token not found")
)
