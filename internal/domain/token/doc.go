// Package token implements the opaque token primitives and at-rest records
// for refresh tokens, email-verification tokens, and password-reset tokens
// (spec C1-C2).
package token
