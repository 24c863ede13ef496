// Package identity talks to the external identity provider: password and
// federated sign-in, password reset, and the currently signed-in principal.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ProviderGoogle is the provider id of Google federated credentials.
const ProviderGoogle = "google.com"

// Principal is the signed-in user as reported by the provider.
type Principal struct {
	UID           string
	Email         string
	EmailVerified bool
	IDToken       string
}

// Credential is a federated credential obtained outside the provider, such
// as an OpenID Connect ID token.
type Credential struct {
	ProviderID string
	IDToken    string
}

// Provider is the identity backend used by the login screen.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Principal, error)
	SignInWithCredential(ctx context.Context, cred Credential) (*Principal, error)
	SendPasswordResetEmail(ctx context.Context, email string) error
	// CurrentPrincipal returns the last signed-in principal, or nil.
	CurrentPrincipal() *Principal
}

// ErrorCode is the closed set of provider failures the screen distinguishes.
type ErrorCode int

const (
	CodeUnknown ErrorCode = iota
	CodeInvalidEmail
	CodeUserNotFound
	CodeWrongPassword
	CodeUserDisabled
	CodeTooManyRequests
	CodeInvalidCredential
)

func (c ErrorCode) String() string {
	switch c {
	case CodeInvalidEmail:
		return "invalid_email"
	case CodeUserNotFound:
		return "user_not_found"
	case CodeWrongPassword:
		return "wrong_password"
	case CodeUserDisabled:
		return "user_disabled"
	case CodeTooManyRequests:
		return "too_many_requests"
	case CodeInvalidCredential:
		return "invalid_credential"
	default:
		return "unknown"
	}
}

var codeNames = map[string]ErrorCode{
	// REST API spellings.
	"INVALID_EMAIL":               CodeInvalidEmail,
	"EMAIL_NOT_FOUND":             CodeUserNotFound,
	"USER_NOT_FOUND":              CodeUserNotFound,
	"INVALID_PASSWORD":            CodeWrongPassword,
	"USER_DISABLED":               CodeUserDisabled,
	"TOO_MANY_ATTEMPTS_TRY_LATER": CodeTooManyRequests,
	"INVALID_IDP_RESPONSE":        CodeInvalidCredential,
	"INVALID_LOGIN_CREDENTIALS":   CodeInvalidCredential,
	"INVALID_ID_TOKEN":            CodeInvalidCredential,
	// SDK spellings.
	"ERROR_INVALID_EMAIL":      CodeInvalidEmail,
	"ERROR_USER_NOT_FOUND":     CodeUserNotFound,
	"ERROR_WRONG_PASSWORD":     CodeWrongPassword,
	"ERROR_USER_DISABLED":      CodeUserDisabled,
	"ERROR_TOO_MANY_REQUESTS":  CodeTooManyRequests,
	"ERROR_INVALID_CREDENTIAL": CodeInvalidCredential,
}

// ParseErrorCode maps a provider error string to an ErrorCode. Trailing
// detail after the first space or colon is ignored. Anything unrecognised is
// CodeUnknown.
func ParseErrorCode(raw string) ErrorCode {
	name := strings.TrimSpace(raw)
	if i := strings.IndexAny(name, " :"); i >= 0 {
		name = name[:i]
	}
	if c, ok := codeNames[strings.ToUpper(name)]; ok {
		return c
	}
	return CodeUnknown
}

// AuthError is a failure reported by the provider itself.
type AuthError struct {
	Code ErrorCode
	// Raw is the provider's own error string.
	Raw string
	Err error
}

// NewAuthError builds an AuthError from the provider's error string.
func NewAuthError(raw string) *AuthError {
	return &AuthError{Code: ParseErrorCode(raw), Raw: raw}
}

func (e *AuthError) Error() string {
	msg := "identity: " + e.Code.String()
	if e.Raw != "" {
		msg += fmt.Sprintf(" (%s)", e.Raw)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// CodeOf returns the ErrorCode carried by err, or CodeUnknown when err is not
// an AuthError.
func CodeOf(err error) ErrorCode {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}
