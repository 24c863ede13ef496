// Package common defines shared constants and sentinel errors used across
// client and server layers of SecureGuard. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Returned when the role directory rejects the configured API key.
	ErrorUnauthorized = errors.New("unauthorized")

	// Transport errors.
	ErrUnavailable = errors.New("service unavailable")
)
