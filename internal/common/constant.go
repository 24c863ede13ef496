// Package common contains shared constants and sentinel errors used across
// SecureGuard components.
package common

// APIKeyHeaderName is the gRPC metadata key used to carry the role-directory
// API key on outbound requests.
const APIKeyHeaderName = "x-api-key"

// Well-known keys of the local preference store.
const (
	PrefAutoLogin = "AUTO_LOGIN"
	PrefEmail     = "EMAIL"
	PrefPassword  = "PASSWORD"
)
