// Package config loads runtime configuration for the SecureGuard login client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c/-config or $SECUREGUARD_CONFIG.
//  3. SECUREGUARD_* environment variables (go-envconfig).
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "15s" or integer
// nanoseconds:
//
//	{
//	  "identity_backend": "rest",
//	  "identity_api_key": "AIza...",
//	  "role_backend": "grpc",
//	  "role_directory_addr": "127.0.0.1:50051",
//	  "federated_client_id": "1234.apps.googleusercontent.com",
//	  "lookup_timeout": "10s"
//	}
package config
