// Package federated obtains an OpenID Connect ID token from an external
// identity provider through the browser, for terminal clients.
package federated

import (
	"context"
	"errors"
	"net/url"
)

// ErrCanceled is returned when the user backs out of the provider's consent
// screen.
var ErrCanceled = errors.New("federated sign-in canceled")

// SignInUI runs an interactive federated sign-in and returns the ID token.
type SignInUI interface {
	SignIn(ctx context.Context) (idToken string, err error)
}

// Config describes the OAuth 2.0 client registered with the provider.
type Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	// RedirectAddr is the loopback host:port the browser is sent back to.
	// A random port on 127.0.0.1 is used when empty.
	RedirectAddr string
	// Scopes default to "openid email".
	Scopes []string
}

// ConfigChecker reports federated sign-in as available only when the client
// is fully configured.
type ConfigChecker struct {
	Config Config
}

func (c ConfigChecker) IsFederatedSignInAvailable() bool {
	return c.Config.ClientID != "" && absoluteURL(c.Config.AuthURL) && absoluteURL(c.Config.TokenURL)
}

func absoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs() && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https")
}
