package federated

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/secureguard/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const callbackPath = "/callback"

// OpenFunc presents the authorization URL to the user.
type OpenFunc func(authURL string) error

// PrintURL returns an OpenFunc that writes the URL to w for the user to open.
func PrintURL(w io.Writer) OpenFunc {
	return func(authURL string) error {
		_, err := fmt.Fprintf(w, "Open this URL in your browser to continue:\n\n  %s\n\n", authURL)
		return err
	}
}

// LoopbackFlow is the authorization-code flow with PKCE and a loopback
// redirect.
type LoopbackFlow struct {
	oauth  oauth2.Config
	addr   string
	open   OpenFunc
	client *http.Client
	log    logging.Logger

	newState    func() string
	newVerifier func() string
}

func NewLoopbackFlow(cfg Config, open OpenFunc, log logging.Logger) *LoopbackFlow {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "email"}
	}
	addr := cfg.RedirectAddr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	if log == nil {
		log = logging.Nop()
	}
	return &LoopbackFlow{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		addr:        addr,
		open:        open,
		client:      &http.Client{Timeout: 30 * time.Second},
		log:         log,
		newState:    uuid.NewString,
		newVerifier: oauth2.GenerateVerifier,
	}
}

type callbackResult struct {
	code string
	err  error
}

func (f *LoopbackFlow) SignIn(ctx context.Context) (string, error) {
	ln, err := net.Listen("tcp", f.addr)
	if err != nil {
		return "", fmt.Errorf("listen for redirect: %w", err)
	}
	conf := f.oauth
	conf.RedirectURL = "http://" + ln.Addr().String() + callbackPath
	state := f.newState()
	verifier := f.newVerifier()

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		res := parseCallback(r.URL.Query(), state)
		if res.err != nil {
			http.Error(w, "Sign-in did not complete. You can close this window.", http.StatusBadRequest)
		} else {
			_, _ = io.WriteString(w, "Signed in. You can close this window and return to the terminal.")
		}
		select {
		case results <- res:
		default:
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	if err := f.open(authURL); err != nil {
		return "", fmt.Errorf("open authorization url: %w", err)
	}
	f.log.Debug(ctx, "waiting for federated redirect", "redirect_uri", conf.RedirectURL)

	var res callbackResult
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for redirect: %w", ctx.Err())
	case res = <-results:
	}
	if res.err != nil {
		return "", res.err
	}

	return f.exchange(ctx, &conf, res.code, verifier)
}

func parseCallback(q url.Values, state string) callbackResult {
	if e := q.Get("error"); e != "" {
		if e == "access_denied" {
			return callbackResult{err: ErrCanceled}
		}
		return callbackResult{err: fmt.Errorf("provider returned %s: %s", e, q.Get("error_description"))}
	}
	if q.Get("state") != state {
		return callbackResult{err: errors.New("state mismatch in redirect")}
	}
	code := q.Get("code")
	if code == "" {
		return callbackResult{err: errors.New("redirect carries no code")}
	}
	return callbackResult{code: code}
}

// exchange trades the code for tokens and returns the OpenID id_token.
func (f *LoopbackFlow) exchange(ctx context.Context, conf *oauth2.Config, code, verifier string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.client)
	tok, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return "", errors.New("token response has no id_token")
	}
	return idToken, nil
}
