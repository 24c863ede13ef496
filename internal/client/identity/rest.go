package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultEndpoint is the public Identity Toolkit endpoint.
const DefaultEndpoint = "https://identitytoolkit.googleapis.com"

// RESTConfig configures a RESTProvider.
type RESTConfig struct {
	// Endpoint is the base URL, DefaultEndpoint when empty.
	Endpoint string
	APIKey   string
	// RequestURI is sent as the IdP continue URI; any registered URI works.
	RequestURI string
	HTTPClient *http.Client
}

// RESTProvider is a Provider backed by the Identity Toolkit v1 REST API.
type RESTProvider struct {
	endpoint   string
	apiKey     string
	requestURI string
	client     *http.Client

	mu      sync.Mutex
	current *Principal
}

func NewRESTProvider(cfg RESTConfig) (*RESTProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("identity: api key is required")
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("identity: bad endpoint %q: %w", endpoint, err)
	}
	requestURI := cfg.RequestURI
	if requestURI == "" {
		requestURI = "http://localhost"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RESTProvider{endpoint: endpoint, apiKey: cfg.APIKey, requestURI: requestURI, client: client}, nil
}

type signInResponse struct {
	LocalID       string `json:"localId"`
	Email         string `json:"email"`
	IDToken       string `json:"idToken"`
	EmailVerified bool   `json:"emailVerified"`
}

type lookupResponse struct {
	Users []struct {
		LocalID       string `json:"localId"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
	} `json:"users"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *RESTProvider) SignInWithPassword(ctx context.Context, email, password string) (*Principal, error) {
	var resp signInResponse
	err := p.call(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	// The password endpoint does not report verification state.
	var lookup lookupResponse
	if err := p.call(ctx, "accounts:lookup", map[string]any{"idToken": resp.IDToken}, &lookup); err != nil {
		return nil, err
	}
	if len(lookup.Users) == 0 {
		return nil, NewAuthError("USER_NOT_FOUND")
	}

	pr := &Principal{
		UID:           resp.LocalID,
		Email:         resp.Email,
		EmailVerified: lookup.Users[0].EmailVerified,
		IDToken:       resp.IDToken,
	}
	p.setCurrent(pr)
	return pr, nil
}

func (p *RESTProvider) SignInWithCredential(ctx context.Context, cred Credential) (*Principal, error) {
	if cred.IDToken == "" {
		return nil, &AuthError{Code: CodeInvalidCredential, Err: errors.New("empty id token")}
	}
	providerID := cred.ProviderID
	if providerID == "" {
		providerID = ProviderGoogle
	}
	postBody := url.Values{"id_token": {cred.IDToken}, "providerId": {providerID}}

	var resp signInResponse
	err := p.call(ctx, "accounts:signInWithIdp", map[string]any{
		"postBody":            postBody.Encode(),
		"requestUri":          p.requestURI,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	pr := &Principal{
		UID:           resp.LocalID,
		Email:         resp.Email,
		EmailVerified: resp.EmailVerified,
		IDToken:       resp.IDToken,
	}
	p.setCurrent(pr)
	return pr, nil
}

func (p *RESTProvider) SendPasswordResetEmail(ctx context.Context, email string) error {
	return p.call(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

func (p *RESTProvider) CurrentPrincipal() *Principal {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	cp := *p.current
	return &cp
}

func (p *RESTProvider) setCurrent(pr *Principal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := *pr
	p.current = &cp
}

func (p *RESTProvider) call(ctx context.Context, method string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", method, err)
	}

	u := fmt.Sprintf("%s/v1/%s?key=%s", p.endpoint, method, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", method, err)
	}

	if res.StatusCode != http.StatusOK {
		var er errorResponse
		if err := json.Unmarshal(raw, &er); err == nil && er.Error.Message != "" {
			return NewAuthError(er.Error.Message)
		}
		return fmt.Errorf("%s: unexpected status %s", method, res.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	return nil
}
