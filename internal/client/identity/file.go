package identity

import (
	"context"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/secureguard/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// fileUser is one entry of the users file.
type fileUser struct {
	UID           string `json:"uid"`
	PasswordHash  string `json:"passwordHash"`
	EmailVerified bool   `json:"emailVerified"`
	Disabled      bool   `json:"disabled,omitempty"`
}

type usersFile struct {
	Users map[string]*fileUser `json:"users"`
}

// FileConfig configures a FileProvider.
type FileConfig struct {
	// UsersPath is a JSON file of users keyed by lowercased email.
	UsersPath string
	// Issuer is the expected "iss" claim of federated ID tokens.
	Issuer string
	// PublicKey is the base64-encoded PEM public key federated ID tokens are
	// signed with. Federated sign-in is rejected when empty.
	PublicKey string
	Logger    logging.Logger
}

// FileProvider is a Provider for local development: users come from a JSON
// file with bcrypt hashes and federated tokens are verified as JWTs.
type FileProvider struct {
	users     map[string]*fileUser
	issuer    string
	publicKey any
	log       logging.Logger

	mu      sync.Mutex
	current *Principal
}

func NewFileProvider(cfg FileConfig) (*FileProvider, error) {
	fp := &FileProvider{
		users:  make(map[string]*fileUser),
		issuer: cfg.Issuer,
		log:    cfg.Logger,
	}
	if fp.log == nil {
		fp.log = logging.Nop()
	}

	if cfg.UsersPath != "" {
		if err := fp.loadUsers(cfg.UsersPath); err != nil {
			return nil, fmt.Errorf("loading users: %w", err)
		}
	}

	if cfg.PublicKey != "" {
		if strings.TrimSpace(cfg.Issuer) == "" {
			return nil, errors.New("issuer is required with a public key")
		}
		key, err := parsePublicKey(cfg.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("parsing public key: %w", err)
		}
		fp.publicKey = key
	}

	return fp, nil
}

func (fp *FileProvider) loadUsers(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file usersFile
	if err := json.Unmarshal(data, &file); err != nil {
		return err
	}

	for email, u := range file.Users {
		if u == nil {
			continue
		}
		if u.UID == "" {
			u.UID = email
		}
		fp.users[strings.ToLower(email)] = u
	}
	return nil
}

func (fp *FileProvider) SignInWithPassword(ctx context.Context, email, password string) (*Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, &AuthError{Code: CodeInvalidEmail}
	}

	u, ok := fp.users[email]
	if !ok {
		return nil, &AuthError{Code: CodeUserNotFound}
	}
	if u.Disabled {
		return nil, &AuthError{Code: CodeUserDisabled}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, &AuthError{Code: CodeWrongPassword}
	}

	pr := &Principal{UID: u.UID, Email: email, EmailVerified: u.EmailVerified}
	fp.setCurrent(pr)
	return pr, nil
}

func (fp *FileProvider) SignInWithCredential(ctx context.Context, cred Credential) (*Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fp.publicKey == nil {
		return nil, &AuthError{Code: CodeInvalidCredential, Err: errors.New("federated sign-in is not configured")}
	}

	claims, err := fp.verify(cred.IDToken)
	if err != nil {
		return nil, &AuthError{Code: CodeInvalidCredential, Err: err}
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return nil, &AuthError{Code: CodeInvalidCredential, Err: errors.New("token lacks sub or email")}
	}
	verified, _ := claims["email_verified"].(bool)

	email = strings.ToLower(email)
	if u, ok := fp.users[email]; ok && u.Disabled {
		return nil, &AuthError{Code: CodeUserDisabled}
	}

	pr := &Principal{UID: sub, Email: email, EmailVerified: verified, IDToken: cred.IDToken}
	fp.setCurrent(pr)
	return pr, nil
}

// SendPasswordResetEmail only logs the request; nothing is delivered.
func (fp *FileProvider) SendPasswordResetEmail(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := fp.users[email]; !ok {
		return &AuthError{Code: CodeUserNotFound}
	}
	fp.log.Info(ctx, "password reset requested", "email", email)
	return nil
}

func (fp *FileProvider) CurrentPrincipal() *Principal {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	if fp.current == nil {
		return nil
	}
	cp := *fp.current
	return &cp
}

func (fp *FileProvider) setCurrent(pr *Principal) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	cp := *pr
	fp.current = &cp
}

func (fp *FileProvider) verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		switch fp.publicKey.(type) {
		case *rsa.PublicKey:
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
		case *ecdsa.PublicKey:
			if _, ok := t.Method.(*jwt.SigningMethodECDSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
		}
		return fp.publicKey, nil
	}, jwt.WithIssuer(fp.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// parsePublicKey decodes a base64-encoded PEM block holding a PKIX or PKCS#1
// public key.
func parsePublicKey(pemDataB64 string) (any, error) {
	pemData, err := base64.StdEncoding.DecodeString(pemDataB64)
	if err != nil {
		return nil, errors.New("failed to decode base64 PEM block")
	}
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	if pub, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		return pub, nil
	}
	if rsaPub, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return rsaPub, nil
	}
	return nil, errors.New("unsupported public key format")
}
