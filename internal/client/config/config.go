package config

import (
	"time"

	"github.com/dmitrijs2005/secureguard/internal/client/identity"
)

// Identity backends.
const (
	IdentityREST = "rest"
	IdentityFile = "file"
)

// Role directory backends.
const (
	RolesGRPC     = "grpc"
	RolesMongo    = "mongo"
	RolesPostgres = "postgres"
	RolesStatic   = "static"
)

// Config holds runtime settings for the SecureGuard login client.
type Config struct {
	// Identity provider.
	IdentityBackend    string `env:"IDENTITY_BACKEND, overwrite"`
	IdentityEndpoint   string `env:"IDENTITY_ENDPOINT, overwrite"`
	IdentityAPIKey     string `env:"IDENTITY_API_KEY, overwrite"`
	UsersFile          string `env:"USERS_FILE, overwrite"`
	FederatedIssuer    string `env:"FEDERATED_ISSUER, overwrite"`
	FederatedPublicKey string `env:"FEDERATED_PUBLIC_KEY, overwrite"`

	// Role directory.
	RoleBackend         string   `env:"ROLE_BACKEND, overwrite"`
	RoleDirectoryAddr   string   `env:"ROLE_DIRECTORY_ADDR, overwrite"`
	RoleDirectoryAPIKey string   `env:"ROLE_DIRECTORY_API_KEY, overwrite"`
	MongoURI            string   `env:"MONGO_URI, overwrite"`
	MongoDatabase       string   `env:"MONGO_DB, overwrite"`
	DatabaseDSN         string   `env:"DATABASE_DSN, overwrite"`
	ParentEmails        []string `env:"PARENT_EMAILS, overwrite"`

	// Local preferences; ":memory:" keeps nothing across runs.
	PrefsPath string `env:"PREFS_PATH, overwrite"`

	// Federated sign-in client.
	FederatedClientID     string `env:"FEDERATED_CLIENT_ID, overwrite"`
	FederatedClientSecret string `env:"FEDERATED_CLIENT_SECRET, overwrite"`
	FederatedAuthURL      string `env:"FEDERATED_AUTH_URL, overwrite"`
	FederatedTokenURL     string `env:"FEDERATED_TOKEN_URL, overwrite"`
	FederatedRedirectAddr string `env:"FEDERATED_REDIRECT_ADDR, overwrite"`

	PasswordMinLength int           `env:"PASSWORD_MIN_LENGTH, overwrite"`
	SignInTimeout     time.Duration `env:"SIGN_IN_TIMEOUT, overwrite"`
	LookupTimeout     time.Duration `env:"LOOKUP_TIMEOUT, overwrite"`
	FederatedTimeout  time.Duration `env:"FEDERATED_TIMEOUT, overwrite"`

	LogLevel    string `env:"LOG_LEVEL, overwrite"`
	LogFormat   string `env:"LOG_FORMAT, overwrite"`
	MetricsAddr string `env:"METRICS_ADDR, overwrite"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.IdentityBackend = IdentityFile
	c.IdentityEndpoint = identity.DefaultEndpoint
	c.UsersFile = "users.json"

	c.RoleBackend = RolesGRPC
	c.RoleDirectoryAddr = "127.0.0.1:50051"
	c.MongoDatabase = "secureguard"

	c.PrefsPath = "secureguard.db"

	c.FederatedAuthURL = "https://accounts.google.com/o/oauth2/v2/auth"
	c.FederatedTokenURL = "https://oauth2.googleapis.com/token"
	c.FederatedRedirectAddr = "127.0.0.1:0"

	c.PasswordMinLength = 6
	c.SignInTimeout = 30 * time.Second
	c.LookupTimeout = 15 * time.Second
	c.FederatedTimeout = 3 * time.Minute

	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg, nil)
	parseFlags(cfg)
	return cfg
}
