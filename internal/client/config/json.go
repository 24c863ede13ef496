package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/secureguard/internal/flagx"
	"github.com/dmitrijs2005/secureguard/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// timex.Duration so the file may say "15s" or give integer nanoseconds.
type JsonConfig struct {
	IdentityBackend    string `json:"identity_backend"`
	IdentityEndpoint   string `json:"identity_endpoint"`
	IdentityAPIKey     string `json:"identity_api_key"`
	UsersFile          string `json:"users_file"`
	FederatedIssuer    string `json:"federated_issuer"`
	FederatedPublicKey string `json:"federated_public_key"`

	RoleBackend         string   `json:"role_backend"`
	RoleDirectoryAddr   string   `json:"role_directory_addr"`
	RoleDirectoryAPIKey string   `json:"role_directory_api_key"`
	MongoURI            string   `json:"mongo_uri"`
	MongoDatabase       string   `json:"mongo_db"`
	DatabaseDSN         string   `json:"database_dsn"`
	ParentEmails        []string `json:"parent_emails"`

	PrefsPath string `json:"prefs_path"`

	FederatedClientID     string `json:"federated_client_id"`
	FederatedClientSecret string `json:"federated_client_secret"`
	FederatedAuthURL      string `json:"federated_auth_url"`
	FederatedTokenURL     string `json:"federated_token_url"`
	FederatedRedirectAddr string `json:"federated_redirect_addr"`

	PasswordMinLength int            `json:"password_min_length"`
	SignInTimeout     timex.Duration `json:"sign_in_timeout"`
	LookupTimeout     timex.Duration `json:"lookup_timeout"`
	FederatedTimeout  timex.Duration `json:"federated_timeout"`

	LogLevel    string `json:"log_level"`
	LogFormat   string `json:"log_format"`
	MetricsAddr string `json:"metrics_addr"`
}

// parseJson overlays cfg with the JSON file named by -c/-config or
// $SECUREGUARD_CONFIG. Keys missing from the file leave cfg untouched.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigFile()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.IdentityBackend, jc.IdentityBackend)
	setString(&cfg.IdentityEndpoint, jc.IdentityEndpoint)
	setString(&cfg.IdentityAPIKey, jc.IdentityAPIKey)
	setString(&cfg.UsersFile, jc.UsersFile)
	setString(&cfg.FederatedIssuer, jc.FederatedIssuer)
	setString(&cfg.FederatedPublicKey, jc.FederatedPublicKey)

	setString(&cfg.RoleBackend, jc.RoleBackend)
	setString(&cfg.RoleDirectoryAddr, jc.RoleDirectoryAddr)
	setString(&cfg.RoleDirectoryAPIKey, jc.RoleDirectoryAPIKey)
	setString(&cfg.MongoURI, jc.MongoURI)
	setString(&cfg.MongoDatabase, jc.MongoDatabase)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	if len(jc.ParentEmails) > 0 {
		cfg.ParentEmails = jc.ParentEmails
	}

	setString(&cfg.PrefsPath, jc.PrefsPath)

	setString(&cfg.FederatedClientID, jc.FederatedClientID)
	setString(&cfg.FederatedClientSecret, jc.FederatedClientSecret)
	setString(&cfg.FederatedAuthURL, jc.FederatedAuthURL)
	setString(&cfg.FederatedTokenURL, jc.FederatedTokenURL)
	setString(&cfg.FederatedRedirectAddr, jc.FederatedRedirectAddr)

	if jc.PasswordMinLength > 0 {
		cfg.PasswordMinLength = jc.PasswordMinLength
	}
	if jc.SignInTimeout.Duration > 0 {
		cfg.SignInTimeout = jc.SignInTimeout.Duration
	}
	if jc.LookupTimeout.Duration > 0 {
		cfg.LookupTimeout = jc.LookupTimeout.Duration
	}
	if jc.FederatedTimeout.Duration > 0 {
		cfg.FederatedTimeout = jc.FederatedTimeout.Duration
	}

	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
