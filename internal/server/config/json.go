package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/secureguard/internal/flagx"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// This struct is an intermediate DTO used only for reading JSON configuration
// files; non-empty values are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrGRPC string   `json:"endpoint_addr_grpc"`
	APIKey           string   `json:"api_key"`
	Backend          string   `json:"backend"`
	DatabaseDSN      string   `json:"database_dsn"`
	MongoURI         string   `json:"mongo_uri"`
	MongoDatabase    string   `json:"mongo_db"`
	ParentEmails     []string `json:"parent_emails"`
	LogLevel         string   `json:"log_level"`
	LogFormat        string   `json:"log_format"`
	MetricsAddr      string   `json:"metrics_addr"`
}

// parseJson loads configuration values from the JSON file named by -c/-config
// or $SECUREGUARD_CONFIG into config. If no file is named nothing happens.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	for dst, v := range map[*string]string{
		&config.EndpointAddrGRPC: c.EndpointAddrGRPC,
		&config.APIKey:           c.APIKey,
		&config.Backend:          c.Backend,
		&config.DatabaseDSN:      c.DatabaseDSN,
		&config.MongoURI:         c.MongoURI,
		&config.MongoDatabase:    c.MongoDatabase,
		&config.LogLevel:         c.LogLevel,
		&config.LogFormat:        c.LogFormat,
		&config.MetricsAddr:      c.MetricsAddr,
	} {
		if v != "" {
			*dst = v
		}
	}
	if len(c.ParentEmails) > 0 {
		config.ParentEmails = c.ParentEmails
	}
}
