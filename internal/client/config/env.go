package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix is prepended to every variable name, e.g. SECUREGUARD_LOG_LEVEL.
const EnvPrefix = "SECUREGUARD_"

// parseEnv overlays cfg with SECUREGUARD_* environment variables. Unset
// variables leave the field alone. A nil lookuper reads the process
// environment. Panics on malformed values.
func parseEnv(cfg *Config, l envconfig.Lookuper) {
	if l == nil {
		l = envconfig.OsLookuper()
	}

	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, l),
	})
	if err != nil {
		panic(err)
	}
}
