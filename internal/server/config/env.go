package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix is prepended to every variable name, e.g. SECUREGUARD_SERVER_API_KEY.
const EnvPrefix = "SECUREGUARD_SERVER_"

// parseEnv overlays cfg with SECUREGUARD_SERVER_* variables read through l,
// or the process environment when l is nil. Panics on malformed values.
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
