package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/secureguard/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   role directory address (host:port)
//	-r string   role backend: grpc, mongo, postgres, static
//	-b string   identity backend: rest, file
//	-p string   preference database path
//	-l string   log level
//	-m string   metrics listen address; empty disables
//	-t int      sign-in timeout (in seconds)
//
// Only the flags above are taken from os.Args, using flagx.FilterArgs, so
// other components may define their own.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-b", "-p", "-l", "-m", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RoleDirectoryAddr, "a", cfg.RoleDirectoryAddr, "role directory address")
	fs.StringVar(&cfg.RoleBackend, "r", cfg.RoleBackend, "role backend (grpc, mongo, postgres, static)")
	fs.StringVar(&cfg.IdentityBackend, "b", cfg.IdentityBackend, "identity backend (rest, file)")
	fs.StringVar(&cfg.PrefsPath, "p", cfg.PrefsPath, "preference database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	signInTimeout := fs.Int("t", int(cfg.SignInTimeout.Seconds()), "sign-in timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.SignInTimeout = time.Duration(*signInTimeout) * time.Second
		}
	})
}
