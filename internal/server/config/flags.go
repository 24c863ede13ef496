package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/secureguard/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-k string   API key expected from clients
//	-b string   storage backend: postgres or mongo
//	-d string   PostgreSQL DSN
//	-u string   MongoDB URI
//	-l string   log level
//	-m string   metrics listen address
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-b", "-d", "-u", "-l", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.APIKey, "k", config.APIKey, "API key")
	fs.StringVar(&config.Backend, "b", config.Backend, "storage backend (postgres, mongo)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoURI, "u", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "metrics listen address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
