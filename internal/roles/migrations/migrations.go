// Package migrations embeds the Postgres schema of the role directory.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
