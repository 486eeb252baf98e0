// Package migrations embeds the SQL schema migrations applied by golang-migrate.
package migrations

import "embed"

// FS holds every *.sql migration, named <version>_<name>.(up|down).sql
//
//go:embed *.sql
var FS embed.FS
