// Package migrations embeds the SQL schema migrations. Every file is written
// in the SQL subset shared by PostgreSQL and SQLite.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql migration files
//
//go:embed *.sql
var FS embed.FS
