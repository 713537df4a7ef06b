// Package migrations embeds the SQL migrations for the SQLite task store.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
