// Package migrations embeds the SQL migration files so the runner works
// regardless of working directory.
package migrations

import "embed"

// FS is the embedded migrations filesystem.
//
//go:embed *.sql
var FS embed.FS
