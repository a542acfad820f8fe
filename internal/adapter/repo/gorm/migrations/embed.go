package migrations

import "embed"

// FS contains the Postgres schema migrations for the meals store.
//
//go:embed *.sql
var FS embed.FS
