package migrations

import "embed"

// MigrationsFS embeds the job-history schema migrations
//
//go:embed *.sql
var MigrationsFS embed.FS
