// Package migrations embeds the per-dialect schema files applied by
// database.RunMigrations.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var FS embed.FS
