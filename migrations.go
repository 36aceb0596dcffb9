package crm

import "embed"

// MigrationsFS contains SQL migrations for both PostgreSQL and SQLite.
//
// The migrations are organized in a dialect-aware structure:
//   - Root files (data/sql/migrations/*.sql) contain PostgreSQL migrations
//   - SQLite overrides are in data/sql/migrations/sqlite/*.sql
//
// The go-persistence-bun loader will automatically select the correct
// migrations based on the database dialect being used.
//
// Usage:
//
//	import "io/fs"
//	import crm "github.com/goliatone/go-crm"
//	import persistence "github.com/goliatone/go-persistence-bun"
//
//	migrationsFS, _ := fs.Sub(crm.GetCoreMigrationsFS(), "data/sql/migrations")
//	client.RegisterDialectMigrations(
//	    migrationsFS,
//	    persistence.WithDialectSourceLabel("."),
//	    persistence.WithValidationTargets("postgres", "sqlite"),
//	)
//
//go:embed data/sql/migrations
var MigrationsFS embed.FS

// CoreMigrationsFS contains the CRM schema migrations (tenants, companies,
// contacts, engagements, deals + pivot, lookups, audit log).
//
//go:embed data/sql/migrations/*.sql data/sql/migrations/sqlite/*.sql
var CoreMigrationsFS embed.FS

// GetCoreMigrationsFS exposes the core CRM migrations so host applications
// can register them with go-persistence-bun (or another migration runner).
func GetCoreMigrationsFS() embed.FS {
	return CoreMigrationsFS
}
