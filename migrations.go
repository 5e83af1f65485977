package timeline

import "embed"

// MigrationsFS contains SQL migrations for both PostgreSQL and SQLite.
//
// Root files (data/sql/migrations/*.sql) hold the PostgreSQL migrations;
// SQLite overrides live in data/sql/migrations/sqlite/*.sql. go-persistence-bun
// selects the correct set from the active dialect:
//
//	migrationsFS, _ := fs.Sub(timeline.MigrationsFS, "data/sql/migrations")
//	client.RegisterDialectMigrations(
//	    migrationsFS,
//	    persistence.WithDialectSourceLabel("."),
//	    persistence.WithValidationTargets("postgres", "sqlite"),
//	)
//
//go:embed data/sql/migrations
var MigrationsFS embed.FS
