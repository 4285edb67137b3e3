// Package db embeds the goose SQL migrations for PostgreSQL.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
