// Package db ships the DDL and seed scripts for both stores.
package db

import "embed"

const (
	SourceMigrations    = "migrations/oltp"
	WarehouseMigrations = "migrations/olap"
)

//go:embed migrations/oltp/*.sql migrations/olap/*.sql
var Migrations embed.FS
