// Package db embeds the database schema shipped with the binary.
package db

import _ "embed"

// Schema holds the DDL applied on startup by the migration runner.
//
//go:embed migrations/001_schema.sql
var Schema string
