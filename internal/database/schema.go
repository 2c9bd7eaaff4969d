package database

import _ "embed"

// Schema is the current schema generated from the migrations. Tests apply it
// to fresh in-memory databases instead of running the migrations.
//
//go:embed sqlc/schema.sql
var Schema string
