package core

import "database/sql"

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Path     string // file path for embedded databases (SQLite, DuckDB)
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Options  map[string]string
	// Params holds adapter-specific structured settings, decoded by the
	// adapter itself.
	Params map[string]any
}

// Rows wraps sql.Rows so callers get column metadata together with the
// row iterator.
type Rows struct {
	*sql.Rows
}
