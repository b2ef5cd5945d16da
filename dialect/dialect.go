// Package dialect provides the database abstraction the accord query
// runtime executes against. It is deliberately small: the generator emits
// calls into the query package, the query package speaks to a Driver, and
// a Driver is little more than a dialect-tagged database/sql handle.
package dialect

import (
	"context"
	"database/sql"
)

// Dialect names the query runtime knows placeholder styles for.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier wraps the standard Exec and Query methods of database/sql.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Driver is the interface the query runtime executes statements through.
type Driver interface {
	ExecQuerier

	// Dialect returns the dialect name of the driver.
	Dialect() string

	// Close closes the underlying connection.
	Close() error
}

// Tx extends Driver with transaction control.
type Tx interface {
	Driver

	Commit() error
	Rollback() error
}
