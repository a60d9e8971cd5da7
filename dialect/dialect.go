package dialect

import "context"

// Dialect names.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier wraps the two statement execution methods.
//
// Exec accepts a nil destination or a *sql.Result. Query accepts a *sql.Rows
// from the dialect/sql package.
type ExecQuerier interface {
	Exec(ctx context.Context, query string, args, v any) error
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is an ExecQuerier bound to a database connection pool.
type Driver interface {
	ExecQuerier
	// Close closes the underlying connection pool.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}
