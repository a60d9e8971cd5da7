// Package dialect defines the executor contract used by magicdao.
//
// A DAO never talks to database/sql directly. It hands rendered statements to
// an ExecQuerier, which runs them and fills the caller-supplied destination:
//
//	type ExecQuerier interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	}
//
// The Driver interface adds Close and Dialect. The dialect name decides the
// placeholder style of rendered statements ("$1" for Postgres, "?" otherwise)
// and how generated keys are read back after an insert.
//
//	dialect.MySQL    = "mysql"
//	dialect.Postgres = "postgres"
//	dialect.SQLite   = "sqlite"
//
// The dialect/sql sub-package provides the database/sql based implementation.
package dialect
