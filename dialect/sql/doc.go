// Package sql implements the dialect.Driver contract on top of database/sql.
//
// Open a driver for one of the supported dialects:
//
//	drv, err := sql.Open(dialect.MySQL, "user:pass@tcp(localhost:3306)/shop")
//
// or wrap an existing *sql.DB:
//
//	drv := sql.OpenDB(dialect.Postgres, db)
//
// Statements are executed through Exec and Query. Exec accepts nil or a
// *sql.Result destination; Query fills a *Rows:
//
//	rows := &sql.Rows{}
//	err := drv.Query(ctx, "SELECT id, status FROM orders WHERE id = ?", []any{42}, rows)
//
// # Statistics and Debugging
//
// StatsDriver counts SELECT, INSERT, UPDATE and DELETE statements and reports
// slow statements through a hook, while DebugDriver logs every statement
// with log/slog:
//
//	stats := sql.NewStatsDriver(drv, sql.WithSlowThreshold(200*time.Millisecond), sql.WithSlowQueryLog(nil))
//	debug := sql.NewDebugDriver(stats, logger)
//
// Errors returned by the underlying database are wrapped with %w, so
// errors.Is and errors.As reach the original driver error.
package sql
