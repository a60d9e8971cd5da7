package magicdao

import (
	"log/slog"

	"github.com/syssam/magicdao/metadata"
)

// Option configures a DAO.
type Option func(*options)

type options struct {
	registry *metadata.Registry
	logger   *slog.Logger
}

// WithRegistry shares a metadata registry between DAOs. By default each DAO
// uses its own registry.
func WithRegistry(r *metadata.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithLogger sets the logger used for accessor and execution failures.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
