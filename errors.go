package magicdao

import (
	"errors"

	"github.com/syssam/magicdao/metadata"
)

// Standard sentinel errors for common operations.
var (
	// ErrNoGeneratedKey is returned by InsertForID when the database did not
	// report a generated key.
	ErrNoGeneratedKey = errors.New("magicdao: no generated key returned")

	// ErrUnknownColumn is returned when a field map names a column the entity
	// does not map.
	ErrUnknownColumn = errors.New("magicdao: unknown column")

	// ErrNilDataSource is returned by New when no data source is given.
	ErrNilDataSource = errors.New("magicdao: nil data source")

	// ErrInvalidConfig is matched by every configuration error.
	ErrInvalidConfig = metadata.ErrInvalidConfig
)

type (
	// ConfigError reports an entity definition that cannot be mapped.
	ConfigError = metadata.ConfigError

	// AccessorError reports a failure of an entity getter or setter.
	AccessorError = metadata.AccessorError
)

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	return metadata.IsConfigError(err)
}

// IsAccessorError returns true if the error is an AccessorError.
func IsAccessorError(err error) bool {
	return metadata.IsAccessorError(err)
}

// IsNoGeneratedKey returns true if InsertForID found no generated key.
func IsNoGeneratedKey(err error) bool {
	return errors.Is(err, ErrNoGeneratedKey)
}
