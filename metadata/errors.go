package metadata

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrInvalidConfig is matched by every ConfigError.
	ErrInvalidConfig = errors.New("metadata: invalid entity configuration")

	// ErrNoKeyColumns is returned when an entity declares no key column.
	ErrNoKeyColumns = errors.New("metadata: entity has no key columns")

	// ErrNullKey is returned when a key value is NULL.
	ErrNullKey = errors.New("metadata: null key value")

	// ErrKeyArity is returned when a composite key does not provide one value
	// per key column.
	ErrKeyArity = errors.New("metadata: key value count does not match key columns")
)

// ConfigError reports an entity definition that cannot be mapped.
type ConfigError struct {
	Entity string // Entity type name
	Err    error  // Underlying problem
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("metadata: invalid configuration for %s: %v", e.Entity, e.Err)
}

// Is reports whether the target error matches ErrInvalidConfig.
func (e *ConfigError) Is(err error) bool {
	return err == ErrInvalidConfig
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErrorf(entity, format string, args ...any) *ConfigError {
	return &ConfigError{Entity: entity, Err: fmt.Errorf(format, args...)}
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e)
}

// AccessorError reports a failure while reading or writing an entity field.
type AccessorError struct {
	Entity string // Entity type name
	Field  string // Go field name
	Column string // Mapped column
	Err    error  // Error returned by the accessor
}

// Error returns the error string.
func (e *AccessorError) Error() string {
	return fmt.Sprintf("metadata: accessor %s.%s (column %q): %v", e.Entity, e.Field, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *AccessorError) Unwrap() error {
	return e.Err
}

// IsAccessorError returns true if the error is an AccessorError.
func IsAccessorError(err error) bool {
	if err == nil {
		return false
	}
	var e *AccessorError
	return errors.As(err, &e)
}
