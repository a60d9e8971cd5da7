package metadata

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/syssam/magicdao/action"
	"github.com/syssam/magicdao/schema"
	"github.com/syssam/magicdao/schema/field"
	"github.com/syssam/magicdao/shard"
)

// Entity holds the extracted mapping of entity type E.
// An Entity is immutable and safe for concurrent use.
type Entity[E any] struct {
	name       string
	table      *action.Table
	strategy   *shard.Strategy
	keys       []string
	columns    []string
	insertable []string
	updatable  []string
	keyFields  []*field.Descriptor[E]
	accessors  map[string]*field.Descriptor[E]
	folded     map[string]*field.Descriptor[E]
	logger     *slog.Logger
}

// Extract builds the metadata of E from def. Most callers go through a
// Registry, which extracts each type once.
func Extract[E any](def *schema.Definition[E]) (*Entity[E], error) {
	return extract(def, slog.Default())
}

func extract[E any](def *schema.Definition[E], logger *slog.Logger) (*Entity[E], error) {
	name := reflect.TypeFor[E]().Name()
	if def == nil {
		return nil, configErrorf(name, "nil definition")
	}
	if err := def.Err(); err != nil {
		return nil, &ConfigError{Entity: name, Err: err}
	}
	if def.Table() == "" {
		return nil, configErrorf(name, "missing table name")
	}
	if !action.IsValidIdentifier(def.Table()) {
		return nil, configErrorf(name, "invalid table name %q", def.Table())
	}
	fields := def.Fields()
	if len(fields) == 0 {
		return nil, configErrorf(name, "no mapped fields")
	}
	m := &Entity[E]{
		name:      name,
		accessors: make(map[string]*field.Descriptor[E], len(fields)),
		folded:    make(map[string]*field.Descriptor[E], len(fields)),
		logger:    logger,
	}
	for _, fd := range fields {
		if err := fd.Err(); err != nil {
			return nil, &ConfigError{Entity: name, Err: err}
		}
		if !action.IsValidIdentifier(fd.Column) {
			return nil, configErrorf(name, "invalid column name %q", fd.Column)
		}
		if _, ok := m.accessors[fd.Column]; ok {
			return nil, configErrorf(name, "duplicate column %q", fd.Column)
		}
		m.accessors[fd.Column] = fd
		m.folded[strings.ToLower(fd.Column)] = fd
		m.columns = append(m.columns, fd.Column)
		switch {
		case fd.Key:
			m.keys = append(m.keys, fd.Column)
			m.keyFields = append(m.keyFields, fd)
			if !fd.AutoIncrement {
				m.insertable = append(m.insertable, fd.Column)
			}
		case !fd.ReadOnly:
			m.insertable = append(m.insertable, fd.Column)
			m.updatable = append(m.updatable, fd.Column)
		}
	}
	if len(m.keys) == 0 {
		return nil, &ConfigError{Entity: name, Err: ErrNoKeyColumns}
	}
	if spec := def.ShardSpec(); spec != nil {
		if _, ok := m.accessors[spec.Column]; !ok {
			return nil, configErrorf(name, "shard column %q is not mapped", spec.Column)
		}
		s, err := shard.New(spec.Count, spec.Column, spec.Separator)
		if err != nil {
			return nil, &ConfigError{Entity: name, Err: err}
		}
		m.strategy = s
	}
	m.table = action.NewTable(def.Table(), m.keys, m.columns)
	return m, nil
}

// Name returns the entity type name.
func (m *Entity[E]) Name() string { return m.name }

// Table returns the logical table.
func (m *Entity[E]) Table() *action.Table { return m.table }

// Strategy returns the shard strategy, or nil for unsharded entities.
func (m *Entity[E]) Strategy() *shard.Strategy { return m.strategy }

// KeyColumns returns the key columns in declaration order.
func (m *Entity[E]) KeyColumns() []string { return slices.Clone(m.keys) }

// Columns returns all mapped columns in declaration order.
func (m *Entity[E]) Columns() []string { return slices.Clone(m.columns) }

// InsertableColumns returns the keys not generated by the database followed
// by, in declaration order, every column that is not read-only.
func (m *Entity[E]) InsertableColumns() []string { return slices.Clone(m.insertable) }

// UpdatableColumns returns the insertable columns that are not keys.
func (m *Entity[E]) UpdatableColumns() []string { return slices.Clone(m.updatable) }

// Accessor returns the descriptor bound to column.
func (m *Entity[E]) Accessor(column string) (*field.Descriptor[E], bool) {
	fd, ok := m.accessors[column]
	return fd, ok
}

// Factory returns an action factory for the entity table.
func (m *Entity[E]) Factory(dialect string) *action.Factory {
	return action.NewFactory(m.table, m.strategy, dialect)
}

// value invokes the getter of fd on e. Errors and panics raised by the getter
// are returned as *AccessorError.
func (m *Entity[E]) value(e *E, fd *field.Descriptor[E]) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = m.accessorError(fd, fmt.Errorf("panic: %v", r))
		}
	}()
	if e == nil {
		return nil, m.accessorError(fd, errors.New("nil entity"))
	}
	if v, err = fd.Value(e); err != nil {
		return nil, m.accessorError(fd, err)
	}
	return v, nil
}

func (m *Entity[E]) accessorError(fd *field.Descriptor[E], err error) error {
	m.logger.Error("metadata: accessor failed",
		slog.String("entity", m.name),
		slog.String("field", fd.Name),
		slog.String("column", fd.Column),
		slog.Any("error", err),
	)
	return &AccessorError{Entity: m.name, Field: fd.Name, Column: fd.Column, Err: err}
}

// DataMap reads the given columns from e and returns the non-null values in
// column order.
func (m *Entity[E]) DataMap(e *E, columns []string) ([]action.Value, error) {
	values := make([]action.Value, 0, len(columns))
	for _, c := range columns {
		fd, ok := m.accessors[c]
		if !ok {
			return nil, configErrorf(m.name, "column %q has no accessor", c)
		}
		v, err := m.value(e, fd)
		if err != nil {
			return nil, err
		}
		if field.Null(v) {
			continue
		}
		values = append(values, action.Value{Column: c, Value: v})
	}
	return values, nil
}
