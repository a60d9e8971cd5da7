package action

import "slices"

// Table describes a logical table: its base name, key columns and all
// mapped columns. A Table is immutable.
type Table struct {
	name    string
	keys    []string
	columns []string
}

// NewTable returns a Table. The given slices are copied.
func NewTable(name string, keys, columns []string) *Table {
	return &Table{
		name:    name,
		keys:    slices.Clone(keys),
		columns: slices.Clone(columns),
	}
}

// Name returns the base table name.
func (t *Table) Name() string { return t.name }

// Keys returns a copy of the key columns.
func (t *Table) Keys() []string { return slices.Clone(t.keys) }

// Columns returns a copy of all mapped columns.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }
