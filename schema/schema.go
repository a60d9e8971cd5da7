package schema

import (
	"slices"

	"github.com/syssam/magicdao/schema/field"
)

// ShardSpec describes how rows are spread over physical tables.
type ShardSpec struct {
	Count     int    // number of physical tables
	Column    string // column whose value selects the table
	Separator string // between base name and index, defaults to "_"
}

// Definition is the declarative description of an entity type E.
type Definition[E any] struct {
	table  string
	fields []*field.Descriptor[E]
	shard  *ShardSpec
	err    error
}

// New returns a definition mapping E to table.
func New[E any](table string, fields ...field.Field[E]) *Definition[E] {
	d := &Definition[E]{table: table}
	for _, f := range fields {
		d.fields = append(d.fields, f.Descriptor())
	}
	return d
}

// Shard spreads the entity over count tables selected by column.
// An empty separator defaults to "_".
func (d *Definition[E]) Shard(count int, column, separator string) *Definition[E] {
	d.shard = &ShardSpec{Count: count, Column: column, Separator: separator}
	return d
}

// Table returns the base table name.
func (d *Definition[E]) Table() string { return d.table }

// Fields returns the field descriptors in declaration order.
func (d *Definition[E]) Fields() []*field.Descriptor[E] { return slices.Clone(d.fields) }

// ShardSpec returns the sharding rule, or nil for unsharded entities.
func (d *Definition[E]) ShardSpec() *ShardSpec {
	if d.shard == nil {
		return nil
	}
	s := *d.shard
	return &s
}

// Err returns the error recorded while building the definition, if any.
func (d *Definition[E]) Err() error { return d.err }
