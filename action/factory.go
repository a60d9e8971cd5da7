package action

import (
	"fmt"

	"github.com/syssam/magicdao/shard"
)

// Factory creates builders bound to one table. Every call returns a fresh,
// empty builder; builders are never reused.
type Factory struct {
	table    *Table
	strategy *shard.Strategy
	dialect  string
}

// NewFactory returns a Factory for the given table. A nil strategy means the
// table is not sharded. The dialect selects the placeholder style.
func NewFactory(t *Table, s *shard.Strategy, dialect string) *Factory {
	return &Factory{table: t, strategy: s, dialect: dialect}
}

// Table returns the table of the factory.
func (f *Factory) Table() *Table { return f.table }

// Strategy returns the shard strategy of the factory, or nil.
func (f *Factory) Strategy() *shard.Strategy { return f.strategy }

func (f *Factory) base() base {
	return base{table: f.table, strategy: f.strategy, dialect: f.dialect}
}

// Query returns a new SELECT builder.
func (f *Factory) Query() *Query { return &Query{base: f.base()} }

// Insert returns a new INSERT builder.
func (f *Factory) Insert() *Insert { return &Insert{base: f.base()} }

// Update returns a new UPDATE builder.
func (f *Factory) Update() *Update { return &Update{base: f.base()} }

// Delete returns a new DELETE builder.
func (f *Factory) Delete() *Delete { return &Delete{base: f.base()} }

// New returns a new builder for the given mode.
func (f *Factory) New(mode Mode) (Action, error) {
	switch mode {
	case ModeQuery:
		return f.Query(), nil
	case ModeInsert:
		return f.Insert(), nil
	case ModeUpdate:
		return f.Update(), nil
	case ModeDelete:
		return f.Delete(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
}
