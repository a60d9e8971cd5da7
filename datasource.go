package magicdao

import (
	"github.com/syssam/magicdao/action"
	"github.com/syssam/magicdao/dialect"
)

// DataSource selects the executor for a statement by its action mode.
type DataSource interface {
	// Driver returns the executor for statements of the given mode.
	Driver(mode action.Mode) dialect.ExecQuerier
	// Dialect returns the dialect name used to render statements.
	Dialect() string
}

// Single returns a DataSource that runs every statement on drv.
func Single(drv dialect.Driver) DataSource {
	return single{drv}
}

type single struct {
	drv dialect.Driver
}

func (s single) Driver(action.Mode) dialect.ExecQuerier { return s.drv }

func (s single) Dialect() string { return s.drv.Dialect() }
