package action

import (
	"errors"
	"fmt"
)

// Mode is the kind of statement an action renders. Data sources use it to
// pick a read or write connection.
type Mode uint8

// Action modes.
const (
	ModeQuery Mode = iota + 1
	ModeInsert
	ModeUpdate
	ModeDelete
)

// String returns the SQL verb of the mode.
func (m Mode) String() string {
	switch m {
	case ModeQuery:
		return "SELECT"
	case ModeInsert:
		return "INSERT"
	case ModeUpdate:
		return "UPDATE"
	case ModeDelete:
		return "DELETE"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// IsWrite reports whether the mode modifies data.
func (m Mode) IsWrite() bool { return m != ModeQuery }

// Action is a single-use statement builder. SQL renders the statement text and
// its positional arguments.
type Action interface {
	Mode() Mode
	SQL() (string, []any, error)
}

// Value is a column bound to the value written by an INSERT or UPDATE.
type Value struct {
	Column string
	Value  any
}

// Order is an ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

// Asc returns an ascending order on column.
func Asc(column string) Order { return Order{Column: column} }

// Desc returns a descending order on column.
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Page selects one page of a result set. Number starts at 1.
type Page struct {
	Number int
	Size   int
}

// NewPage returns a page reference.
func NewPage(number, size int) *Page {
	return &Page{Number: number, Size: size}
}

// Offset returns the number of rows skipped before the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Errors returned when rendering an action.
var (
	// ErrNoFields is returned when an INSERT or UPDATE has nothing to write.
	ErrNoFields = errors.New("action: no fields to write")
	// ErrInvalidIdentifier is returned for table or column names that are not
	// plain SQL identifiers.
	ErrInvalidIdentifier = errors.New("action: invalid identifier")
	// ErrInvalidPage is returned for a page with a non-positive number or size.
	ErrInvalidPage = errors.New("action: invalid page")
	// ErrUnsupportedOp is returned for a matcher operator the builder cannot render.
	ErrUnsupportedOp = errors.New("action: unsupported operator")
	// ErrUnknownMode is returned by the factory for an unknown mode.
	ErrUnknownMode = errors.New("action: unknown mode")
)
