package action

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/syssam/magicdao/dialect"
	"github.com/syssam/magicdao/matcher"
	"github.com/syssam/magicdao/shard"
)

// CountColumn is the projection used by count queries.
const CountColumn = "COUNT(1)"

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores, dots for schema.name)
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// IsValidIdentifier checks if the string is a valid SQL identifier.
func IsValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

func checkIdent(s string) error {
	if !IsValidIdentifier(s) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return nil
}

// base holds the state shared by all builders.
type base struct {
	table    *Table
	strategy *shard.Strategy
	dialect  string
	conds    []matcher.Matcher
}

// where appends conditions to the builder.
func (b *base) where(conds []matcher.Matcher) {
	b.conds = append(b.conds, conds...)
}

// resolve returns the physical table name. For sharded tables the shard value
// is read from the equality conditions first, then from the written values.
func (b *base) resolve(values []Value) (string, error) {
	name := b.table.Name()
	if b.strategy == nil {
		return name, nil
	}
	column := b.strategy.Column()
	v, ok := matcher.Lookup(b.conds, column)
	if !ok {
		for _, fv := range values {
			if fv.Column == column && fv.Value != nil {
				v, ok = fv.Value, true
				break
			}
		}
	}
	if !ok {
		return "", fmt.Errorf("%w: table %q column %q", shard.ErrNoShardValue, name, column)
	}
	return b.strategy.Table(name, v)
}

// writer accumulates statement text and positional arguments.
type writer struct {
	sb      strings.Builder
	args    []any
	dialect string
}

func (w *writer) WriteString(s string) *writer {
	w.sb.WriteString(s)
	return w
}

// Arg appends a placeholder bound to v.
func (w *writer) Arg(v any) *writer {
	w.args = append(w.args, v)
	if w.dialect == dialect.Postgres {
		w.sb.WriteString("$" + strconv.Itoa(len(w.args)))
	} else {
		w.sb.WriteByte('?')
	}
	return w
}

// Args appends a comma separated placeholder list.
func (w *writer) Args(vs []any) *writer {
	for i, v := range vs {
		if i > 0 {
			w.sb.WriteString(", ")
		}
		w.Arg(v)
	}
	return w
}

func (w *writer) String() string { return w.sb.String() }

// Where renders the WHERE clause. Nothing is written for an empty list.
func (w *writer) Where(conds []matcher.Matcher) error {
	for i, m := range conds {
		if i == 0 {
			w.WriteString(" WHERE ")
		} else {
			w.WriteString(" AND ")
		}
		if err := w.pred(m); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) pred(m matcher.Matcher) error {
	column := m.Column()
	if err := checkIdent(column); err != nil {
		return err
	}
	switch op := m.Op(); op {
	case matcher.OpEQ, matcher.OpNEQ:
		if m.Value() == nil {
			if op == matcher.OpEQ {
				w.WriteString(column + " IS NULL")
			} else {
				w.WriteString(column + " IS NOT NULL")
			}
			return nil
		}
		w.WriteString(column + " " + string(op) + " ").Arg(m.Value())
	case matcher.OpGT, matcher.OpGTE, matcher.OpLT, matcher.OpLTE:
		w.WriteString(column + " " + string(op) + " ").Arg(m.Value())
	case matcher.OpLike, matcher.OpNotLike:
		// Patterns escape wildcards with a backslash. SQLite has no default
		// escape character, and MySQL reads a backslash in a literal as one.
		w.WriteString(column + " " + string(op) + " ").Arg(m.Value())
		if w.dialect == dialect.MySQL {
			w.WriteString(` ESCAPE '\\'`)
		} else {
			w.WriteString(` ESCAPE '\'`)
		}
	case matcher.OpIn, matcher.OpNotIn:
		vs, _ := m.Value().([]any)
		if len(vs) == 0 {
			// An empty IN list matches nothing, an empty NOT IN everything.
			if op == matcher.OpIn {
				w.WriteString("1 = 0")
			} else {
				w.WriteString("1 = 1")
			}
			return nil
		}
		w.WriteString(column + " " + string(op) + " (").Args(vs).WriteString(")")
	case matcher.OpBetween:
		bounds, ok := m.Value().([2]any)
		if !ok {
			return fmt.Errorf("%w: BETWEEN on %q without bounds", ErrUnsupportedOp, column)
		}
		w.WriteString(column + " BETWEEN ").Arg(bounds[0]).WriteString(" AND ").Arg(bounds[1])
	case matcher.OpIsNull, matcher.OpNotNull:
		w.WriteString(column + " " + string(op))
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedOp, op)
	}
	return nil
}
