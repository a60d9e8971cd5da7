package action

import (
	"fmt"

	"github.com/syssam/magicdao/matcher"
)

// Update builds an UPDATE statement.
type Update struct {
	base
	values []Value
}

// Mode implements Action.
func (*Update) Mode() Mode { return ModeUpdate }

// Set sets the written columns and values, in statement order.
func (u *Update) Set(values []Value) *Update {
	u.values = values
	return u
}

// Where adds conditions joined with AND.
func (u *Update) Where(conds []matcher.Matcher) *Update {
	u.where(conds)
	return u
}

// SQL implements Action.
func (u *Update) SQL() (string, []any, error) {
	if len(u.values) == 0 {
		return "", nil, fmt.Errorf("%w: update %q", ErrNoFields, u.table.Name())
	}
	table, err := u.resolve(u.values)
	if err != nil {
		return "", nil, err
	}
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	w := &writer{dialect: u.dialect}
	w.WriteString("UPDATE ").WriteString(table).WriteString(" SET ")
	for i, v := range u.values {
		if err := checkIdent(v.Column); err != nil {
			return "", nil, err
		}
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(v.Column + " = ").Arg(v.Value)
	}
	if err := w.Where(u.conds); err != nil {
		return "", nil, err
	}
	return w.String(), w.args, nil
}
