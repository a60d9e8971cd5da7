package action

import "github.com/syssam/magicdao/matcher"

// Delete builds a DELETE statement.
type Delete struct {
	base
}

// Mode implements Action.
func (*Delete) Mode() Mode { return ModeDelete }

// Where adds conditions joined with AND.
func (d *Delete) Where(conds []matcher.Matcher) *Delete {
	d.where(conds)
	return d
}

// SQL implements Action.
func (d *Delete) SQL() (string, []any, error) {
	table, err := d.resolve(nil)
	if err != nil {
		return "", nil, err
	}
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	w := &writer{dialect: d.dialect}
	w.WriteString("DELETE FROM ").WriteString(table)
	if err := w.Where(d.conds); err != nil {
		return "", nil, err
	}
	return w.String(), w.args, nil
}
