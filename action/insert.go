package action

import "fmt"

// Insert builds an INSERT statement.
type Insert struct {
	base
	values    []Value
	returning string
}

// Mode implements Action.
func (*Insert) Mode() Mode { return ModeInsert }

// Set sets the written columns and values, in statement order.
func (i *Insert) Set(values []Value) *Insert {
	i.values = values
	return i
}

// Returning appends a RETURNING clause for the given column.
// It is used to read generated keys on dialects without LastInsertId.
func (i *Insert) Returning(column string) *Insert {
	i.returning = column
	return i
}

// SQL implements Action.
func (i *Insert) SQL() (string, []any, error) {
	if len(i.values) == 0 {
		return "", nil, fmt.Errorf("%w: insert into %q", ErrNoFields, i.table.Name())
	}
	table, err := i.resolve(i.values)
	if err != nil {
		return "", nil, err
	}
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	w := &writer{dialect: i.dialect}
	w.WriteString("INSERT INTO ").WriteString(table).WriteString(" (")
	args := make([]any, len(i.values))
	for j, v := range i.values {
		if err := checkIdent(v.Column); err != nil {
			return "", nil, err
		}
		if j > 0 {
			w.WriteString(", ")
		}
		w.WriteString(v.Column)
		args[j] = v.Value
	}
	w.WriteString(") VALUES (").Args(args).WriteString(")")
	if i.returning != "" {
		if err := checkIdent(i.returning); err != nil {
			return "", nil, err
		}
		w.WriteString(" RETURNING ").WriteString(i.returning)
	}
	return w.String(), w.args, nil
}
