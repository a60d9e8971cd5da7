package matcher

import (
	"database/sql/driver"
	"reflect"
)

// Op is a comparison operator.
type Op string

// Comparison operators.
const (
	OpEQ      Op = "="
	OpNEQ     Op = "<>"
	OpGT      Op = ">"
	OpGTE     Op = ">="
	OpLT      Op = "<"
	OpLTE     Op = "<="
	OpLike    Op = "LIKE"
	OpNotLike Op = "NOT LIKE"
	OpIn      Op = "IN"
	OpNotIn   Op = "NOT IN"
	OpBetween Op = "BETWEEN"
	OpIsNull  Op = "IS NULL"
	OpNotNull Op = "IS NOT NULL"
)

// Matcher is a single column predicate. Matchers are immutable values;
// a condition list is a []Matcher whose elements are joined with AND.
type Matcher struct {
	column string
	op     Op
	value  any
}

// Column returns the column the matcher applies to.
func (m Matcher) Column() string { return m.column }

// Op returns the comparison operator.
func (m Matcher) Op() Op { return m.op }

// Value returns the bound value. IN and NOT IN matchers hold a []any,
// BETWEEN holds a [2]any and the null checks hold nil.
func (m Matcher) Value() any { return m.value }

// Eq returns a matcher for column = v.
func Eq(column string, v any) Matcher {
	return Matcher{column: column, op: OpEQ, value: v}
}

// Neq returns a matcher for column <> v.
func Neq(column string, v any) Matcher {
	return Matcher{column: column, op: OpNEQ, value: v}
}

// Gt returns a matcher for column > v.
func Gt(column string, v any) Matcher {
	return Matcher{column: column, op: OpGT, value: v}
}

// Gte returns a matcher for column >= v.
func Gte(column string, v any) Matcher {
	return Matcher{column: column, op: OpGTE, value: v}
}

// Lt returns a matcher for column < v.
func Lt(column string, v any) Matcher {
	return Matcher{column: column, op: OpLT, value: v}
}

// Lte returns a matcher for column <= v.
func Lte(column string, v any) Matcher {
	return Matcher{column: column, op: OpLTE, value: v}
}

// Like returns a matcher for column LIKE pattern.
func Like(column, pattern string) Matcher {
	return Matcher{column: column, op: OpLike, value: pattern}
}

// NotLike returns a matcher for column NOT LIKE pattern.
func NotLike(column, pattern string) Matcher {
	return Matcher{column: column, op: OpNotLike, value: pattern}
}

// In returns a matcher for column IN (vs...). A single slice or array
// argument is spread into its elements, so In("id", ids) and In("id", ids...)
// match the same rows. Byte slices and driver.Valuer values such as
// uuid.UUID are kept as one value.
func In(column string, vs ...any) Matcher {
	return Matcher{column: column, op: OpIn, value: spread(vs)}
}

// NotIn returns a matcher for column NOT IN (vs...). A single slice argument
// is spread as in In.
func NotIn(column string, vs ...any) Matcher {
	return Matcher{column: column, op: OpNotIn, value: spread(vs)}
}

func spread(vs []any) []any {
	if len(vs) != 1 {
		return vs
	}
	if _, ok := vs[0].(driver.Valuer); ok {
		return vs
	}
	rv := reflect.ValueOf(vs[0])
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return vs
		}
	default:
		return vs
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// Between returns a matcher for column BETWEEN lo AND hi.
func Between(column string, lo, hi any) Matcher {
	return Matcher{column: column, op: OpBetween, value: [2]any{lo, hi}}
}

// IsNull returns a matcher for column IS NULL.
func IsNull(column string) Matcher {
	return Matcher{column: column, op: OpIsNull}
}

// NotNull returns a matcher for column IS NOT NULL.
func NotNull(column string) Matcher {
	return Matcher{column: column, op: OpNotNull}
}

// Lookup returns the value of the first equality matcher on column.
func Lookup(conds []Matcher, column string) (any, bool) {
	for _, m := range conds {
		if m.op == OpEQ && m.column == column && m.value != nil {
			return m.value, true
		}
	}
	return nil, false
}
