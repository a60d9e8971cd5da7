package matcher

// Column is a typed column name that builds matchers with values of type T.
//
//	var CustomerID = matcher.Column[int64]("customer_id")
//	orders.Query(ctx, []matcher.Matcher{CustomerID.EQ(7)})
type Column[T any] string

// Name returns the column name.
func (c Column[T]) Name() string { return string(c) }

// EQ returns a matcher that checks if the column equals v.
func (c Column[T]) EQ(v T) Matcher { return Eq(string(c), v) }

// NEQ returns a matcher that checks if the column does not equal v.
func (c Column[T]) NEQ(v T) Matcher { return Neq(string(c), v) }

// GT returns a matcher that checks if the column is greater than v.
func (c Column[T]) GT(v T) Matcher { return Gt(string(c), v) }

// GTE returns a matcher that checks if the column is greater than or equal to v.
func (c Column[T]) GTE(v T) Matcher { return Gte(string(c), v) }

// LT returns a matcher that checks if the column is less than v.
func (c Column[T]) LT(v T) Matcher { return Lt(string(c), v) }

// LTE returns a matcher that checks if the column is less than or equal to v.
func (c Column[T]) LTE(v T) Matcher { return Lte(string(c), v) }

// In returns a matcher that checks if the column value is in vs.
func (c Column[T]) In(vs ...T) Matcher { return In(string(c), anys(vs)...) }

// NotIn returns a matcher that checks if the column value is not in vs.
func (c Column[T]) NotIn(vs ...T) Matcher { return NotIn(string(c), anys(vs)...) }

// Between returns a matcher that checks if the column value is within [lo, hi].
func (c Column[T]) Between(lo, hi T) Matcher { return Between(string(c), lo, hi) }

// IsNull returns a matcher that checks if the column is NULL.
func (c Column[T]) IsNull() Matcher { return IsNull(string(c)) }

// NotNull returns a matcher that checks if the column is not NULL.
func (c Column[T]) NotNull() Matcher { return NotNull(string(c)) }

// StringColumn is a string column with pattern matching helpers.
type StringColumn struct{ Column[string] }

// String returns a StringColumn for the given column name.
func String(name string) StringColumn {
	return StringColumn{Column[string](name)}
}

// Contains returns a matcher that checks if the column contains sub.
func (c StringColumn) Contains(sub string) Matcher {
	return Like(c.Name(), "%"+escapeLike(sub)+"%")
}

// HasPrefix returns a matcher that checks if the column starts with prefix.
func (c StringColumn) HasPrefix(prefix string) Matcher {
	return Like(c.Name(), escapeLike(prefix)+"%")
}

// HasSuffix returns a matcher that checks if the column ends with suffix.
func (c StringColumn) HasSuffix(suffix string) Matcher {
	return Like(c.Name(), "%"+escapeLike(suffix))
}

func anys[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// escapeLike escapes the LIKE wildcards in s.
func escapeLike(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			b = append(b, '\\')
		}
		b = append(b, s[i])
	}
	return string(b)
}
