package matcher

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name  string
		m     Matcher
		op    Op
		value any
	}{
		{"eq", Eq("id", 42), OpEQ, 42},
		{"neq", Neq("status", "NEW"), OpNEQ, "NEW"},
		{"gt", Gt("total", 10), OpGT, 10},
		{"gte", Gte("total", 10), OpGTE, 10},
		{"lt", Lt("total", 10), OpLT, 10},
		{"lte", Lte("total", 10), OpLTE, 10},
		{"like", Like("status", "N%"), OpLike, "N%"},
		{"not_like", NotLike("status", "N%"), OpNotLike, "N%"},
		{"in", In("status", "NEW", "PAID"), OpIn, []any{"NEW", "PAID"}},
		{"not_in", NotIn("status", "NEW"), OpNotIn, []any{"NEW"}},
		{"between", Between("total", 1, 9), OpBetween, [2]any{1, 9}},
		{"is_null", IsNull("deleted_at"), OpIsNull, nil},
		{"not_null", NotNull("deleted_at"), OpNotNull, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.op, tt.m.Op())
			assert.Equal(t, tt.value, tt.m.Value())
		})
	}
	assert.Equal(t, "id", Eq("id", 1).Column())
}

func TestInSpreadsSlice(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	tests := []struct {
		name string
		m    Matcher
		want []any
	}{
		{"slice", In("id", []int64{1, 2}), []any{int64(1), int64(2)}},
		{"any_slice", In("id", []any{"a", 2}), []any{"a", 2}},
		{"array", NotIn("id", [2]string{"a", "b"}), []any{"a", "b"}},
		{"empty_slice", In("id", []int64{}), []any{}},
		{"bytes", In("hash", []byte("ab")), []any{[]byte("ab")}},
		{"uuid", In("id", id), []any{id}},
		{"uuids", In("id", []uuid.UUID{id}), []any{id}},
		{"many", In("id", []int64{1}, []int64{2}), []any{[]int64{1}, []int64{2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.Value())
		})
	}
}

func TestLookup(t *testing.T) {
	conds := []Matcher{
		Gt("customer_id", 1),
		Eq("status", "NEW"),
		Eq("customer_id", nil),
		Eq("customer_id", 7),
		Eq("customer_id", 8),
	}
	v, ok := Lookup(conds, "customer_id")
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = Lookup(conds, "id")
	assert.False(t, ok)
	_, ok = Lookup(nil, "id")
	assert.False(t, ok)
}

func TestTypedColumn(t *testing.T) {
	id := Column[int64]("id")
	assert.Equal(t, "id", id.Name())
	assert.Equal(t, Eq("id", int64(3)), id.EQ(3))
	assert.Equal(t, Neq("id", int64(3)), id.NEQ(3))
	assert.Equal(t, Gt("id", int64(3)), id.GT(3))
	assert.Equal(t, Gte("id", int64(3)), id.GTE(3))
	assert.Equal(t, Lt("id", int64(3)), id.LT(3))
	assert.Equal(t, Lte("id", int64(3)), id.LTE(3))
	assert.Equal(t, In("id", int64(1), int64(2)), id.In(1, 2))
	assert.Equal(t, NotIn("id", int64(1)), id.NotIn(1))
	assert.Equal(t, Between("id", int64(1), int64(5)), id.Between(1, 5))
	assert.Equal(t, IsNull("id"), id.IsNull())
	assert.Equal(t, NotNull("id"), id.NotNull())
}

func TestStringColumn(t *testing.T) {
	status := String("status")
	assert.Equal(t, Eq("status", "NEW"), status.EQ("NEW"))
	assert.Equal(t, Like("status", "%EW%"), status.Contains("EW"))
	assert.Equal(t, Like("status", "N%"), status.HasPrefix("N"))
	assert.Equal(t, Like("status", "%W"), status.HasSuffix("W"))
	assert.Equal(t, Like("status", `%50\%%`), status.Contains("50%"))
	assert.Equal(t, Like("status", `a\_b%`), status.HasPrefix("a_b"))
}
