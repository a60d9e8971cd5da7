package metadata

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"time"

	"github.com/syssam/magicdao/matcher"
	"github.com/syssam/magicdao/schema/field"
)

// KeyValuer is implemented by composite key types. KeyValues returns one
// value per key column, in key column order.
type KeyValuer interface {
	KeyValues() []any
}

// KeyConditions returns one equality matcher per key column for key.
//
// With a single key column, a scalar key (number, string, bool, []byte,
// time.Time or driver.Valuer, possibly behind a pointer) is matched directly.
// Otherwise key must be a KeyValuer, an entity value or pointer, a []any, or
// a struct whose exported fields hold the key values in key column order.
func (m *Entity[E]) KeyConditions(key any) ([]matcher.Matcher, error) {
	if len(m.keys) == 0 {
		return nil, ErrNoKeyColumns
	}
	if len(m.keys) == 1 && scalar(key) {
		if field.Null(key) {
			return nil, fmt.Errorf("%w: column %q", ErrNullKey, m.keys[0])
		}
		return []matcher.Matcher{matcher.Eq(m.keys[0], field.Indirect(key))}, nil
	}
	values, err := m.keyValues(key)
	if err != nil {
		return nil, err
	}
	if len(values) != len(m.keys) {
		return nil, fmt.Errorf("%w: got %d values for %d columns", ErrKeyArity, len(values), len(m.keys))
	}
	return m.keyMatchers(values)
}

// KeyConditionsFromEntity returns one equality matcher per key column with
// the key values read from e.
func (m *Entity[E]) KeyConditionsFromEntity(e *E) ([]matcher.Matcher, error) {
	if len(m.keys) == 0 {
		return nil, ErrNoKeyColumns
	}
	values, err := m.entityKeys(e)
	if err != nil {
		return nil, err
	}
	return m.keyMatchers(values)
}

func (m *Entity[E]) keyMatchers(values []any) ([]matcher.Matcher, error) {
	conds := make([]matcher.Matcher, len(m.keys))
	for i, c := range m.keys {
		if field.Null(values[i]) {
			return nil, fmt.Errorf("%w: column %q", ErrNullKey, c)
		}
		conds[i] = matcher.Eq(c, field.Indirect(values[i]))
	}
	return conds, nil
}

func (m *Entity[E]) entityKeys(e *E) ([]any, error) {
	values := make([]any, len(m.keyFields))
	for i, fd := range m.keyFields {
		v, err := m.value(e, fd)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (m *Entity[E]) keyValues(key any) ([]any, error) {
	switch k := key.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil key", ErrNullKey)
	case KeyValuer:
		return k.KeyValues(), nil
	case []any:
		return k, nil
	case *E:
		return m.entityKeys(k)
	case E:
		return m.entityKeys(&k)
	}
	rv := reflect.ValueOf(key)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil key", ErrNullKey)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: unsupported key type %T", ErrKeyArity, key)
	}
	var values []any
	for _, sf := range reflect.VisibleFields(rv.Type()) {
		if !sf.IsExported() || sf.Anonymous || len(sf.Index) > 1 {
			continue
		}
		values = append(values, rv.FieldByIndex(sf.Index).Interface())
	}
	return values, nil
}

var timeType = reflect.TypeFor[time.Time]()

// scalar reports whether v can be bound directly as a single key value.
func scalar(v any) bool {
	if v == nil {
		return true
	}
	if _, ok := v.(driver.Valuer); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
		if _, ok := rv.Interface().(driver.Valuer); ok {
			return true
		}
	}
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice:
		return rv.Type().Elem().Kind() == reflect.Uint8
	}
	return rv.Type() == timeType
}
