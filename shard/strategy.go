package shard

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"hash/fnv"
	"reflect"
	"strconv"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultSeparator joins the base table name and the shard suffix
// when no separator is configured.
const DefaultSeparator = "_"

// ErrNoShardValue is returned when the value of the shard column cannot be
// determined for a statement against a sharded table.
var ErrNoShardValue = errors.New("shard: shard column value not found")

// Strategy maps a shard column value to one of Count physical tables.
// A Strategy is immutable and safe for concurrent use.
type Strategy struct {
	count     int
	column    string
	separator string
}

// New returns a Strategy splitting a table into count physical tables
// selected by the value of column. An empty separator uses DefaultSeparator.
func New(count int, column, separator string) (*Strategy, error) {
	if count <= 0 {
		return nil, fmt.Errorf("shard: count must be positive, got %d", count)
	}
	if column == "" {
		return nil, errors.New("shard: missing shard column")
	}
	if separator == "" {
		separator = DefaultSeparator
	}
	return &Strategy{count: count, column: column, separator: separator}, nil
}

// Count returns the number of physical tables.
func (s *Strategy) Count() int { return s.count }

// Column returns the shard column.
func (s *Strategy) Column() string { return s.column }

// Separator returns the separator placed between table name and suffix.
func (s *Strategy) Separator() string { return s.separator }

// Index returns the shard index in [0, Count) for the given value.
//
// Integers are taken modulo Count. Strings, byte slices and UUIDs are hashed
// with FNV-1a. Any other value is hashed over its msgpack encoding.
// Pointers are followed first, so a value and a pointer to it share an
// index, as do a UUID and a valid uuid.NullUUID holding it.
func (s *Strategy) Index(v any) (int, error) {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, ErrNoShardValue
		}
		return s.Index(rv.Elem().Interface())
	}
	switch v := v.(type) {
	case nil:
		return 0, ErrNoShardValue
	case uuid.NullUUID:
		if !v.Valid {
			return 0, ErrNoShardValue
		}
		return s.hash(v.UUID[:]), nil
	case uuid.UUID:
		return s.hash(v[:]), nil
	case []byte:
		return s.hash(v), nil
	case string:
		return s.hash([]byte(v)), nil
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return 0, fmt.Errorf("shard: read value of %T: %w", v, err)
		}
		if _, ok := dv.(driver.Valuer); ok {
			return 0, fmt.Errorf("shard: unsupported value type %T", v)
		}
		return s.Index(dv)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int() % int64(s.count)
		if n < 0 {
			n += int64(s.count)
		}
		return int(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int(rv.Uint() % uint64(s.count)), nil
	case reflect.String:
		return s.hash([]byte(rv.String())), nil
	case reflect.Bool:
		if rv.Bool() {
			return 1 % s.count, nil
		}
		return 0, nil
	}
	b, err := msgpack.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("shard: encode value of %T: %w", v, err)
	}
	return s.hash(b), nil
}

// Suffix returns the table suffix for the given value.
func (s *Strategy) Suffix(v any) (string, error) {
	idx, err := s.Index(v)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(idx), nil
}

// Table returns the physical table name of base for the given value.
func (s *Strategy) Table(base string, v any) (string, error) {
	suffix, err := s.Suffix(v)
	if err != nil {
		return "", err
	}
	return base + s.separator + suffix, nil
}

// Tables returns every physical table name of base, in index order.
func (s *Strategy) Tables(base string) []string {
	tables := make([]string, s.count)
	for i := range tables {
		tables[i] = base + s.separator + strconv.Itoa(i)
	}
	return tables
}

func (s *Strategy) hash(b []byte) int {
	h := fnv.New32a()
	h.Write(b)
	return int(h.Sum32() % uint32(s.count))
}
