package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/magicdao/schema/field"
)

// TagName is the struct tag read by FromStruct.
//
//	Field int64 `dao:"column[,key][,autoincrement][,readonly]"`
const TagName = "dao"

// Tag options.
const (
	optKey           = "key"
	optAutoIncrement = "autoincrement"
	optReadOnly      = "readonly"
)

type (
	tabler interface {
		TableName() string
	}
	sharder interface {
		ShardSpec() ShardSpec
	}
)

var errorType = reflect.TypeFor[error]()

// FromStruct derives a definition from the dao struct tags of E. The table
// name comes from the TableName method of E, the optional sharding rule from
// its ShardSpec method. Fields promoted from embedded structs are included.
//
// Values are read through a Get<Field> method (or Is<Field> for booleans) and
// written through a Set<Field> method when E declares one, matching names
// case-insensitively. Otherwise the field is accessed directly, which
// requires it to be exported.
//
// Problems are recorded in the returned definition and reported by Err.
func FromStruct[E any]() *Definition[E] {
	d, err := fromStruct[E]()
	if err != nil {
		return &Definition[E]{err: err}
	}
	return d
}

func fromStruct[E any]() (*Definition[E], error) {
	t := reflect.TypeFor[E]()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %s is not a struct type", t)
	}
	d := &Definition[E]{}
	switch v := any(new(E)).(type) {
	case tabler:
		d.table = v.TableName()
	default:
		return nil, fmt.Errorf("schema: %s has no TableName method", t)
	}
	if v, ok := any(new(E)).(sharder); ok {
		s := v.ShardSpec()
		d.shard = &s
	}
	fields := reflect.VisibleFields(t)
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema: %s has no fields", t)
	}
	methods := make(map[string]reflect.Method)
	pt := reflect.PointerTo(t)
	for i := range pt.NumMethod() {
		m := pt.Method(i)
		methods[strings.ToLower(m.Name)] = m
	}
	for _, sf := range fields {
		tag, ok := sf.Tag.Lookup(TagName)
		if !ok || tag == "-" {
			continue
		}
		desc, err := bind[E](sf, tag, methods)
		if err != nil {
			return nil, fmt.Errorf("schema: %s.%s: %w", t.Name(), sf.Name, err)
		}
		d.fields = append(d.fields, desc)
	}
	if len(d.fields) == 0 {
		return nil, fmt.Errorf("schema: %s has no fields tagged with %q", t, TagName)
	}
	return d, nil
}

// Tag holds the options parsed from a dao struct tag.
type Tag struct {
	Column        string
	Key           bool
	AutoIncrement bool
	ReadOnly      bool
}

// ParseTag parses the dao tag of the named field. An empty column defaults
// to the snake_case form of the field name.
func ParseTag(name, tag string) (Tag, error) {
	parts := strings.Split(tag, ",")
	t := Tag{Column: strings.TrimSpace(parts[0])}
	if t.Column == "" {
		t.Column = inflect.Underscore(name)
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case optKey:
			t.Key = true
		case optAutoIncrement:
			t.Key, t.AutoIncrement = true, true
		case optReadOnly:
			t.ReadOnly = true
		case "":
		default:
			return Tag{}, fmt.Errorf("unknown tag option %q", opt)
		}
	}
	return t, nil
}

func bind[E any](sf reflect.StructField, tag string, methods map[string]reflect.Method) (*field.Descriptor[E], error) {
	t, err := ParseTag(sf.Name, tag)
	if err != nil {
		return nil, err
	}
	desc := &field.Descriptor[E]{
		Name:          sf.Name,
		Column:        t.Column,
		Key:           t.Key,
		AutoIncrement: t.AutoIncrement,
		ReadOnly:      t.ReadOnly,
	}
	getter, hasGetter := lookupGetter(sf, methods)
	setter, hasSetter := lookupSetter(sf, methods)
	if !sf.IsExported() && (!hasGetter || !hasSetter) {
		return nil, errors.New("unexported field requires Get and Set methods")
	}
	if hasGetter {
		desc.Get = methodGetter[E](getter)
	} else {
		desc.Get = fieldGetter[E](sf.Index)
	}
	if hasSetter {
		desc.Target = methodTarget[E](setter)
	} else {
		desc.Target = fieldTarget[E](sf.Index)
	}
	return desc, nil
}

func lookupGetter(sf reflect.StructField, methods map[string]reflect.Method) (reflect.Method, bool) {
	names := []string{"get" + sf.Name}
	if sf.Type.Kind() == reflect.Bool {
		names = append(names, "is"+sf.Name)
	}
	for _, name := range names {
		m, ok := methods[strings.ToLower(name)]
		if !ok || m.Type.NumIn() != 1 {
			continue
		}
		switch n := m.Type.NumOut(); {
		case n == 1, n == 2 && m.Type.Out(1) == errorType:
			return m, true
		}
	}
	return reflect.Method{}, false
}

func lookupSetter(sf reflect.StructField, methods map[string]reflect.Method) (reflect.Method, bool) {
	m, ok := methods[strings.ToLower("set"+sf.Name)]
	if !ok || m.Type.NumIn() != 2 {
		return reflect.Method{}, false
	}
	switch n := m.Type.NumOut(); {
	case n == 0, n == 1 && m.Type.Out(0) == errorType:
		return m, true
	}
	return reflect.Method{}, false
}

func methodGetter[E any](m reflect.Method) func(*E) (any, error) {
	return func(e *E) (any, error) {
		out := m.Func.Call([]reflect.Value{reflect.ValueOf(e)})
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}
}

func methodTarget[E any](m reflect.Method) func(*E) (any, func() error) {
	return func(e *E) (any, func() error) {
		dest := reflect.New(m.Type.In(1))
		return dest.Interface(), func() error {
			out := m.Func.Call([]reflect.Value{reflect.ValueOf(e), dest.Elem()})
			if len(out) == 1 && !out[0].IsNil() {
				return out[0].Interface().(error)
			}
			return nil
		}
	}
}

func fieldGetter[E any](index []int) func(*E) (any, error) {
	return func(e *E) (any, error) {
		v, err := walk(reflect.ValueOf(e).Elem(), index, false)
		if err != nil || !v.IsValid() {
			// A nil embedded pointer reads as NULL.
			return nil, err
		}
		return v.Interface(), nil
	}
}

func fieldTarget[E any](index []int) func(*E) (any, func() error) {
	return func(e *E) (any, func() error) {
		v, err := walk(reflect.ValueOf(e).Elem(), index, true)
		if err != nil {
			return new(any), func() error { return err }
		}
		return v.Addr().Interface(), nil
	}
}

// walk follows index through embedded structs. With alloc set, nil embedded
// pointers are allocated; otherwise a nil pointer yields the zero Value.
func walk(v reflect.Value, index []int, alloc bool) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, nil
				}
				if !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("schema: cannot allocate embedded %s", v.Type())
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, nil
}
