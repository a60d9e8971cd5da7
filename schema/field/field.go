package field

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
)

// Descriptor describes how a single entity field maps to a column.
type Descriptor[E any] struct {
	Name          string // Go field name, used in error messages
	Column        string // column name
	Key           bool   // part of the primary key
	AutoIncrement bool   // key generated by the database
	ReadOnly      bool   // never written by INSERT or UPDATE

	// Get reads the field value from an entity.
	Get func(*E) (any, error)
	// Target returns the scan destination for the field of e. The optional
	// done function is called after a successful scan.
	Target func(*E) (dest any, done func() error)
}

// Err reports a structural problem in the descriptor.
func (d *Descriptor[E]) Err() error {
	switch {
	case d.Column == "":
		return errors.New("field: missing column name")
	case d.Get == nil:
		return fmt.Errorf("field: column %q has no getter", d.Column)
	case d.Target == nil:
		return fmt.Errorf("field: column %q has no scan target", d.Column)
	case d.AutoIncrement && !d.Key:
		return fmt.Errorf("field: column %q is auto-increment but not a key", d.Column)
	}
	return nil
}

// Value returns the field value of e with pointers dereferenced.
func (d *Descriptor[E]) Value(e *E) (any, error) {
	v, err := d.Get(e)
	if err != nil {
		return nil, err
	}
	return Indirect(v), nil
}

// Descriptor implements the Field interface, so a descriptor built by hand
// can be passed to schema.New directly.
func (d *Descriptor[E]) Descriptor() *Descriptor[E] { return d }

// Field is implemented by field builders.
type Field[E any] interface {
	Descriptor() *Descriptor[E]
}

// Builder is the builder for entity fields.
type Builder[E any] struct {
	desc *Descriptor[E]
}

// Column returns a new field bound to column. The ref function must return
// the address of the field inside the given entity.
func Column[E, T any](column string, ref func(*E) *T) *Builder[E] {
	return &Builder[E]{desc: &Descriptor[E]{
		Name:   column,
		Column: column,
		Get: func(e *E) (any, error) {
			return *ref(e), nil
		},
		Target: func(e *E) (any, func() error) {
			return ref(e), nil
		},
	}}
}

// Key returns a new primary key field bound to column.
func Key[E, T any](column string, ref func(*E) *T) *Builder[E] {
	b := Column(column, ref)
	b.desc.Key = true
	return b
}

// AutoIncrement marks the key as generated by the database. Such keys are
// never written by INSERT statements.
func (b *Builder[E]) AutoIncrement() *Builder[E] {
	b.desc.AutoIncrement = true
	return b
}

// ReadOnly excludes the column from INSERT and UPDATE statements.
func (b *Builder[E]) ReadOnly() *Builder[E] {
	b.desc.ReadOnly = true
	return b
}

// Name sets the Go field name reported in errors. Defaults to the column name.
func (b *Builder[E]) Name(name string) *Builder[E] {
	b.desc.Name = name
	return b
}

// Getter replaces the default read accessor.
func (b *Builder[E]) Getter(fn func(*E) (any, error)) *Builder[E] {
	b.desc.Get = fn
	return b
}

// Scan replaces the default scan target. The done function, when not nil,
// runs after the row was scanned into dest.
func (b *Builder[E]) Scan(fn func(*E) (dest any, done func() error)) *Builder[E] {
	b.desc.Target = fn
	return b
}

// Descriptor implements the Field interface by returning its descriptor.
func (b *Builder[E]) Descriptor() *Descriptor[E] {
	return b.desc
}

// Null reports whether v represents SQL NULL.
func Null(v any) bool {
	if v == nil {
		return true
	}
	if vr, ok := v.(driver.Valuer); ok {
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return true
		}
		dv, err := vr.Value()
		return err == nil && dv == nil
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Indirect dereferences non-nil pointers. Values implementing driver.Valuer
// are returned unchanged.
func Indirect(v any) any {
	for v != nil {
		if _, ok := v.(driver.Valuer); ok {
			return v
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
	return v
}
