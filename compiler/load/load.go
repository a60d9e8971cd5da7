// Package load loads Go packages and extracts the dao-tagged struct types
// that daogen writes definitions for.
package load

import (
	"context"
	"errors"
	"fmt"
	"go/types"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/syssam/magicdao/schema"
)

type (
	// Config holds the configuration for loading entity types.
	Config struct {
		// Path is the package pattern, e.g. "./models".
		Path string
		// Names of the types to load. When empty, every struct type with a
		// TableName method and at least one tagged field is loaded.
		Names []string
		// BuildFlags passed to the go command.
		BuildFlags []string
		// Dir is the working directory the pattern is resolved against.
		Dir string
	}

	// Package is a loaded package.
	Package struct {
		Name     string
		Path     string
		Dir      string
		Entities []*Entity
	}

	// Entity is a struct type mapped to a table.
	Entity struct {
		Name   string
		Shard  bool // declares a ShardSpec method
		Fields []*Field
	}

	// Field is a tagged struct field, possibly promoted from an embedded
	// struct.
	Field struct {
		Name string
		// Path is the selector path from the entity to the field.
		Path []string
		Type types.Type
		schema.Tag
		// Embeds lists the embedded pointers on the path that may be nil.
		Embeds []*Embed
		// Accessible reports whether the field can be selected from code in
		// the loaded package.
		Accessible bool
		Getter     *Method
		Setter     *Method
	}

	// Embed is an embedded pointer on a field path.
	Embed struct {
		Path []string
		Type types.Type // element type
	}

	// Method is an accessor method found on the entity.
	Method struct {
		Name  string
		Error bool // returns an error as its last result
		Param types.Type
	}
)

// ErrNoTypes is returned when no entity types were found.
var ErrNoTypes = errors.New("load: no entity types found")

// Load loads the package and its entity types.
func (c *Config) Load(ctx context.Context) (*Package, error) {
	if c.Path == "" {
		return nil, errors.New("load: missing package path")
	}
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Dir:        c.Dir,
		BuildFlags: c.BuildFlags,
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedTypes,
	}, c.Path)
	if err != nil {
		return nil, fmt.Errorf("load: loading %q: %w", c.Path, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("load: %q matched %d packages", c.Path, len(pkgs))
	}
	p := pkgs[0]
	if len(p.Errors) > 0 {
		errs := make([]error, len(p.Errors))
		for i, e := range p.Errors {
			errs[i] = e
		}
		return nil, fmt.Errorf("load: package %q: %w", c.Path, errors.Join(errs...))
	}
	pkg := &Package{Name: p.Name, Path: p.PkgPath}
	if len(p.GoFiles) > 0 {
		pkg.Dir = filepath.Dir(p.GoFiles[0])
	}
	names := c.Names
	explicit := len(names) > 0
	if !explicit {
		names = p.Types.Scope().Names()
	}
	for _, name := range names {
		e, err := entity(p.Types, name, explicit)
		if err != nil {
			return nil, err
		}
		if e != nil {
			pkg.Entities = append(pkg.Entities, e)
		}
	}
	if len(pkg.Entities) == 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoTypes, c.Path)
	}
	return pkg, nil
}

// entity loads the named type. When the type was not requested explicitly,
// a type that is not an entity is skipped instead of reported.
func entity(pkg *types.Package, name string, explicit bool) (*Entity, error) {
	skip := func(format string, args ...any) (*Entity, error) {
		if !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("load: type %s: %s", name, fmt.Sprintf(format, args...))
	}
	obj, ok := pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return skip("not found in package %s", pkg.Path())
	}
	named, ok := obj.Type().(*types.Named)
	if !ok || obj.IsAlias() {
		return skip("not a defined type")
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return skip("not a struct type")
	}
	if named.TypeParams().Len() > 0 {
		return skip("generic types are not supported")
	}
	methods := methodSet(named)
	if m, ok := methods["tablename"]; !ok || m.Name() != "TableName" || !returns(m, types.Typ[types.String]) {
		return skip("missing TableName() string method")
	}
	e := &Entity{Name: name}
	if m, ok := methods["shardspec"]; ok && m.Name() == "ShardSpec" {
		e.Shard = true
	}
	w := &walker{local: pkg, methods: methods, seen: map[*types.Named]bool{named: true}}
	if err := w.walk(st, nil, nil, true); err != nil {
		return nil, fmt.Errorf("load: type %s: %w", name, err)
	}
	if len(w.fields) == 0 {
		return skip("no fields tagged with %q", schema.TagName)
	}
	e.Fields = w.fields
	return e, nil
}

type walker struct {
	local   *types.Package
	methods map[string]*types.Func
	seen    map[*types.Named]bool
	fields  []*Field
}

// walk visits the fields of st depth-first. Fields of embedded structs
// follow the embedded field itself.
func (w *walker) walk(st *types.Struct, path []string, embeds []*Embed, accessible bool) error {
	for i := range st.NumFields() {
		v := st.Field(i)
		fpath := append(slices.Clone(path), v.Name())
		access := accessible && (v.Exported() || v.Pkg() == w.local)
		if tag, ok := reflect.StructTag(st.Tag(i)).Lookup(schema.TagName); ok && tag != "-" {
			f, err := w.field(v, tag, fpath, embeds, access)
			if err != nil {
				return fmt.Errorf("field %s: %w", strings.Join(fpath, "."), err)
			}
			w.fields = append(w.fields, f)
		}
		if !v.Embedded() {
			continue
		}
		t, ptr := v.Type(), false
		if p, ok := t.(*types.Pointer); ok {
			t, ptr = p.Elem(), true
		}
		named, ok := t.(*types.Named)
		if !ok || w.seen[named] {
			continue
		}
		est, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}
		next := embeds
		if ptr {
			next = append(slices.Clone(embeds), &Embed{Path: fpath, Type: named})
		}
		w.seen[named] = true
		if err := w.walk(est, fpath, next, access); err != nil {
			return err
		}
		delete(w.seen, named)
	}
	return nil
}

func (w *walker) field(v *types.Var, tag string, path []string, embeds []*Embed, accessible bool) (*Field, error) {
	t, err := schema.ParseTag(v.Name(), tag)
	if err != nil {
		return nil, err
	}
	f := &Field{
		Name:       v.Name(),
		Path:       path,
		Type:       v.Type(),
		Tag:        t,
		Embeds:     embeds,
		Accessible: accessible,
		Getter:     w.getter(v),
		Setter:     w.setter(v),
	}
	if !f.Accessible && (f.Getter == nil || f.Setter == nil) {
		return nil, errors.New("unexported field requires Get and Set methods")
	}
	return f, nil
}

func (w *walker) getter(v *types.Var) *Method {
	names := []string{"get" + v.Name()}
	if b, ok := v.Type().Underlying().(*types.Basic); ok && b.Info()&types.IsBoolean != 0 {
		names = append(names, "is"+v.Name())
	}
	for _, name := range names {
		m, ok := w.methods[strings.ToLower(name)]
		if !ok {
			continue
		}
		sig := m.Type().(*types.Signature)
		if sig.Params().Len() != 0 {
			continue
		}
		switch res := sig.Results(); {
		case res.Len() == 1:
			return &Method{Name: m.Name()}
		case res.Len() == 2 && isError(res.At(1).Type()):
			return &Method{Name: m.Name(), Error: true}
		}
	}
	return nil
}

func (w *walker) setter(v *types.Var) *Method {
	m, ok := w.methods[strings.ToLower("set"+v.Name())]
	if !ok {
		return nil
	}
	sig := m.Type().(*types.Signature)
	if sig.Params().Len() != 1 || sig.Variadic() {
		return nil
	}
	switch res := sig.Results(); {
	case res.Len() == 0:
		return &Method{Name: m.Name(), Param: sig.Params().At(0).Type()}
	case res.Len() == 1 && isError(res.At(0).Type()):
		return &Method{Name: m.Name(), Param: sig.Params().At(0).Type(), Error: true}
	}
	return nil
}

// methodSet returns the exported methods of *T keyed by lowercase name.
func methodSet(named *types.Named) map[string]*types.Func {
	ms := types.NewMethodSet(types.NewPointer(named))
	methods := make(map[string]*types.Func, ms.Len())
	for i := range ms.Len() {
		fn, ok := ms.At(i).Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		methods[strings.ToLower(fn.Name())] = fn
	}
	return methods
}

func returns(fn *types.Func, t types.Type) bool {
	sig := fn.Type().(*types.Signature)
	return sig.Params().Len() == 0 && sig.Results().Len() == 1 && types.Identical(sig.Results().At(0).Type(), t)
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}
