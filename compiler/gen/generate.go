package gen

import (
	"bytes"
	"fmt"
	"go/types"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/tools/imports"

	"github.com/syssam/magicdao/compiler/load"
)

const (
	schemaPkg = "github.com/syssam/magicdao/schema"
	fieldPkg  = "github.com/syssam/magicdao/schema/field"
)

// FuncName returns the name of the generated definition function.
func FuncName(e *load.Entity) string {
	return e.Name + "Definition"
}

// FileName returns the name of the file generated for e.
func (c *Config) FileName(e *load.Entity) string {
	return inflect.Underscore(e.Name) + c.Suffix
}

// Render builds the generated file of the entity.
func Render(pkg *load.Package, e *load.Entity, cfg *Config) (*jen.File, error) {
	if len(e.Fields) == 0 {
		return nil, NewEntityError(e.Name, "", "no fields", nil)
	}
	f := jen.NewFilePathName(pkg.Path, pkg.Name)
	if cfg.Header != "" {
		f.HeaderComment(cfg.Header)
	}
	fields := make([]jen.Code, 0, len(e.Fields)+1)
	fields = append(fields, jen.New(jen.Id(e.Name)).Dot("TableName").Call())
	for _, fd := range e.Fields {
		code, err := fieldCode(pkg, e, fd)
		if err != nil {
			return nil, err
		}
		fields = append(fields, code)
	}
	def := jen.Qual(schemaPkg, "New").Types(jen.Id(e.Name)).Custom(jen.Options{
		Open:      "(",
		Close:     ")",
		Separator: ",",
		Multi:     true,
	}, fields...)

	f.Commentf("%s returns the table definition of %s.", FuncName(e), e.Name)
	f.Func().Id(FuncName(e)).Params().Op("*").Qual(schemaPkg, "Definition").Types(jen.Id(e.Name)).BlockFunc(func(g *jen.Group) {
		if !e.Shard {
			g.Return(def)
			return
		}
		g.Id("def").Op(":=").Add(def)
		g.Id("spec").Op(":=").New(jen.Id(e.Name)).Dot("ShardSpec").Call()
		g.Return(jen.Id("def").Dot("Shard").Call(
			jen.Id("spec").Dot("Count"),
			jen.Id("spec").Dot("Column"),
			jen.Id("spec").Dot("Separator"),
		))
	})
	return f, nil
}

// Source renders the entity file and formats it with goimports. The
// returned error carries the unformatted source when formatting fails.
func Source(pkg *load.Package, e *load.Entity, cfg *Config) ([]byte, error) {
	f, err := Render(pkg, e, cfg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, &GenerationError{File: cfg.FileName(e), Cause: err}
	}
	out, err := imports.Process(filepath.Join(pkg.Dir, cfg.FileName(e)), buf.Bytes(), nil)
	if err != nil {
		return buf.Bytes(), &GenerationError{File: cfg.FileName(e), Cause: fmt.Errorf("format: %w", err)}
	}
	return out, nil
}

// fieldCode returns the field builder expression of fd.
func fieldCode(pkg *load.Package, e *load.Entity, fd *load.Field) (jen.Code, error) {
	if !fd.Accessible {
		if fd.Getter == nil || fd.Setter == nil {
			return nil, NewEntityError(e.Name, fd.Name, "unexported field requires Get and Set methods", nil)
		}
		return descriptorCode(pkg, e, fd), nil
	}
	ctor := "Column"
	if fd.Key {
		ctor = "Key"
	}
	typ := typeCode(pkg.Path, fd.Type)
	ref := jen.Func().Params(jen.Id("e").Op("*").Id(e.Name)).Op("*").Add(typ).BlockFunc(func(g *jen.Group) {
		for _, em := range fd.Embeds {
			g.If(selector(em.Path).Op("==").Nil()).Block(
				selector(em.Path).Op("=").New(typeCode(pkg.Path, em.Type)),
			)
		}
		g.Return(jen.Op("&").Add(selector(fd.Path)))
	})
	s := jen.Qual(fieldPkg, ctor).Call(jen.Lit(fd.Column), ref)
	if fd.AutoIncrement {
		s.Dot("AutoIncrement").Call()
	}
	if fd.ReadOnly {
		s.Dot("ReadOnly").Call()
	}
	s.Dot("Name").Call(jen.Lit(fd.Name))
	switch {
	case fd.Getter != nil:
		s.Dot("Getter").Call(getterCode(e, fd))
	case len(fd.Embeds) > 0:
		// Reading through a nil embedded pointer yields NULL.
		s.Dot("Getter").Call(jen.Func().Params(jen.Id("e").Op("*").Id(e.Name)).Params(jen.Any(), jen.Error()).BlockFunc(func(g *jen.Group) {
			g.If(nilEmbeds(fd.Embeds)).Block(jen.Return(jen.Nil(), jen.Nil()))
			g.Return(selector(fd.Path), jen.Nil())
		}))
	}
	if fd.Setter != nil {
		s.Dot("Scan").Call(targetCode(pkg, e, fd))
	}
	return s, nil
}

// descriptorCode returns a descriptor literal for a field that is only
// reachable through its accessor methods.
func descriptorCode(pkg *load.Package, e *load.Entity, fd *load.Field) jen.Code {
	return jen.Op("&").Qual(fieldPkg, "Descriptor").Types(jen.Id(e.Name)).Values(jen.DictFunc(func(d jen.Dict) {
		d[jen.Id("Name")] = jen.Lit(fd.Name)
		d[jen.Id("Column")] = jen.Lit(fd.Column)
		if fd.Key {
			d[jen.Id("Key")] = jen.True()
		}
		if fd.AutoIncrement {
			d[jen.Id("AutoIncrement")] = jen.True()
		}
		if fd.ReadOnly {
			d[jen.Id("ReadOnly")] = jen.True()
		}
		d[jen.Id("Get")] = getterCode(e, fd)
		d[jen.Id("Target")] = targetCode(pkg, e, fd)
	}))
}

func getterCode(e *load.Entity, fd *load.Field) jen.Code {
	call := jen.Id("e").Dot(fd.Getter.Name).Call()
	return jen.Func().Params(jen.Id("e").Op("*").Id(e.Name)).Params(jen.Any(), jen.Error()).BlockFunc(func(g *jen.Group) {
		if fd.Getter.Error {
			g.Return(call)
		} else {
			g.Return(call, jen.Nil())
		}
	})
}

func targetCode(pkg *load.Package, e *load.Entity, fd *load.Field) jen.Code {
	call := jen.Id("e").Dot(fd.Setter.Name).Call(jen.Op("*").Id("v"))
	done := jen.Func().Params().Error().BlockFunc(func(g *jen.Group) {
		if fd.Setter.Error {
			g.Return(call)
			return
		}
		g.Add(call)
		g.Return(jen.Nil())
	})
	return jen.Func().Params(jen.Id("e").Op("*").Id(e.Name)).Params(jen.Any(), jen.Func().Params().Error()).Block(
		jen.Id("v").Op(":=").New(typeCode(pkg.Path, fd.Setter.Param)),
		jen.Return(jen.Id("v"), done),
	)
}

// selector returns e.<path>.
func selector(path []string) *jen.Statement {
	s := jen.Id("e")
	for _, p := range path {
		s.Dot(p)
	}
	return s
}

// nilEmbeds returns the condition that any embedded pointer is nil.
func nilEmbeds(embeds []*load.Embed) *jen.Statement {
	var s *jen.Statement
	for _, em := range embeds {
		if s == nil {
			s = selector(em.Path).Op("==").Nil()
			continue
		}
		s.Op("||").Add(selector(em.Path).Op("==").Nil())
	}
	return s
}

// typeCode returns the jennifer code of t as written in package local.
func typeCode(local string, t types.Type) jen.Code {
	switch t := t.(type) {
	case *types.Basic:
		return jen.Id(t.Name())
	case *types.Alias:
		return qualified(local, t.Obj())
	case *types.Named:
		s := qualified(local, t.Obj())
		if args := t.TypeArgs(); args.Len() > 0 {
			codes := make([]jen.Code, args.Len())
			for i := range args.Len() {
				codes[i] = typeCode(local, args.At(i))
			}
			s.Types(codes...)
		}
		return s
	case *types.Pointer:
		return jen.Op("*").Add(typeCode(local, t.Elem()))
	case *types.Slice:
		return jen.Index().Add(typeCode(local, t.Elem()))
	case *types.Array:
		return jen.Index(jen.Lit(int(t.Len()))).Add(typeCode(local, t.Elem()))
	case *types.Map:
		return jen.Map(typeCode(local, t.Key())).Add(typeCode(local, t.Elem()))
	default:
		// Type literals are written as is; goimports resolves the packages.
		return jen.Id(types.TypeString(t, func(p *types.Package) string {
			if p.Path() == local {
				return ""
			}
			return p.Name()
		}))
	}
}

func qualified(local string, obj *types.TypeName) *jen.Statement {
	if obj.Pkg() == nil || obj.Pkg().Path() == local {
		return jen.Id(obj.Name())
	}
	return jen.Qual(obj.Pkg().Path(), obj.Name())
}
