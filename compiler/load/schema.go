// Package load extracts model declarations from Go source.
//
// A struct opts into generation with a directive comment:
//
//	//accord:model
//	type User struct {
//	    ID    uint64 `accord:"primary_key,increments"`
//	    Email string
//	    Role  string `accord:"default=member"`
//	}
//
// The loader is purely syntactic: it records names, type expressions and
// raw attributes with their source positions, and rejects unrecognized or
// malformed attributes up front. All semantic resolution (primary keys,
// table names, default typing) happens in compiler/gen.
package load

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

// directive marks a struct declaration for model generation.
const directive = "accord:model"

// Schema is one struct declaration selected for generation.
type Schema struct {
	// Name is the struct's declared name.
	Name string
	// Pkg is the package name of the source file.
	Pkg string
	// Pos is the file:line position of the declaration.
	Pos string
	// Table is the struct-level table_name override, if any.
	Table string
	// Fields are the struct's field declarations, in source order.
	Fields []*Field
}

// Field is one raw field declaration with its extracted attributes.
type Field struct {
	// Name is the field's Go identifier.
	Name string
	// Type is the field's type expression as written, e.g. "uint64".
	Type string
	// Pos is the file:line position of the field.
	Pos string
	// Attrs holds the extracted accord tag attributes.
	Attrs Attrs
}

// Attrs is the recognized field attribute set.
type Attrs struct {
	// PrimaryKey marks the field as the explicit primary key.
	PrimaryKey bool
	// Increments marks the primary key as store-assigned on insert.
	Increments bool
	// Default holds the declared default expression.
	Default string
	// HasDefault distinguishes an absent default from an empty one.
	HasDefault bool
}

// Load loads the model schemas of the given path. A directory loads
// every non-test, non-generated Go file in it.
func Load(path string) ([]*Schema, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return LoadFile(path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var schemas []*Schema
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, "_model.go") {
			continue
		}
		loaded, err := LoadFile(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, loaded...)
	}
	return schemas, nil
}

// LoadFile loads the model schemas declared in a single Go file.
func LoadFile(path string) ([]*Schema, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, src)
}

// Parse extracts the model schemas from the given source. The name is
// used for position information only.
func Parse(name string, src []byte) ([]*Schema, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, name, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("accord/load: parse %s: %w", name, err)
	}
	var schemas []*Schema
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			args, ok := directiveOf(gd, ts)
			if !ok {
				continue
			}
			schema, err := newSchema(fset, file, ts, args)
			if err != nil {
				return nil, err
			}
			schemas = append(schemas, schema)
		}
	}
	return schemas, nil
}

// directiveOf reports the accord:model directive attached to the type
// declaration and returns its argument string.
func directiveOf(gd *ast.GenDecl, ts *ast.TypeSpec) (string, bool) {
	for _, doc := range []*ast.CommentGroup{ts.Doc, gd.Doc} {
		if doc == nil {
			continue
		}
		for _, c := range doc.List {
			line := strings.TrimPrefix(c.Text, "//")
			if line == directive {
				return "", true
			}
			if rest, ok := strings.CutPrefix(line, directive+" "); ok {
				return strings.TrimSpace(rest), true
			}
		}
	}
	return "", false
}

func newSchema(fset *token.FileSet, file *ast.File, ts *ast.TypeSpec, args string) (*Schema, error) {
	pos := fset.Position(ts.Pos()).String()
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return nil, fmt.Errorf("%s: accord/load: %s: the %s directive supports only structs", pos, ts.Name.Name, directive)
	}
	schema := &Schema{
		Name: ts.Name.Name,
		Pkg:  file.Name.Name,
		Pos:  pos,
	}
	if err := schema.applyDirectiveArgs(args); err != nil {
		return nil, err
	}
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			return nil, fmt.Errorf("%s: accord/load: %s: embedded fields are not supported", fset.Position(f.Pos()), schema.Name)
		}
		attrs, err := parseTag(fset, schema.Name, f)
		if err != nil {
			return nil, err
		}
		for _, ident := range f.Names {
			fpos := fset.Position(ident.Pos()).String()
			if !ident.IsExported() {
				return nil, fmt.Errorf("%s: accord/load: %s: field %s must be exported", fpos, schema.Name, ident.Name)
			}
			schema.Fields = append(schema.Fields, &Field{
				Name:  ident.Name,
				Type:  types.ExprString(f.Type),
				Pos:   fpos,
				Attrs: attrs,
			})
		}
	}
	return schema, nil
}

// applyDirectiveArgs resolves the struct-level options of the directive.
// The recognized set is closed to catch typos early.
func (s *Schema) applyDirectiveArgs(args string) error {
	for _, arg := range strings.Fields(args) {
		key, value, _ := strings.Cut(arg, "=")
		switch key {
		case "table_name":
			if value == "" {
				return fmt.Errorf("%s: accord/load: %s: table_name requires a value", s.Pos, s.Name)
			}
			s.Table = value
		default:
			return fmt.Errorf("%s: accord/load: %s: unknown option %q for %s", s.Pos, s.Name, key, directive)
		}
	}
	return nil
}

// parseTag extracts the accord struct tag of a field declaration.
func parseTag(fset *token.FileSet, typeName string, f *ast.Field) (Attrs, error) {
	var attrs Attrs
	if f.Tag == nil {
		return attrs, nil
	}
	pos := fset.Position(f.Pos()).String()
	raw, err := strconv.Unquote(f.Tag.Value)
	if err != nil {
		return attrs, fmt.Errorf("%s: accord/load: %s.%s: malformed struct tag: %w", pos, typeName, f.Names[0].Name, err)
	}
	tag, ok := reflect.StructTag(raw).Lookup("accord")
	if !ok || tag == "" {
		return attrs, nil
	}
	for _, opt := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(opt, "=")
		switch key {
		case "primary_key":
			attrs.PrimaryKey = true
		case "increments":
			attrs.Increments = true
		case "default":
			if !hasValue {
				return attrs, fmt.Errorf("%s: accord/load: %s.%s: default requires a value", pos, typeName, f.Names[0].Name)
			}
			attrs.Default = value
			attrs.HasDefault = true
		default:
			return attrs, fmt.Errorf("%s: accord/load: %s.%s: unknown attribute %q", pos, typeName, f.Names[0].Name, key)
		}
	}
	return attrs, nil
}
