package gen

import (
	"go/token"
	"strconv"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/accord/compiler/load"
	"github.com/syssam/accord/schema/field"
)

// DefaultKind classifies how a field obtains its value when none is
// provided explicitly.
type DefaultKind int

const (
	// DefaultNone means the field has no declared default. It is
	// required on create.
	DefaultNone DefaultKind = iota
	// DefaultExpr means the field carries a declared default value.
	DefaultExpr
	// DefaultIncrements means the store assigns the value on insert.
	DefaultIncrements
)

// The following types and their exported methods are used by the
// codegen to generate the assets.
type (
	// Type represents one model type and the information it holds.
	Type struct {
		*Config
		schema *load.Schema
		// Name holds the model type name.
		Name string
		// Pkg is the Go package the model is declared in.
		Pkg string
		// PK holds the resolved primary key field.
		PK *Field
		// Fields holds all fields of this type, in declaration order.
		Fields []*Field
		fields map[string]*Field
	}

	// Field holds the information of a model field used by the emitters.
	Field struct {
		def *load.Field
		typ *Type
		// Name is the field's Go identifier.
		Name string
		// Type holds the type information of the field.
		Type field.TypeInfo
		// PrimaryKey indicates an explicit primary key marker.
		PrimaryKey bool
		// Increments indicates the store assigns the key on insert.
		Increments bool
		// Default classifies the field's default behavior.
		Default DefaultKind
		// defaultValue is the rendered default, valid when Default
		// is DefaultExpr.
		defaultValue jen.Code
	}
)

// NewType creates a new type and its fields from the given schema. It
// resolves the primary key, validates field attributes, and renders
// default values, so emitters can assume a well-formed model.
func NewType(c *Config, schema *load.Schema) (*Type, error) {
	if err := ValidSchemaName(schema.Name); err != nil {
		return nil, err
	}
	typ := &Type{
		Config: c,
		schema: schema,
		Name:   schema.Name,
		Pkg:    schema.Pkg,
		Fields: make([]*Field, 0, len(schema.Fields)),
		fields: make(map[string]*Field, len(schema.Fields)),
	}
	if len(schema.Fields) == 0 {
		return nil, NewSchemaError(typ.Name, "", "model has no fields", nil)
	}
	for _, f := range schema.Fields {
		tf := &Field{
			def:        f,
			typ:        typ,
			Name:       f.Name,
			Type:       field.FromGoType(f.Type),
			PrimaryKey: f.Attrs.PrimaryKey,
			Increments: f.Attrs.Increments,
		}
		if _, ok := typ.fields[tf.Name]; ok {
			return nil, NewSchemaError(typ.Name, tf.Name, "duplicate field", nil)
		}
		if err := tf.resolveDefault(); err != nil {
			return nil, err
		}
		typ.Fields = append(typ.Fields, tf)
		typ.fields[tf.Name] = tf
	}
	if err := typ.resolvePK(); err != nil {
		return nil, err
	}
	for _, f := range typ.Fields {
		if f.Increments && f != typ.PK {
			return nil, NewSchemaError(typ.Name, f.Name, "increments is only valid on the primary key", nil)
		}
		if f.Type.Type == field.TypeOther && f.Default == DefaultNone && f != typ.PK {
			return nil, NewSchemaError(typ.Name, f.Name, "type "+f.def.Type+" has no zero value check; declare a default", nil)
		}
	}
	return typ, nil
}

// resolvePK selects the primary key field. An explicit primary_key
// marker wins; without one, a field named ID is used. More than one
// marker, or none at all, is a schema error.
func (t *Type) resolvePK() error {
	var pk *Field
	for _, f := range t.Fields {
		if !f.PrimaryKey {
			continue
		}
		if pk != nil {
			return NewSchemaError(t.Name, f.Name, "multiple primary_key fields declared; only one is allowed", nil)
		}
		pk = f
	}
	if pk == nil {
		// Implicit candidate: the field whose column name is "id".
		for _, f := range t.Fields {
			if snake(f.Name) == "id" {
				pk = f
				break
			}
		}
	}
	if pk == nil {
		return NewSchemaError(t.Name, "", "no primary key: mark a field with primary_key or declare an ID field", nil)
	}
	if pk.Increments && !pk.Type.Type.Integer() {
		return NewSchemaError(t.Name, pk.Name, "increments requires an integer type, got "+pk.def.Type, nil)
	}
	t.PK = pk
	return nil
}

// Label returns the label name of the type (snake_case).
func (t Type) Label() string {
	return snake(t.Name)
}

// Table returns the storage table name of the type. The directive's
// table_name option wins over the derived plural form.
func (t Type) Table() string {
	if t.schema != nil && t.schema.Table != "" {
		return t.schema.Table
	}
	return tableName(t.Name)
}

// Receiver returns the method receiver name of this type.
func (t Type) Receiver() string {
	return receiver(t.Name)
}

// Plural returns the plural form of the type name.
func (t Type) Plural() string {
	return plural(t.Name)
}

// Pos returns the filename:line position of this type in the schema.
func (t Type) Pos() string {
	return t.schema.Pos
}

// HasIncrements reports whether the primary key is store-assigned.
func (t Type) HasIncrements() bool {
	return t.PK != nil && t.PK.Increments
}

// Required reports whether the field must hold a non-zero value on
// create. Only fields with a default (explicit or store-assigned)
// are exempt; a bool that must be allowed to stay false needs a
// default=false rule.
func (f Field) Required() bool {
	if f.Default != DefaultNone {
		return false
	}
	// Opaque types cannot be compared against a zero value.
	if f.Type.Type == field.TypeOther {
		return false
	}
	return true
}

// Column returns the storage column name of the field (snake_case).
func (f Field) Column() string {
	return snake(f.Name)
}

// IsPK reports whether this field is the resolved primary key.
func (f Field) IsPK() bool {
	return f.typ.PK != nil && f.typ.PK.Name == f.Name
}

// DefaultValue returns the rendered default value. It is only valid
// when Default is DefaultExpr.
func (f Field) DefaultValue() jen.Code {
	return f.defaultValue
}

// resolveDefault classifies the field's default behavior and renders
// the declared value for its type.
func (f *Field) resolveDefault() error {
	if f.Increments {
		// Store-assigned keys behave like defaults on create.
		f.Default = DefaultIncrements
		if f.def.Attrs.HasDefault {
			return NewSchemaError(f.typ.Name, f.Name, "increments and default are mutually exclusive", nil)
		}
		return nil
	}
	if !f.def.Attrs.HasDefault {
		return nil
	}
	value, err := f.renderDefault(f.def.Attrs.Default)
	if err != nil {
		return err
	}
	f.Default = DefaultExpr
	f.defaultValue = value
	return nil
}

// renderDefault turns the raw default text into typed code.
func (f *Field) renderDefault(raw string) (jen.Code, error) {
	t := f.Type.Type
	switch {
	case t == field.TypeString:
		return jen.Lit(raw), nil
	case t.Unsigned():
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, NewConfigError("default", raw, "invalid integer default for field "+f.Name)
		}
		return jen.Id(f.Type.Ident).Call(jen.Lit(int(n))), nil
	case t.Integer():
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, NewConfigError("default", raw, "invalid integer default for field "+f.Name)
		}
		return jen.Id(f.Type.Ident).Call(jen.Lit(int(n))), nil
	case t.Float():
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, NewConfigError("default", raw, "invalid float default for field "+f.Name)
		}
		return jen.Id(f.Type.Ident).Call(jen.Lit(v)), nil
	case t == field.TypeBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, NewConfigError("default", raw, "invalid bool default for field "+f.Name)
		}
		return jen.Lit(v), nil
	case t == field.TypeTime:
		if raw != "now()" {
			return nil, NewConfigError("default", raw, "time fields support only now() as default")
		}
		return jen.Qual("time", "Now").Call(), nil
	case t == field.TypeUUID:
		if raw != "new()" {
			return nil, NewConfigError("default", raw, "uuid fields support only new() as default")
		}
		return jen.Qual("github.com/google/uuid", "New").Call(), nil
	case t == field.TypeBytes:
		return nil, NewConfigError("default", raw, "byte fields do not support defaults")
	default:
		// Opaque types take the default verbatim as a Go expression.
		return jen.Id(raw), nil
	}
}

// ValidSchemaName checks that the given name is a valid exported Go
// identifier that does not collide with a predeclared name.
func ValidSchemaName(name string) error {
	if name == "" {
		return NewSchemaError(name, "", "empty model name", nil)
	}
	if r := rune(name[0]); !unicode.IsUpper(r) {
		return NewSchemaError(name, "", "model name must be exported", nil)
	}
	if token.Lookup(name).IsKeyword() {
		return NewSchemaError(name, "", "model name cannot be a Go keyword", nil)
	}
	return nil
}
