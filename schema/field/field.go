// Package field classifies the Go types that may appear on model fields.
//
// The generator never works with go/types: schema structs are plain source
// declarations, so a field type is classified from its source expression
// (e.g. "uint64", "time.Time", "uuid.UUID"). The classification drives
// zero-value comparisons, default-expression typing and the increments
// integer check.
package field

import "fmt"

// A Type represents a field type kind.
type Type uint8

// List of field type kinds.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeString
	TypeInt
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeTime
	TypeUUID
	TypeBytes
	TypeOther
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeString:  "string",
	TypeInt:     "int",
	TypeInt8:    "int8",
	TypeInt16:   "int16",
	TypeInt32:   "int32",
	TypeInt64:   "int64",
	TypeUint:    "uint",
	TypeUint8:   "uint8",
	TypeUint16:  "uint16",
	TypeUint32:  "uint32",
	TypeUint64:  "uint64",
	TypeFloat32: "float32",
	TypeFloat64: "float64",
	TypeTime:    "time.Time",
	TypeUUID:    "uuid.UUID",
	TypeBytes:   "[]byte",
	TypeOther:   "other",
}

// String returns the textual representation of a type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("invalid(%d)", t)
}

// Valid reports if the given type is a valid field kind.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Integer reports if the given type is an integral type.
func (t Type) Integer() bool {
	switch t {
	case TypeInt, TypeInt8, TypeInt16, TypeInt32, TypeInt64,
		TypeUint, TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return true
	default:
		return false
	}
}

// Unsigned reports if the given type is an unsigned integral type.
func (t Type) Unsigned() bool {
	switch t {
	case TypeUint, TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return true
	default:
		return false
	}
}

// Float reports if the given type is a float type.
func (t Type) Float() bool {
	return t == TypeFloat32 || t == TypeFloat64
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	return t.Integer() || t.Float()
}

// TypeInfo holds the kind of a field together with the source
// expression it was classified from.
type TypeInfo struct {
	Type  Type
	// Ident is the type expression as written in the schema
	// source, e.g. "uint64" or "json.RawMessage".
	Ident string
}

// String returns the source expression of the type.
func (t TypeInfo) String() string {
	if t.Ident != "" {
		return t.Ident
	}
	return t.Type.String()
}

// HasZero reports if the type has a usable intrinsic default value,
// that is, a zero value the generator knows how to compare against
// and construct. Custom types are opaque to the generator and have
// no usable zero.
func (t TypeInfo) HasZero() bool {
	switch t.Type {
	case TypeBool, TypeString, TypeTime, TypeUUID, TypeBytes:
		return true
	default:
		return t.Type.Numeric()
	}
}

var goTypes = map[string]Type{
	"bool":      TypeBool,
	"string":    TypeString,
	"int":       TypeInt,
	"int8":      TypeInt8,
	"int16":     TypeInt16,
	"int32":     TypeInt32,
	"int64":     TypeInt64,
	"uint":      TypeUint,
	"uint8":     TypeUint8,
	"uint16":    TypeUint16,
	"uint32":    TypeUint32,
	"uint64":    TypeUint64,
	"float32":   TypeFloat32,
	"float64":   TypeFloat64,
	"time.Time": TypeTime,
	"uuid.UUID": TypeUUID,
	"[]byte":    TypeBytes,
}

// FromGoType classifies a source type expression. Expressions outside
// the recognized set are classified as TypeOther with the expression
// preserved in Ident.
func FromGoType(expr string) TypeInfo {
	if t, ok := goTypes[expr]; ok {
		return TypeInfo{Type: t, Ident: expr}
	}
	return TypeInfo{Type: TypeOther, Ident: expr}
}
