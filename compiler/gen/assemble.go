package gen

import "github.com/dave/jennifer/jen"

// Assemble builds the generated file for a model type. Fragments are
// emitted in a fixed order so regeneration is byte-identical for an
// unchanged schema.
func Assemble(c *Config, t *Type) *jen.File {
	f := jen.NewFile(t.Pkg)
	f.HeaderComment(c.Header)
	genConstants(f, t)
	genNew(f, t)
	genAll(f, t)
	genFind(f, t)
	genFresh(f, t)
	genSave(f, t)
	genDelete(f, t)
	genCreate(f, t)
	genKeys(f, t)
	genTableName(f, t)
	genPrimaryKeyName(f, t)
	genPrimaryKey(f, t)
	return f
}
