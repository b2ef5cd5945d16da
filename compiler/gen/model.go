package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/accord/schema/field"
)

// queryPkg is the import path of the runtime package generated code
// calls into.
const queryPkg = "github.com/syssam/accord/query"

// genConstants emits the table and primary key column constants.
func genConstants(f *jen.File, t *Type) {
	f.Const().DefsFunc(func(group *jen.Group) {
		group.Commentf("%sTable is the storage table of %s.", t.Name, t.Name)
		group.Id(t.Name + "Table").Op("=").Lit(t.Table())
		group.Commentf("%sPrimaryKey is the primary key column of %s.", t.Name, t.Name)
		group.Id(t.Name + "PrimaryKey").Op("=").Lit(t.PK.Column())
	})
}

// genAll emits the collection accessor, e.g. AllUsers(ctx).
func genAll(f *jen.File, t *Type) {
	name := "All" + t.Plural()
	f.Commentf("%s fetches every %s record from the store.", name, t.Name)
	f.Func().Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
	).Params(jen.Index().Id(t.Name), jen.Error()).Block(
		jen.Return(jen.Qual(queryPkg, "All").Index(jen.Id(t.Name)).Call(jen.Id("ctx"))),
	)
}

// genFind emits the primary key lookup, e.g. FindUser(ctx, id).
func genFind(f *jen.File, t *Type) {
	name := "Find" + t.Name
	f.Commentf("%s fetches the %s with the given primary key.", name, t.Name)
	f.Func().Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id(t.PK.argName()).Add(t.PK.typeCode()),
	).Params(jen.Id(t.Name), jen.Error()).Block(
		jen.Return(jen.Qual(queryPkg, "Find").Index(jen.Id(t.Name)).Call(
			jen.Id("ctx"), jen.Id(t.PK.argName()),
		)),
	)
}

// genFresh emits the reload method.
func genFresh(f *jen.File, t *Type) {
	r := t.Receiver()
	f.Commentf("Fresh fetches the current stored state of the %s.", t.Name)
	f.Func().Params(jen.Id(r).Id(t.Name)).Id("Fresh").Params(
		jen.Id("ctx").Qual("context", "Context"),
	).Params(jen.Id(t.Name), jen.Error()).Block(
		jen.Return(jen.Qual(queryPkg, "Find").Index(jen.Id(t.Name)).Call(
			jen.Id("ctx"), jen.Id(r).Dot(t.PK.Name),
		)),
	)
}

// genSave emits the update method.
func genSave(f *jen.File, t *Type) {
	r := t.Receiver()
	f.Commentf("Save persists changes to the %s. It fails with a not-found\n"+
		"error when the record no longer exists.", t.Name)
	f.Func().Params(jen.Id(r).Op("*").Id(t.Name)).Id("Save").Params(
		jen.Id("ctx").Qual("context", "Context"),
	).Error().Block(
		jen.Return(jen.Qual(queryPkg, "Save").Call(jen.Id("ctx"), jen.Id(r))),
	)
}

// genDelete emits the delete method.
func genDelete(f *jen.File, t *Type) {
	r := t.Receiver()
	f.Commentf("Delete removes the %s from the store.", t.Name)
	f.Func().Params(jen.Id(r).Id(t.Name)).Id("Delete").Params(
		jen.Id("ctx").Qual("context", "Context"),
	).Error().Block(
		jen.Return(jen.Qual(queryPkg, "Delete").Call(jen.Id("ctx"), jen.Op("&").Id(r))),
	)
}

// genCreate emits the insert method. Required fields are validated
// against their zero values before the statement runs; store-assigned
// keys are written back on success.
func genCreate(f *jen.File, t *Type) {
	r := t.Receiver()
	f.Commentf("Create inserts the %s into the store after checking that every\n"+
		"required field holds a value.", t.Name)
	f.Func().Params(jen.Id(r).Op("*").Id(t.Name)).Id("Create").Params(
		jen.Id("ctx").Qual("context", "Context"),
	).Error().BlockFunc(func(grp *jen.Group) {
		for _, fld := range t.Fields {
			if !fld.Required() {
				continue
			}
			grp.If(fld.zeroCheck(r)).Block(
				jen.Return(jen.Qual(queryPkg, "NewRequiredError").Call(jen.Lit(fld.Column()))),
			)
		}
		if t.HasIncrements() {
			grp.List(jen.Id("id"), jen.Id("err")).Op(":=").Qual(queryPkg, "Insert").Call(jen.Id("ctx"), jen.Id(r))
			grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Id("err")))
			grp.Id(r).Dot(t.PK.Name).Op("=").Id(t.PK.Type.Ident).Call(jen.Id("id"))
			grp.Return(jen.Nil())
		} else {
			grp.List(jen.Id("_"), jen.Id("err")).Op(":=").Qual(queryPkg, "Insert").Call(jen.Id("ctx"), jen.Id(r))
			grp.Return(jen.Id("err"))
		}
	})
}

// genKeys emits the column list accessor.
func genKeys(f *jen.File, t *Type) {
	r := t.Receiver()
	f.Commentf("Keys returns the storage columns of %s in declaration order.", t.Name)
	f.Func().Params(jen.Id(r).Id(t.Name)).Id("Keys").Params().Index().String().Block(
		jen.Return(jen.Index().String().ValuesFunc(func(group *jen.Group) {
			for _, fld := range t.Fields {
				group.Lit(fld.Column())
			}
		})),
	)
}

// genTableName emits the table name accessor.
func genTableName(f *jen.File, t *Type) {
	r := t.Receiver()
	f.Commentf("TableName returns the storage table of %s.", t.Name)
	f.Func().Params(jen.Id(r).Id(t.Name)).Id("TableName").Params().String().Block(
		jen.Return(jen.Id(t.Name + "Table")),
	)
}

// genPrimaryKeyName emits the primary key column accessor.
func genPrimaryKeyName(f *jen.File, t *Type) {
	r := t.Receiver()
	f.Commentf("PrimaryKeyName returns the primary key column of %s.", t.Name)
	f.Func().Params(jen.Id(r).Id(t.Name)).Id("PrimaryKeyName").Params().String().Block(
		jen.Return(jen.Id(t.Name + "PrimaryKey")),
	)
}

// genPrimaryKey emits the primary key pointer accessor.
func genPrimaryKey(f *jen.File, t *Type) {
	r := t.Receiver()
	f.Commentf("PrimaryKey returns a pointer to the primary key field of the %s.", t.Name)
	f.Func().Params(jen.Id(r).Op("*").Id(t.Name)).Id("PrimaryKey").Params().Op("*").Add(t.PK.typeCode()).Block(
		jen.Return(jen.Op("&").Id(r).Dot(t.PK.Name)),
	)
}

// typeCode returns the field's type expression as code.
func (f Field) typeCode() jen.Code {
	switch f.Type.Type {
	case field.TypeTime:
		return jen.Qual("time", "Time")
	case field.TypeUUID:
		return jen.Qual("github.com/google/uuid", "UUID")
	case field.TypeBytes:
		return jen.Index().Byte()
	default:
		return jen.Id(f.Type.Ident)
	}
}

// argName returns the parameter name used for the field in generated
// signatures, e.g. "id" for ID.
func (f Field) argName() string {
	return camel(snake(f.Name))
}

// zeroCheck returns the condition reporting that the field holds its
// zero value on the given receiver.
func (f Field) zeroCheck(r string) jen.Code {
	sel := jen.Id(r).Dot(f.Name)
	switch t := f.Type.Type; {
	case t == field.TypeString:
		return sel.Op("==").Lit("")
	case t.Numeric():
		return sel.Op("==").Lit(0)
	case t == field.TypeBool:
		return jen.Op("!").Add(sel)
	case t == field.TypeTime:
		return sel.Dot("IsZero").Call()
	case t == field.TypeUUID:
		return sel.Op("==").Qual("github.com/google/uuid", "Nil")
	case t == field.TypeBytes:
		return jen.Len(sel).Op("==").Lit(0)
	default:
		// Unreachable: opaque types are never required.
		return jen.False()
	}
}
