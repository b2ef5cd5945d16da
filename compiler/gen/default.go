package gen

import "github.com/dave/jennifer/jen"

// genNew emits the default constructor, e.g. NewUser(). Only fields
// with a declared default are populated; store-assigned keys and the
// remaining fields keep their zero values.
func genNew(f *jen.File, t *Type) {
	name := "New" + t.Name
	f.Commentf("%s returns a %s with its declared defaults applied.", name, t.Name)
	f.Func().Id(name).Params().Id(t.Name).Block(
		jen.Return(jen.Id(t.Name).ValuesFunc(func(group *jen.Group) {
			for _, fld := range t.Fields {
				if fld.Default != DefaultExpr {
					continue
				}
				group.Line().Id(fld.Name).Op(":").Add(fld.DefaultValue())
			}
		})),
	)
}
