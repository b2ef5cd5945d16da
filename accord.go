// Package accord declares the Model contract implemented by generated code.
//
// accord is a code generator: given a struct declaration annotated with an
// //accord:model directive and accord:"..." field tags, it emits the full
// implementation of the Model contract for that struct: fetch-all, find,
// fresh, create, save, delete, key introspection, table-name resolution,
// a primary-key accessor, and a New<Struct> default constructor.
//
// The generator lives under compiler/. The runtime surface the generated
// code calls into lives in the query package, executing through a
// dialect.Driver.
package accord

// Model is the structural contract every generated model satisfies.
// The query runtime uses it to map records to tables and columns;
// the per-model typed operations (All<Plural>, Find<Name>, Create,
// Save, Delete, Fresh, PrimaryKey) are emitted as free functions and
// methods on the struct itself.
type Model interface {
	// TableName returns the database table backing the model.
	TableName() string
	// PrimaryKeyName returns the column name of the model's primary key.
	PrimaryKeyName() string
	// Keys lists the model's column names in declaration order.
	Keys() []string
}
