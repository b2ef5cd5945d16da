package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	schemas, err := Parse("user.go", []byte(`package schema

import "time"

//accord:model
type User struct {
	ID        uint64 `+"`accord:\"primary_key,increments\"`"+`
	Email     string
	CreatedAt time.Time `+"`accord:\"default=now()\"`"+`
}
`))
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	s := schemas[0]
	assert.Equal(t, "User", s.Name)
	assert.Equal(t, "schema", s.Pkg)
	assert.Empty(t, s.Table)
	require.Len(t, s.Fields, 3)

	id := s.Fields[0]
	assert.Equal(t, "ID", id.Name)
	assert.Equal(t, "uint64", id.Type)
	assert.True(t, id.Attrs.PrimaryKey)
	assert.True(t, id.Attrs.Increments)
	assert.False(t, id.Attrs.HasDefault)

	email := s.Fields[1]
	assert.Equal(t, "Email", email.Name)
	assert.Equal(t, Attrs{}, email.Attrs)

	created := s.Fields[2]
	assert.Equal(t, "time.Time", created.Type)
	assert.True(t, created.Attrs.HasDefault)
	assert.Equal(t, "now()", created.Attrs.Default)
}

func TestParseTableName(t *testing.T) {
	schemas, err := Parse("s.go", []byte(`package schema

//accord:model table_name=staff
type Employee struct {
	ID uint64
}
`))
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, "staff", schemas[0].Table)
}

func TestParseDirectiveOnGenDecl(t *testing.T) {
	schemas, err := Parse("s.go", []byte(`package schema

//accord:model
type (
	Role struct {
		ID uint64
	}
)
`))
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, "Role", schemas[0].Name)
}

func TestParseSkipsUnmarked(t *testing.T) {
	schemas, err := Parse("s.go", []byte(`package schema

type Plain struct {
	ID uint64
}
`))
	require.NoError(t, err)
	assert.Empty(t, schemas)
}

func TestParseMultiNameField(t *testing.T) {
	schemas, err := Parse("s.go", []byte(`package schema

//accord:model
type Point struct {
	ID   uint64
	X, Y int
}
`))
	require.NoError(t, err)
	require.Len(t, schemas[0].Fields, 3)
	assert.Equal(t, "X", schemas[0].Fields[1].Name)
	assert.Equal(t, "Y", schemas[0].Fields[2].Name)
	assert.Equal(t, "int", schemas[0].Fields[2].Type)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{
			name: "non-struct",
			src:  "//accord:model\ntype ID uint64\n",
			msg:  "supports only structs",
		},
		{
			name: "unexported field",
			src:  "//accord:model\ntype User struct {\n\tid uint64\n}\n",
			msg:  "must be exported",
		},
		{
			name: "embedded field",
			src:  "//accord:model\ntype User struct {\n\tBase\n}\n",
			msg:  "embedded fields are not supported",
		},
		{
			name: "unknown attribute",
			src:  "//accord:model\ntype User struct {\n\tID uint64 `accord:\"primary\"`\n}\n",
			msg:  `unknown attribute "primary"`,
		},
		{
			name: "default without value",
			src:  "//accord:model\ntype User struct {\n\tRole string `accord:\"default\"`\n}\n",
			msg:  "default requires a value",
		},
		{
			name: "unknown directive option",
			src:  "//accord:model table=users\ntype User struct {\n\tID uint64\n}\n",
			msg:  `unknown option "table"`,
		},
		{
			name: "table_name without value",
			src:  "//accord:model table_name\ntype User struct {\n\tID uint64\n}\n",
			msg:  "table_name requires a value",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("s.go", []byte("package schema\n\n"+tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Contains(t, err.Error(), "s.go:")
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0644))
	}
	write("user.go", "package schema\n\n//accord:model\ntype User struct {\n\tID uint64\n}\n")
	write("category.go", "package schema\n\n//accord:model\ntype Category struct {\n\tID uint64\n}\n")
	// Generated and test files must not be picked up again.
	write("user_model.go", "package schema\n\n//accord:model\ntype Ghost struct {\n\tID uint64\n}\n")
	write("user_test.go", "package schema\n\n//accord:model\ntype Ghost2 struct {\n\tID uint64\n}\n")

	schemas, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, schemas, 2)
	names := []string{schemas[0].Name, schemas[1].Name}
	assert.ElementsMatch(t, []string{"User", "Category"}, names)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.go"))
	assert.Error(t, err)
}
