package gen

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// render turns the assembled file into formatted source. The goimports
// pass doubles as a syntax guard: emitter bugs surface here instead of
// at the user's next build.
func render(name string, f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError("render", name, "", err)
	}
	src, err := imports.Process(name, buf.Bytes(), nil)
	if err != nil {
		return nil, NewGenerationError("format", name, "emitted source does not parse", err)
	}
	return src, nil
}

// writeFile writes the rendered source, leaving an up-to-date file
// untouched so regeneration never dirties timestamps.
func writeFile(path string, src []byte) error {
	if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, src) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewGenerationError("write", path, "create output directory", err)
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return NewGenerationError("write", path, "", err)
	}
	return nil
}
