package gen

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/accord/compiler/load"
)

// Generator turns annotated schema sources into generated model files.
// A single generator is safe for repeated use, e.g. from a watcher.
type Generator struct {
	cfg   *Config
	cache *load.Cache
}

// NewGenerator creates a generator with the given options.
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, cache: load.NewCache()}, nil
}

// Generate processes the schema file or directory at the given path,
// writing one <name>_model.go file per annotated struct. Schemas are
// generated concurrently; the first failure aborts the run.
func (g *Generator) Generate(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	srcDir := path
	if !info.IsDir() {
		srcDir = filepath.Dir(path)
	}
	schemas, err := g.loadCached(path, info.IsDir())
	if err != nil {
		return err
	}
	errg, _ := errgroup.WithContext(ctx)
	errg.SetLimit(g.cfg.Workers)
	for _, s := range schemas {
		s := s
		errg.Go(func() error {
			return g.generateSchema(s, srcDir)
		})
	}
	return errg.Wait()
}

// loadCached loads schemas through the parse cache, so watch-driven
// reruns only pay for files that changed.
func (g *Generator) loadCached(path string, isDir bool) ([]*load.Schema, error) {
	if !isDir {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return g.cache.Parse(path, src)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var schemas []*load.Schema
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".go" ||
			isGenerated(name) || isTest(name) {
			continue
		}
		full := filepath.Join(path, name)
		src, err := os.ReadFile(full)
		if err != nil {
			return nil, err
		}
		loaded, err := g.cache.Parse(full, src)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, loaded...)
	}
	return schemas, nil
}

func (g *Generator) generateSchema(s *load.Schema, srcDir string) error {
	typ, err := NewType(g.cfg, s)
	if err != nil {
		return err
	}
	outDir := g.cfg.Target
	if outDir == "" {
		outDir = srcDir
	}
	name := typ.Label() + "_model.go"
	src, err := render(name, Assemble(g.cfg, typ))
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(outDir, name), src)
}

func isGenerated(name string) bool {
	return strings.HasSuffix(name, "_model.go")
}

func isTest(name string) bool {
	return strings.HasSuffix(name, "_test.go")
}

// Generate is a convenience wrapper that builds a generator and runs it
// over the given schema path.
func Generate(ctx context.Context, path string, opts ...Option) error {
	g, err := NewGenerator(opts...)
	if err != nil {
		return err
	}
	return g.Generate(ctx, path)
}
