// accord generates model contract implementations for annotated schema
// structs.
//
// Run: accord [flags] [schema path]
//
// Settings may also come from an accord.yaml file next to the schemas;
// command line flags take precedence.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/syssam/accord/compiler/gen"
)

// fileConfig mirrors the accord.yaml layout.
type fileConfig struct {
	// Path is the schema file or directory to process.
	Path string `yaml:"path"`
	// Target overrides the output directory.
	Target string `yaml:"target"`
	// Header overrides the generated file header.
	Header string `yaml:"header"`
	// Workers bounds generation concurrency.
	Workers int `yaml:"workers"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &fileConfig{}, nil
		}
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func main() {
	var (
		configPath = flag.String("config", "accord.yaml", "configuration file")
		target     = flag.String("target", "", "output directory (default: next to schemas)")
		header     = flag.String("header", "", "header comment for generated files")
		workers    = flag.Int("workers", 0, "number of concurrent generators")
		watch      = flag.Bool("watch", false, "regenerate when schema files change")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "accord: ", 0)

	cfg, err := loadFileConfig(*configPath)
	if err != nil {
		logger.Fatal(err)
	}
	if *target != "" {
		cfg.Target = *target
	}
	if *header != "" {
		cfg.Header = *header
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	path := cfg.Path
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	if path == "" {
		path = "."
	}

	var opts []gen.Option
	if cfg.Target != "" {
		opts = append(opts, gen.WithTarget(cfg.Target))
	}
	if cfg.Header != "" {
		opts = append(opts, gen.WithHeader(cfg.Header))
	}
	if cfg.Workers > 0 {
		opts = append(opts, gen.WithWorkers(cfg.Workers))
	}

	g, err := gen.NewGenerator(opts...)
	if err != nil {
		logger.Fatal(err)
	}

	ctx := context.Background()
	if err := g.Generate(ctx, path); err != nil {
		if *watch {
			// Watch mode keeps running through schema errors; the next
			// save gets another chance.
			logger.Print(err)
		} else {
			logger.Fatal(err)
		}
	}
	if !*watch {
		return
	}
	if err := watchLoop(ctx, logger, g, path); err != nil {
		logger.Fatal(err)
	}
}

// watchLoop regenerates on schema changes until the process exits.
// Bursts of events from editors are coalesced with a short debounce.
func watchLoop(ctx context.Context, logger *log.Logger, g *gen.Generator, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}
	logger.Printf("watching %s", dir)

	var (
		debounce = time.NewTimer(0)
		pending  bool
	)
	if !debounce.Stop() {
		<-debounce.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !schemaEvent(ev) {
				continue
			}
			if pending && !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			pending = true
			debounce.Reset(100 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Print(err)
		case <-debounce.C:
			pending = false
			if err := g.Generate(ctx, path); err != nil {
				logger.Print(err)
				continue
			}
			logger.Printf("regenerated %s", path)
		}
	}
}

// schemaEvent reports whether the event concerns a schema source file.
// Generated and test files never trigger a rerun.
func schemaEvent(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Base(ev.Name)
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_model.go") &&
		!strings.HasSuffix(name, "_test.go")
}
