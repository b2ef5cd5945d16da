package gen

import "runtime"

// defaultHeader is written at the top of every generated file.
const defaultHeader = "Code generated by accord. DO NOT EDIT."

// Config holds the code generation settings.
type Config struct {
	// Target is the directory generated files are written to.
	// When empty, each file is written next to its source schema.
	Target string

	// Header is the comment placed at the top of generated files.
	Header string

	// Workers bounds the number of schemas generated concurrently.
	Workers int
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() *Config {
	return &Config{
		Header:  defaultHeader,
		Workers: runtime.GOMAXPROCS(0),
	}
}
