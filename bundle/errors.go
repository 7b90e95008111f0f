package bundle

import (
	"fmt"
	"strings"
)

// EntryNotFoundError is returned when no entry file could be resolved. It is
// the one fatal pipeline error: there is nothing useful to bundle without an
// entry, so it aborts before any output is written.
type EntryNotFoundError struct {
	BaseDir string
	Tried   []string
}

func (e *EntryNotFoundError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("no entry point found in %s", e.BaseDir)
	}
	return fmt.Sprintf("no entry point found in %s (tried %s)", e.BaseDir, strings.Join(e.Tried, ", "))
}

// ConfigError means a config file was present but malformed or failed schema
// validation. Bad config aborts before dependency resolution; it is never
// silently ignored.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// BundleError is a failure captured into Result.Errors: bundler engine
// diagnostics, unwritable output paths, and the like. File/Line are set when
// the engine reported a location.
type BundleError struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

func (e BundleError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s:%d: %s", e.Stage, e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}
