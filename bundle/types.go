// Package bundle turns a SimplyMCP server source file into a deployable
// artifact: it detects the entry point, resolves inline and manifest
// dependencies, drives esbuild, and writes the packaged output.
package bundle

import (
	"time"
)

// Format selects the packaged output shape.
type Format string

const (
	// FormatSingleFile emits one JS file, module format following the entry.
	FormatSingleFile Format = "single-file"
	// FormatESM emits one JS file forced to ES modules.
	FormatESM Format = "esm"
	// FormatCJS emits one JS file forced to CommonJS.
	FormatCJS Format = "cjs"
	// FormatStandalone emits a directory with the bundle plus a generated
	// manifest whose dependencies list only the native modules.
	FormatStandalone Format = "standalone"
)

// SourceMapMode selects how source maps are emitted.
type SourceMapMode string

const (
	SourceMapNone     SourceMapMode = "none"
	SourceMapInline   SourceMapMode = "inline"
	SourceMapExternal SourceMapMode = "external"
	SourceMapBoth     SourceMapMode = "both"
)

// Stage labels one step of the bundling pipeline, reported via OnProgress.
type Stage string

const (
	StageDetectingEntry        Stage = "detecting entry"
	StageResolvingDependencies Stage = "resolving dependencies"
	StageBundling              Stage = "bundling"
	StageFormattingOutput      Stage = "formatting output"
)

// Options configures a single Bundle call. Zero values mean "use defaults":
// empty Entry triggers convention-based detection, empty Output falls back
// to DefaultOutput, empty Format means single-file.
type Options struct {
	// Entry is the server source file, resolved relative to BaseDir when
	// not absolute. Optional; detection falls back to the manifest "main"
	// field and then convention filenames.
	Entry string

	// Output is the artifact path: a file for single-file/esm/cjs, a
	// directory for standalone.
	Output string

	// BaseDir is the project root used for manifest and config discovery.
	// Defaults to the current directory.
	BaseDir string

	Format    Format
	Minify    bool
	SourceMap SourceMapMode

	// External lists packages excluded from the bundle in addition to
	// native modules (which are always external).
	External []string

	// NativeModules overrides the built-in known-native-module list.
	NativeModules []string

	// OnProgress is invoked synchronously when each pipeline stage starts.
	OnProgress func(stage Stage)

	// OnError is invoked synchronously for every captured failure.
	OnError func(err error)
}

// DefaultOutput is used when Options.Output is empty.
const DefaultOutput = "dist/server.js"

// Metadata describes what went into a bundle.
type Metadata struct {
	Entry         string            `json:"entry"`
	Dependencies  map[string]string `json:"dependencies"`
	NativeModules []string          `json:"nativeModules"`
	External      []string          `json:"external"`
}

// Result reports the outcome of one Bundle call. It is created fresh per
// invocation and never mutated after return. Callers check Success rather
// than wrapping Bundle in error handling for the common-failure case.
type Result struct {
	Success    bool          `json:"success"`
	OutputPath string        `json:"outputPath"`
	Size       int64         `json:"size"`
	Duration   time.Duration `json:"durationMs"`
	Format     Format        `json:"format"`
	Metadata   Metadata      `json:"metadata"`
	Warnings   []string      `json:"warnings,omitempty"`
	Errors     []BundleError `json:"errors,omitempty"`
}
