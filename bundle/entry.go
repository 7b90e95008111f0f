package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/simplymcp/simplymcp/deps"
)

// ModuleType is the module system of the entry file, surfaced for format
// decisions downstream.
type ModuleType string

const (
	ModuleESM ModuleType = "esm"
	ModuleCJS ModuleType = "cjs"
)

// EntryPoint is a resolved and validated server entry file.
type EntryPoint struct {
	Path       string
	ModuleType ModuleType
}

// entryCandidates are tried in order when neither an explicit path nor a
// manifest "main" field identifies the entry.
var entryCandidates = []string{"server.ts", "server.js", "index.ts", "index.js"}

// serverPattern matches source that imports or constructs a SimplyMCP
// server. The check is textual, not a program execution; it exists to stop
// an unrelated script from being bundled silently.
var serverPattern = regexp.MustCompile(
	`(?m)new\s+SimplyMCP\s*\(|SimplyMCP\.create\s*\(|createServer\s*\(|(?:from\s+|require\s*\(\s*)['"]simply-mcp['"]`)

// DetectEntry locates the server's main source file. Resolution order:
// explicit path, manifest "main" field, then convention filenames. The
// chosen file must pass the server-construction check. Returns
// *EntryNotFoundError when nothing resolves.
func DetectEntry(explicit, baseDir string) (*EntryPoint, error) {
	if baseDir == "" {
		baseDir = "."
	}

	manifest, err := deps.ReadManifest(baseDir)
	if err != nil {
		return nil, err
	}

	if explicit != "" {
		path := explicit
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		return validateEntry(path, manifest)
	}

	var tried []string
	if manifest != nil && manifest.Main != "" {
		path := filepath.Join(baseDir, manifest.Main)
		if fileExists(path) {
			return validateEntry(path, manifest)
		}
		tried = append(tried, manifest.Main)
	}

	for _, candidate := range entryCandidates {
		path := filepath.Join(baseDir, candidate)
		tried = append(tried, candidate)
		if !fileExists(path) {
			continue
		}
		entry, err := validateEntry(path, manifest)
		if err != nil {
			// A convention file that is not a server is skipped, not
			// fatal; the next candidate may be the real entry.
			log.Debug().Str("candidate", path).Err(err).Msg("Skipping entry candidate")
			continue
		}
		return entry, nil
	}

	return nil, &EntryNotFoundError{BaseDir: baseDir, Tried: tried}
}

// validateEntry checks the file exists, looks like a server, and determines
// its module type.
func validateEntry(path string, manifest *deps.Manifest) (*EntryPoint, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &EntryNotFoundError{BaseDir: filepath.Dir(path), Tried: []string{filepath.Base(path)}}
		}
		return nil, fmt.Errorf("failed to read entry file %s: %w", path, err)
	}

	if !serverPattern.Match(source) {
		return nil, fmt.Errorf(
			"%s does not construct a server instance (expected a SimplyMCP import or createServer call); refusing to bundle an unrelated script", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entry path %s: %w", path, err)
	}

	entry := &EntryPoint{
		Path:       abs,
		ModuleType: detectModuleType(path, manifest),
	}

	log.Debug().Str("entry", abs).Str("module_type", string(entry.ModuleType)).Msg("Detected entry point")
	return entry, nil
}

// detectModuleType decides ESM vs CJS from the file extension and the
// manifest "type" field. Explicit extensions win; .js/.ts follow the
// manifest; the historical Node default is CommonJS.
func detectModuleType(path string, manifest *deps.Manifest) ModuleType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mjs", ".mts":
		return ModuleESM
	case ".cjs", ".cts":
		return ModuleCJS
	}
	if manifest != nil && manifest.Type == "module" {
		return ModuleESM
	}
	return ModuleCJS
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
