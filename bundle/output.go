package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/simplymcp/simplymcp/deps"
)

const standaloneEntryName = "server.js"

// generatedManifest is the package.json written into a standalone output
// directory. Dependencies hold only the native modules: everything else is
// already inlined into the bundle, so only externals need installation at
// runtime.
type generatedManifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Main         string            `json:"main"`
	Type         string            `json:"type,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

// writeOutput packages the engine artifact into the requested shape and
// returns the primary output path plus total bytes written.
func writeOutput(artifact *engineResult, entry *EntryPoint, opts Options, resolved *deps.ResolvedDependencies, manifest *deps.Manifest) (string, int64, error) {
	if opts.Format == FormatStandalone {
		return writeStandalone(artifact, entry, opts, resolved, manifest)
	}
	return writeSingleFile(artifact, opts.Output, opts.SourceMap)
}

// writeSingleFile writes the bundle (and, for external/both source-map
// modes, its .map sibling) at outputPath, creating parent directories.
func writeSingleFile(artifact *engineResult, outputPath string, sourceMap SourceMapMode) (string, int64, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outputPath, artifact.Code, 0o644); err != nil {
		return "", 0, fmt.Errorf("failed to write bundle: %w", err)
	}
	size := int64(len(artifact.Code))

	if len(artifact.SourceMap) > 0 && (sourceMap == SourceMapExternal || sourceMap == SourceMapBoth) {
		mapPath := outputPath + ".map"
		if err := os.WriteFile(mapPath, artifact.SourceMap, 0o644); err != nil {
			return "", 0, fmt.Errorf("failed to write source map: %w", err)
		}
		size += int64(len(artifact.SourceMap))
	}

	return outputPath, size, nil
}

// writeStandalone creates an output directory holding the bundled entry and
// a generated manifest restricted to native-module dependencies.
func writeStandalone(artifact *engineResult, entry *EntryPoint, opts Options, resolved *deps.ResolvedDependencies, manifest *deps.Manifest) (string, int64, error) {
	dir := opts.Output
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	entryPath := filepath.Join(dir, standaloneEntryName)
	_, size, err := writeSingleFile(artifact, entryPath, opts.SourceMap)
	if err != nil {
		return "", 0, err
	}

	gen := generatedManifest{
		Name:         "mcp-server",
		Version:      "1.0.0",
		Main:         standaloneEntryName,
		Dependencies: make(map[string]string),
	}
	if manifest != nil {
		if manifest.Name != "" {
			gen.Name = manifest.Name
		}
		if manifest.Version != "" {
			gen.Version = manifest.Version
		}
	}
	if entry.ModuleType == ModuleESM {
		gen.Type = "module"
	}
	for _, name := range resolved.NativeModules {
		if rng, ok := resolved.Dependencies[name]; ok {
			gen.Dependencies[name] = rng
		}
	}

	data, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal generated manifest: %w", err)
	}
	data = append(data, '\n')

	manifestPath := filepath.Join(dir, deps.ManifestFile)
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("failed to write generated manifest: %w", err)
	}
	size += int64(len(data))

	return dir, size, nil
}
