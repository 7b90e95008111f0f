package deps

import (
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
)

// ResolvedDependencies is the final dependency set for a bundle: the merged
// inline+manifest map, the subset classified as native (always external),
// and the raw parse result for diagnostics.
type ResolvedDependencies struct {
	Dependencies  map[string]string
	NativeModules []string
	InlineParse   *ParseResult
	Warnings      []string
}

// Resolver combines inline declarations with the project manifest and
// classifies native modules. The known-native list is injected at
// construction so tests and callers can supply their own without touching
// shared state.
type Resolver struct {
	nativeModules map[string]struct{}
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithNativeModules replaces the default known-native-module list.
func WithNativeModules(names ...string) ResolverOption {
	return func(r *Resolver) {
		r.nativeModules = make(map[string]struct{}, len(names))
		for _, name := range names {
			r.nativeModules[name] = struct{}{}
		}
	}
}

// NewResolver creates a Resolver with the default native-module registry.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.nativeModules == nil {
		r.nativeModules = make(map[string]struct{}, len(defaultNativeModules))
		for _, name := range defaultNativeModules {
			r.nativeModules[name] = struct{}{}
		}
	}
	return r
}

// IsNative reports whether name is on the resolver's native-module list.
func (r *Resolver) IsNative(name string) bool {
	_, ok := r.nativeModules[name]
	return ok
}

// Resolve reads the entry file, parses its inline dependency block, merges
// the result with the manifest at baseDir, and classifies native modules.
//
// Parse and validation failures in the inline block are non-fatal: a
// malformed block must not prevent bundling an otherwise-valid server, but
// every dropped entry surfaces as a warning.
func (r *Resolver) Resolve(entryPath, baseDir string) (*ResolvedDependencies, error) {
	source, err := os.ReadFile(entryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry file %s: %w", entryPath, err)
	}

	parsed := Parse(string(source))
	resolved := &ResolvedDependencies{
		InlineParse: parsed,
	}

	for _, perr := range parsed.Errors {
		resolved.Warnings = append(resolved.Warnings,
			fmt.Sprintf("inline dependencies line %d: %s", perr.LineNumber, perr.Message))
	}
	resolved.Warnings = append(resolved.Warnings, parsed.Warnings...)

	// Drop inline entries that fail validation. Invalid names never make it
	// near a package-manager command line.
	inline := make(map[string]string, len(parsed.Dependencies))
	for name, rng := range parsed.Dependencies {
		if res := ValidatePackageName(name); !res.Valid {
			resolved.Warnings = append(resolved.Warnings,
				fmt.Sprintf("skipping inline dependency %s: %s", name, res.Errors[0]))
			continue
		}
		if res := ValidateVersionRange(rng); !res.Valid {
			resolved.Warnings = append(resolved.Warnings,
				fmt.Sprintf("skipping inline dependency %s: %s", name, res.Errors[0]))
			continue
		}
		inline[name] = rng
	}

	manifest, err := ReadManifest(baseDir)
	if err != nil {
		return nil, err
	}

	merged := Merge(inline, manifest.AllDependencies())
	resolved.Dependencies = merged.Dependencies
	resolved.Warnings = append(resolved.Warnings, merged.Warnings...)

	for name := range resolved.Dependencies {
		if r.IsNative(name) {
			resolved.NativeModules = append(resolved.NativeModules, name)
		}
	}
	sort.Strings(resolved.NativeModules)

	log.Debug().
		Int("dependencies", len(resolved.Dependencies)).
		Int("native", len(resolved.NativeModules)).
		Int("warnings", len(resolved.Warnings)).
		Str("entry", entryPath).
		Msg("Resolved dependencies")

	return resolved, nil
}
