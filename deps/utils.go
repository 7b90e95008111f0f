package deps

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// MergeResult is the outcome of combining inline declarations with the
// manifest's dependency map.
type MergeResult struct {
	Dependencies map[string]string
	Conflicts    []string
	Warnings     []string
}

// Merge unions inline and manifest dependency maps. When both declare the
// same name with different ranges the manifest wins: it is the reviewed,
// installed contract, while inline declarations are convenience defaults.
// Each such name is recorded in Conflicts with an accompanying warning.
func Merge(inline, manifest map[string]string) *MergeResult {
	result := &MergeResult{
		Dependencies: make(map[string]string, len(inline)+len(manifest)),
	}

	for name, rng := range inline {
		result.Dependencies[name] = rng
	}
	for name, rng := range manifest {
		if inlineRange, ok := inline[name]; ok && inlineRange != rng {
			result.Conflicts = append(result.Conflicts, name)
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"dependency %s: inline range %q conflicts with manifest range %q; using manifest", name, inlineRange, rng))
		}
		result.Dependencies[name] = rng
	}

	sort.Strings(result.Conflicts)
	sort.Strings(result.Warnings)
	return result
}

// FormatStyle selects the rendering used by FormatList.
type FormatStyle string

const (
	StyleLines  FormatStyle = "lines"
	StyleInline FormatStyle = "inline"
	StyleJSON   FormatStyle = "json"
)

// FormatOptions controls FormatList output.
type FormatOptions struct {
	Style        FormatStyle
	IncludeCount bool
}

// FormatList renders a dependency map for display. Output order is always
// ascending by name so repeated calls are byte-identical.
func FormatList(dependencies map[string]string, opts FormatOptions) string {
	names := SortedNames(dependencies)

	var body string
	switch opts.Style {
	case StyleInline:
		pairs := make([]string, 0, len(names))
		for _, name := range names {
			pairs = append(pairs, name+"@"+dependencies[name])
		}
		body = strings.Join(pairs, ", ")
	case StyleJSON:
		// encoding/json sorts map keys, so this is deterministic too.
		data, _ := json.MarshalIndent(dependencies, "", "  ")
		body = string(data)
	default:
		var b strings.Builder
		for _, name := range names {
			b.WriteString(name)
			b.WriteString("@")
			b.WriteString(dependencies[name])
			b.WriteString("\n")
		}
		body = strings.TrimSuffix(b.String(), "\n")
	}

	if opts.IncludeCount {
		suffix := fmt.Sprintf("%d dependencies", len(dependencies))
		if len(dependencies) == 1 {
			suffix = "1 dependency"
		}
		if body == "" {
			return suffix
		}
		return body + "\n" + suffix
	}
	return body
}

// Stats summarizes a dependency set.
type Stats struct {
	Total     int
	Scoped    int
	Unscoped  int
	Types     int
	Wildcard  int
	Versioned int
}

// GetStats counts total, scoped vs unscoped names, @types/* packages, and
// wildcard-versioned entries. Versioned is the complement of Wildcard.
func GetStats(dependencies map[string]string) Stats {
	stats := Stats{Total: len(dependencies)}
	for name, rng := range dependencies {
		if strings.HasPrefix(name, "@") {
			stats.Scoped++
		} else {
			stats.Unscoped++
		}
		if strings.HasPrefix(name, "@types/") {
			stats.Types++
		}
		if wildcardRanges[rng] {
			stats.Wildcard++
		} else {
			stats.Versioned++
		}
	}
	return stats
}

// regexMetaChars are characters that mark a filter pattern as a regular
// expression rather than a glob.
const regexMetaChars = `^$+?()[]{}|\`

// Filter returns the subset of dependencies whose name matches pattern.
// Patterns like "@types/*" are treated as globs; patterns containing
// regular-expression metacharacters are compiled as regexps.
func Filter(dependencies map[string]string, pattern string) (map[string]string, error) {
	match, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	filtered := make(map[string]string)
	for name, rng := range dependencies {
		if match(name) {
			filtered[name] = rng
		}
	}
	return filtered, nil
}

func compilePattern(pattern string) (func(string) bool, error) {
	if pattern == "" {
		return func(string) bool { return true }, nil
	}
	if strings.ContainsAny(pattern, regexMetaChars) {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
		}
		return re.MatchString, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
	}
	return g.Match, nil
}

// SortedNames returns dependency names in ascending lexicographic order.
// Scoped names sort by their full "@scope/name" string. Go maps carry no
// ordering, so sorted traversal goes through this slice.
func SortedNames(dependencies map[string]string) []string {
	names := make([]string, 0, len(dependencies))
	for name := range dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
