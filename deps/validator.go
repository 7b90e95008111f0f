package deps

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	// maxNameLength mirrors the npm registry limit for package names.
	maxNameLength = 214

	// maxRangeLength bounds a version range string.
	maxRangeLength = 100

	// maxDependencies bounds a single dependency set. Sets beyond this are
	// treated as pathological input.
	maxDependencies = 1000
)

// shellMetaChars must never appear in a package name or version range.
// These values may later be interpolated into a package-manager command
// line, so rejecting them here is a security boundary, not a style check.
const shellMetaChars = ";|&$`()[]{}'\"\\"

var (
	namePattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
	scopePattern = regexp.MustCompile(`^@[a-z0-9][a-z0-9._-]*$`)
)

// ValidationResult reports whether a single name or range is acceptable.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// DependencyValidation aggregates validation over a whole dependency set.
type DependencyValidation struct {
	Valid      bool
	Errors     map[string]string
	Duplicates []string
}

func invalid(format string, args ...any) ValidationResult {
	return ValidationResult{Errors: []string{fmt.Sprintf(format, args...)}}
}

// ValidatePackageName checks an npm package name against format and
// security rules. Scoped names ("@scope/name") are allowed; the scope
// follows the same character rules as the name.
func ValidatePackageName(name string) ValidationResult {
	if name == "" {
		return invalid("package name is empty")
	}
	if len(name) > maxNameLength {
		return invalid("package name exceeds %d characters", maxNameLength)
	}
	if !isASCII(name) {
		return invalid("package name contains non-ASCII characters")
	}
	if idx := strings.IndexAny(name, shellMetaChars); idx >= 0 {
		return invalid("package name contains forbidden shell metacharacter %q (possible injection attempt)", name[idx])
	}

	base := name
	if strings.HasPrefix(name, "@") {
		scope, rest, ok := strings.Cut(name, "/")
		if !ok {
			return invalid("scoped package name %q is missing the name after the scope", name)
		}
		if !scopePattern.MatchString(scope) {
			return invalid("invalid package scope %q", scope)
		}
		base = rest
	}

	if !namePattern.MatchString(base) {
		return invalid("invalid package name %q: only lowercase letters, digits, hyphens, underscores and dots are allowed", name)
	}
	if strings.HasPrefix(base, "-") || strings.HasSuffix(base, "-") {
		return invalid("package name %q must not start or end with a hyphen", name)
	}

	return ValidationResult{Valid: true}
}

// wildcardRanges are version specifiers accepted verbatim.
var wildcardRanges = map[string]bool{
	"*":      true,
	"x":      true,
	"latest": true,
}

// ValidateVersionRange checks that a version range is syntactically
// plausible semver. Security rejections (shell metacharacters) are reported
// with distinct text from plain syntax rejections so the two are
// distinguishable in diagnostics.
func ValidateVersionRange(rng string) ValidationResult {
	if rng == "" {
		return invalid("version range is empty")
	}
	if len(rng) > maxRangeLength {
		return invalid("version range exceeds %d characters", maxRangeLength)
	}
	if !isASCII(rng) {
		return invalid("version range contains non-ASCII characters")
	}
	if idx := strings.IndexAny(rng, shellMetaChars); idx >= 0 {
		return invalid("version range contains forbidden shell metacharacter %q (possible injection attempt)", rng[idx])
	}

	if wildcardRanges[rng] {
		return ValidationResult{Valid: true}
	}

	// Everything else must parse as a semver constraint: exact versions,
	// ^/~ prefixes, comparison operators, partial wildcards like "1.x",
	// and dash ranges like "1.0.0 - 2.0.0".
	if _, err := semver.NewConstraint(rng); err != nil {
		return invalid("invalid version range %q: not a recognized semver range", rng)
	}

	return ValidationResult{Valid: true}
}

// ValidateAll validates every entry of a dependency set. The set as a whole
// fails if any entry fails or if it exceeds the maximum cardinality.
func ValidateAll(dependencies map[string]string) DependencyValidation {
	validation := DependencyValidation{
		Valid:  true,
		Errors: make(map[string]string),
	}

	if len(dependencies) > maxDependencies {
		validation.Valid = false
		validation.Errors[""] = fmt.Sprintf("dependency set has %d entries, exceeding the maximum of %d", len(dependencies), maxDependencies)
		return validation
	}

	for name, rng := range dependencies {
		var problems []string
		if res := ValidatePackageName(name); !res.Valid {
			problems = append(problems, res.Errors...)
		}
		if res := ValidateVersionRange(rng); !res.Valid {
			problems = append(problems, res.Errors...)
		}
		if len(problems) > 0 {
			validation.Valid = false
			validation.Errors[name] = strings.Join(problems, "; ")
		}
	}

	return validation
}

// FindDuplicates returns names that appear more than once in an ordered
// declaration list, in first-seen order.
func FindDuplicates(declared []InlineDependency) []string {
	seen := make(map[string]int, len(declared))
	var dups []string
	for _, dep := range declared {
		seen[dep.Name]++
		if seen[dep.Name] == 2 {
			dups = append(dups, dep.Name)
		}
	}
	return dups
}
