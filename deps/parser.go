// Package deps provides parsing, validation, and resolution of the inline
// dependency declarations that SimplyMCP servers embed in their source files.
// Declarations live in a comment-fenced block:
//
//	// /// dependencies
//	// axios@^1.6.0
//	// @types/node@^20.0.0
//	// ///
//
// Parsing is best-effort: malformed lines are recorded as errors and skipped
// rather than aborting the whole block.
package deps

import (
	"strconv"
	"strings"
)

// maxLineLength bounds a single line inside the dependency fence. Longer
// lines are rejected as malformed input rather than parsed.
const maxLineLength = 1000

const fenceEnd = "///"

// InlineDependency is a single declared package. Name and VersionRange are
// unvalidated at this point; validity is a validator concern.
type InlineDependency struct {
	Name         string
	VersionRange string
	RawLine      string
}

// ParseError describes a malformed line or fence anomaly, carrying enough
// context to show the offending source line to the user.
type ParseError struct {
	LineNumber int
	Message    string
	RawLine    string
}

// ParseResult is the outcome of scanning one source file for a dependency
// block. Dependencies keys are unique; a duplicate name is an error, not a
// silent overwrite.
type ParseResult struct {
	Dependencies  map[string]string
	Errors        []ParseError
	Warnings      []string
	RawBlockLines []string
}

// Parse scans source line-by-line for a fenced dependency block and extracts
// name/versionRange pairs. Only the first block is honored. A second opener
// before the first closes, or a block that never closes, is recorded as a
// ParseError; whatever parsed before the anomaly is kept.
func Parse(source string) *ParseResult {
	result := &ParseResult{
		Dependencies: make(map[string]string),
	}

	// Normalize Windows and bare-CR line endings so offsets are stable.
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")

	inBlock := false
	blockClosed := false
	var openLine int

	for i, line := range strings.Split(source, "\n") {
		lineNo := i + 1
		content, isComment := stripCommentMarker(line)
		if !isComment {
			// Bare text is not part of the protocol, inside or outside
			// the fence.
			continue
		}

		switch {
		case isFenceStart(content):
			if inBlock {
				result.Errors = append(result.Errors, ParseError{
					LineNumber: lineNo,
					Message:    "nested dependency block: previous block opened at line " + strconv.Itoa(openLine) + " was never closed",
					RawLine:    line,
				})
				return result
			}
			if blockClosed {
				result.Warnings = append(result.Warnings,
					"ignoring additional dependency block at line "+strconv.Itoa(lineNo)+"; only the first block is honored")
				continue
			}
			inBlock = true
			openLine = lineNo

		case content == fenceEnd:
			if !inBlock {
				continue
			}
			inBlock = false
			blockClosed = true
			if len(result.RawBlockLines) == 0 {
				result.Warnings = append(result.Warnings, "dependency block is empty")
			}

		case inBlock && !blockClosed:
			parseBlockLine(result, line, content, lineNo)
		}
	}

	if inBlock {
		result.Errors = append(result.Errors, ParseError{
			LineNumber: openLine,
			Message:    "dependency block opened but never closed",
			RawLine:    "",
		})
	}

	return result
}

// parseBlockLine handles a single comment line inside the fence.
func parseBlockLine(result *ParseResult, rawLine, content string, lineNo int) {
	if content == "" {
		return
	}
	// A line that is solely an inline comment carries no declaration.
	if strings.HasPrefix(content, "#") || strings.HasPrefix(content, "//") {
		return
	}

	result.RawBlockLines = append(result.RawBlockLines, content)

	if len(rawLine) > maxLineLength {
		result.Errors = append(result.Errors, ParseError{
			LineNumber: lineNo,
			Message:    "line exceeds maximum length of " + strconv.Itoa(maxLineLength) + " characters",
			RawLine:    truncate(rawLine, 80),
		})
		return
	}

	if !isASCII(content) {
		result.Errors = append(result.Errors, ParseError{
			LineNumber: lineNo,
			Message:    "non-ASCII characters are not allowed in dependency declarations",
			RawLine:    rawLine,
		})
		return
	}

	// Cut a trailing inline comment ("axios@^1.6.0  # http client").
	content = cutTrailingComment(content)
	if content == "" {
		return
	}

	dep, ok := splitNameRange(content)
	if !ok {
		result.Errors = append(result.Errors, ParseError{
			LineNumber: lineNo,
			Message:    "invalid dependency format, expected name@versionRange",
			RawLine:    rawLine,
		})
		return
	}

	if _, exists := result.Dependencies[dep.Name]; exists {
		result.Errors = append(result.Errors, ParseError{
			LineNumber: lineNo,
			Message:    "duplicate dependency " + dep.Name,
			RawLine:    rawLine,
		})
		return
	}

	result.Dependencies[dep.Name] = dep.VersionRange
}

// splitNameRange splits "name@range" on the last '@' so that scoped names
// ("@scope/name@^1.0.0") keep their scope marker intact.
func splitNameRange(s string) (InlineDependency, bool) {
	idx := strings.LastIndex(s, "@")
	// idx 0 means the only '@' is the scope marker; there is no range.
	if idx <= 0 {
		return InlineDependency{}, false
	}
	name := strings.TrimSpace(s[:idx])
	rng := strings.TrimSpace(s[idx+1:])
	if name == "" || rng == "" {
		return InlineDependency{}, false
	}
	return InlineDependency{Name: name, VersionRange: rng, RawLine: s}, true
}

// stripCommentMarker removes one leading "//" or "#" marker plus surrounding
// whitespace. The second return is false for lines that are not comments.
func stripCommentMarker(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "//"):
		return strings.TrimSpace(trimmed[2:]), true
	case strings.HasPrefix(trimmed, "#"):
		return strings.TrimSpace(trimmed[1:]), true
	default:
		return "", false
	}
}

func isFenceStart(content string) bool {
	if !strings.HasPrefix(content, "///") {
		return false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(content, "///"))
	return rest == "dependencies"
}

func cutTrailingComment(s string) string {
	for _, marker := range []string{" #", "\t#", " //", "\t//"} {
		if idx := strings.Index(s, marker); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
