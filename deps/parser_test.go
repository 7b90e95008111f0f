package deps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleSource = `// /// dependencies
// axios@^1.6.0
// @types/node@^20.0.0
// ///
export const server = createServer({ name: "test" });
`

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		source       string
		wantDeps     map[string]string
		wantErrors   int
		wantWarnings int
	}{
		{
			name:   "simple block",
			source: simpleSource,
			wantDeps: map[string]string{
				"axios":       "^1.6.0",
				"@types/node": "^20.0.0",
			},
		},
		{
			name:     "hash comment markers",
			source:   "# /// dependencies\n# lodash@^4.17.21\n# ///\n",
			wantDeps: map[string]string{"lodash": "^4.17.21"},
		},
		{
			name:         "empty block is a warning not an error",
			source:       "// /// dependencies\n// ///\n",
			wantDeps:     map[string]string{},
			wantWarnings: 1,
		},
		{
			name:       "no block at all",
			source:     "const x = 1;\n",
			wantDeps:   map[string]string{},
			wantErrors: 0,
		},
		{
			name:       "malformed line is skipped, rest kept",
			source:     "// /// dependencies\n// not-a-dependency\n// axios@^1.6.0\n// ///\n",
			wantDeps:   map[string]string{"axios": "^1.6.0"},
			wantErrors: 1,
		},
		{
			name:       "duplicate keeps first occurrence",
			source:     "// /// dependencies\n// axios@^1.6.0\n// axios@^1.7.0\n// ///\n",
			wantDeps:   map[string]string{"axios": "^1.6.0"},
			wantErrors: 1,
		},
		{
			name:       "unclosed block",
			source:     "// /// dependencies\n// axios@^1.6.0\n",
			wantDeps:   map[string]string{"axios": "^1.6.0"},
			wantErrors: 1,
		},
		{
			name:       "second opener before close",
			source:     "// /// dependencies\n// axios@^1.6.0\n// /// dependencies\n// zod@^3.0.0\n// ///\n",
			wantDeps:   map[string]string{"axios": "^1.6.0"},
			wantErrors: 1,
		},
		{
			name:         "second block after close is ignored with warning",
			source:       "// /// dependencies\n// axios@^1.6.0\n// ///\n// /// dependencies\n// zod@^3.0.0\n// ///\n",
			wantDeps:     map[string]string{"axios": "^1.6.0"},
			wantWarnings: 1,
		},
		{
			name:     "bare text inside fence is not part of the protocol",
			source:   "// /// dependencies\naxios@^1.5.0\n// zod@^3.0.0\n// ///\n",
			wantDeps: map[string]string{"zod": "^3.0.0"},
		},
		{
			name:     "trailing inline comment is cut",
			source:   "// /// dependencies\n// axios@^1.6.0  # http client\n// ///\n",
			wantDeps: map[string]string{"axios": "^1.6.0"},
		},
		{
			name:     "comment-only line inside block is ignored",
			source:   "// /// dependencies\n// # just a note\n// axios@^1.6.0\n// ///\n",
			wantDeps: map[string]string{"axios": "^1.6.0"},
		},
		{
			name:       "non-ASCII line rejected",
			source:     "// /// dependencies\n// café@^1.0.0\n// ///\n",
			wantDeps:   map[string]string{},
			wantErrors: 1,
		},
		{
			name:       "missing version range",
			source:     "// /// dependencies\n// axios\n// ///\n",
			wantDeps:   map[string]string{},
			wantErrors: 1,
		},
		{
			name:       "scoped name without range",
			source:     "// /// dependencies\n// @types/node\n// ///\n",
			wantDeps:   map[string]string{},
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.source)
			assert.Equal(t, tt.wantDeps, result.Dependencies)
			assert.Len(t, result.Errors, tt.wantErrors)
			assert.Len(t, result.Warnings, tt.wantWarnings)
		})
	}
}

func TestParseScopedSplitsOnLastAt(t *testing.T) {
	result := Parse("// /// dependencies\n// @scope/name@^1.0.0\n// ///\n")
	require.Empty(t, result.Errors)
	assert.Equal(t, map[string]string{"@scope/name": "^1.0.0"}, result.Dependencies)
}

func TestParseLineEndings(t *testing.T) {
	unix := "// /// dependencies\n// axios@^1.6.0\n// ///\n"
	windows := strings.ReplaceAll(unix, "\n", "\r\n")
	mixed := "// /// dependencies\r\n// axios@^1.6.0\n// ///\r\n"

	want := Parse(unix)
	assert.Equal(t, want.Dependencies, Parse(windows).Dependencies)
	assert.Equal(t, want.Dependencies, Parse(mixed).Dependencies)
	assert.Equal(t, want.Errors, Parse(windows).Errors)
}

func TestParseIdempotent(t *testing.T) {
	first := Parse(simpleSource)
	second := Parse(simpleSource)
	assert.Equal(t, first, second)
}

func TestParseOverlongLine(t *testing.T) {
	line := "// axios@^1.6.0" + strings.Repeat(" ", maxLineLength)
	result := Parse("// /// dependencies\n" + line + "\n// ///\n")
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "maximum length")
	assert.Empty(t, result.Dependencies)
}

func TestParseErrorCarriesContext(t *testing.T) {
	result := Parse("// /// dependencies\n// broken line here\n// ///\n")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].LineNumber)
	assert.Contains(t, result.Errors[0].RawLine, "broken line here")
}
