package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	t.Run("manifest wins conflicts", func(t *testing.T) {
		result := Merge(
			map[string]string{"axios": "^1.6.0"},
			map[string]string{"axios": "^1.5.0"},
		)
		assert.Equal(t, map[string]string{"axios": "^1.5.0"}, result.Dependencies)
		assert.Equal(t, []string{"axios"}, result.Conflicts)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "using manifest")
	})

	t.Run("equal ranges are no conflict", func(t *testing.T) {
		result := Merge(
			map[string]string{"axios": "^1.6.0"},
			map[string]string{"axios": "^1.6.0"},
		)
		assert.Empty(t, result.Conflicts)
		assert.Empty(t, result.Warnings)
	})

	t.Run("disjoint keys pass through", func(t *testing.T) {
		result := Merge(
			map[string]string{"zod": "^3.0.0"},
			map[string]string{"axios": "^1.5.0"},
		)
		assert.Equal(t, map[string]string{"zod": "^3.0.0", "axios": "^1.5.0"}, result.Dependencies)
		assert.Empty(t, result.Conflicts)
	})

	t.Run("re-merging a conflict-free result is a no-op", func(t *testing.T) {
		merged := Merge(
			map[string]string{"zod": "^3.0.0"},
			map[string]string{"axios": "^1.5.0"},
		)
		again := Merge(merged.Dependencies, merged.Dependencies)
		assert.Equal(t, merged.Dependencies, again.Dependencies)
		assert.Empty(t, again.Conflicts)
	})

	t.Run("conflicts are sorted", func(t *testing.T) {
		result := Merge(
			map[string]string{"zod": "^3.0.0", "axios": "^1.6.0"},
			map[string]string{"zod": "^2.0.0", "axios": "^1.5.0"},
		)
		assert.Equal(t, []string{"axios", "zod"}, result.Conflicts)
	})
}

func TestFormatList(t *testing.T) {
	deps := map[string]string{
		"zod":         "^3.0.0",
		"axios":       "^1.6.0",
		"@types/node": "^20.0.0",
	}

	t.Run("lines default, sorted", func(t *testing.T) {
		got := FormatList(deps, FormatOptions{})
		assert.Equal(t, "@types/node@^20.0.0\naxios@^1.6.0\nzod@^3.0.0", got)
	})

	t.Run("inline", func(t *testing.T) {
		got := FormatList(deps, FormatOptions{Style: StyleInline})
		assert.Equal(t, "@types/node@^20.0.0, axios@^1.6.0, zod@^3.0.0", got)
	})

	t.Run("json", func(t *testing.T) {
		got := FormatList(deps, FormatOptions{Style: StyleJSON})
		assert.Contains(t, got, `"axios": "^1.6.0"`)
	})

	t.Run("count footer", func(t *testing.T) {
		got := FormatList(deps, FormatOptions{IncludeCount: true})
		assert.Contains(t, got, "3 dependencies")
	})

	t.Run("singular count", func(t *testing.T) {
		got := FormatList(map[string]string{"axios": "^1.6.0"}, FormatOptions{IncludeCount: true})
		assert.Contains(t, got, "1 dependency")
	})
}

func TestGetStats(t *testing.T) {
	stats := GetStats(map[string]string{
		"axios":       "^1.6.0",
		"@types/node": "^20.0.0",
		"@scope/pkg":  "latest",
		"lodash":      "*",
	})
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Scoped)
	assert.Equal(t, 2, stats.Unscoped)
	assert.Equal(t, 1, stats.Types)
	assert.Equal(t, 2, stats.Wildcard)
	assert.Equal(t, 2, stats.Versioned)
}

func TestFilter(t *testing.T) {
	deps := map[string]string{
		"axios":        "^1.6.0",
		"@types/node":  "^20.0.0",
		"@types/react": "^18.0.0",
		"zod":          "^3.0.0",
	}

	t.Run("glob", func(t *testing.T) {
		got, err := Filter(deps, "@types/*")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"@types/node":  "^20.0.0",
			"@types/react": "^18.0.0",
		}, got)
	})

	t.Run("regexp", func(t *testing.T) {
		got, err := Filter(deps, `^(axios|zod)$`)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"axios": "^1.6.0", "zod": "^3.0.0"}, got)
	})

	t.Run("empty pattern matches everything", func(t *testing.T) {
		got, err := Filter(deps, "")
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("bad regexp", func(t *testing.T) {
		_, err := Filter(deps, `[unclosed`)
		assert.Error(t, err)
	})
}

func TestSortedNames(t *testing.T) {
	names := SortedNames(map[string]string{
		"zod":         "^3.0.0",
		"@types/node": "^20.0.0",
		"axios":       "^1.6.0",
	})
	assert.Equal(t, []string{"@types/node", "axios", "zod"}, names)
}
