package bundle

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("absent config is nil, not an error", func(t *testing.T) {
		cfg, err := LoadConfig("", t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("json candidate", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "simplymcp.config.json", `{
			"entry": "src/server.ts",
			"format": "esm",
			"minify": true,
			"external": ["fsevents"]
		}`)

		cfg, err := LoadConfig("", dir)
		require.NoError(t, err)
		assert.Equal(t, "src/server.ts", cfg.Entry)
		assert.Equal(t, "esm", cfg.Format)
		require.NotNil(t, cfg.Minify)
		assert.True(t, *cfg.Minify)
		assert.Equal(t, []string{"fsevents"}, cfg.External)
	})

	t.Run("yaml candidate", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "simplymcp.config.yaml", "output: dist/app.js\nsourcemap: external\n")

		cfg, err := LoadConfig("", dir)
		require.NoError(t, err)
		assert.Equal(t, "dist/app.js", cfg.Output)
		assert.Equal(t, "external", cfg.SourceMap)
	})

	t.Run("json outranks yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "simplymcp.config.json", `{"output": "from-json.js"}`)
		writeFile(t, dir, "simplymcp.config.yaml", "output: from-yaml.js\n")

		cfg, err := LoadConfig("", dir)
		require.NoError(t, err)
		assert.Equal(t, "from-json.js", cfg.Output)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		dir := t.TempDir()

		_, err := LoadConfig("custom.config.json", dir)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, filepath.Join(dir, "custom.config.json"), cfgErr.Path)
	})

	t.Run("malformed json", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "simplymcp.config.json", `{"entry": `)

		_, err := LoadConfig("", dir)
		var cfgErr *ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("unrecognized enum value", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "simplymcp.config.json", `{"format": "tarball"}`)

		_, err := LoadConfig("", dir)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Error(), `field "format"`)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "simplymcp.config.json", `{"entry": "server.ts", "futureOption": 42}`)

		cfg, err := LoadConfig("", dir)
		require.NoError(t, err)
		assert.Equal(t, "server.ts", cfg.Entry)
	})
}

func TestMergeConfig(t *testing.T) {
	truth := true

	t.Run("nil config is identity", func(t *testing.T) {
		opts := Options{Entry: "a.ts"}
		assert.Equal(t, opts, MergeConfig(nil, opts))
	})

	t.Run("fills only unset fields", func(t *testing.T) {
		cfg := &FileConfig{
			Entry:     "cfg.ts",
			Output:    "cfg-out.js",
			Format:    "esm",
			Minify:    &truth,
			SourceMap: "inline",
			External:  []string{"sharp"},
		}
		opts := MergeConfig(cfg, Options{Entry: "cli.ts"})

		assert.Equal(t, "cli.ts", opts.Entry, "caller value wins")
		assert.Equal(t, "cfg-out.js", opts.Output)
		assert.Equal(t, FormatESM, opts.Format)
		assert.True(t, opts.Minify)
		assert.Equal(t, SourceMapInline, opts.SourceMap)
		assert.Equal(t, []string{"sharp"}, opts.External)
	})

	t.Run("caller externals win wholesale", func(t *testing.T) {
		cfg := &FileConfig{External: []string{"sharp"}}
		opts := MergeConfig(cfg, Options{External: []string{"canvas"}})
		assert.Equal(t, []string{"canvas"}, opts.External)
	})
}
