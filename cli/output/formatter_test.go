package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatTable},
		{in: "table", want: FormatTable},
		{in: "json", want: FormatJSON},
		{in: "JSON", want: FormatJSON},
		{in: "yaml", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestPrint(t *testing.T) {
	data := map[string]string{"axios": "^1.6.0"}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		f := &Formatter{Format: FormatJSON, Writer: &buf}
		require.NoError(t, f.Print(data))
		assert.Contains(t, buf.String(), `"axios": "^1.6.0"`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		f := &Formatter{Format: FormatYAML, Writer: &buf}
		require.NoError(t, f.Print(data))
		assert.Contains(t, buf.String(), "axios: ^1.6.0")
	})

	t.Run("quiet suppresses output", func(t *testing.T) {
		var buf bytes.Buffer
		f := &Formatter{Format: FormatJSON, Quiet: true, Writer: &buf}
		require.NoError(t, f.Print(data))
		assert.Empty(t, buf.String())
	})
}

func TestTable(t *testing.T) {
	t.Run("renders headers and rows", func(t *testing.T) {
		var buf bytes.Buffer
		f := &Formatter{Format: FormatTable, Writer: &buf}
		f.Table([]string{"NAME", "VERSION"}, [][]string{{"axios", "^1.6.0"}})

		out := buf.String()
		assert.Contains(t, out, "NAME")
		assert.Contains(t, out, "axios")
	})

	t.Run("no headers", func(t *testing.T) {
		var buf bytes.Buffer
		f := &Formatter{Format: FormatTable, NoHeaders: true, Writer: &buf}
		f.Table([]string{"NAME", "VERSION"}, [][]string{{"axios", "^1.6.0"}})

		assert.NotContains(t, buf.String(), "NAME")
	})
}
