package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config file names tried at the project root, in order.
var configCandidates = []string{"simplymcp.config.json", "simplymcp.config.yaml"}

// FileConfig is the optional on-disk project configuration. Fields mirror
// Options minus the per-invocation callbacks. Unknown fields in the file are
// ignored; structurally invalid values are a ConfigError, never silently
// dropped.
type FileConfig struct {
	Entry     string   `json:"entry" yaml:"entry"`
	Output    string   `json:"output" yaml:"output"`
	Format    string   `json:"format" yaml:"format" validate:"omitempty,oneof=single-file esm cjs standalone"`
	Minify    *bool    `json:"minify" yaml:"minify"`
	SourceMap string   `json:"sourcemap" yaml:"sourcemap" validate:"omitempty,oneof=none inline external both"`
	External  []string `json:"external" yaml:"external"`
}

var validate = validator.New()

// LoadConfig reads the project configuration. An explicit path must exist
// and parse; otherwise the default filenames are tried at baseDir. Absence
// of any config is not an error: (nil, nil) is returned.
func LoadConfig(explicitPath, baseDir string) (*FileConfig, error) {
	if baseDir == "" {
		baseDir = "."
	}

	if explicitPath != "" {
		if !filepath.IsAbs(explicitPath) {
			explicitPath = filepath.Join(baseDir, explicitPath)
		}
		data, err := os.ReadFile(explicitPath)
		if err != nil {
			return nil, &ConfigError{Path: explicitPath, Err: err}
		}
		return parseConfig(explicitPath, data)
	}

	for _, name := range configCandidates {
		path := filepath.Join(baseDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, &ConfigError{Path: path, Err: err}
		}
		return parseConfig(path, data)
	}

	return nil, nil
}

func parseConfig(path string, data []byte) (*FileConfig, error) {
	var cfg FileConfig
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	if err := validate.Struct(&cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			return nil, &ConfigError{Path: path, Err: fmt.Errorf("field %q has an unrecognized value", field)}
		}
		return nil, &ConfigError{Path: path, Err: err}
	}

	log.Debug().Str("path", path).Msg("Loaded project config")
	return &cfg, nil
}

// MergeConfig fills unset Options fields from the config file. Config files
// express project defaults, not mandates: any field already set on opts is
// left alone. Callers that need to force a zero value (e.g. an explicit
// --minify=false over a config "minify: true") re-apply it after merging.
func MergeConfig(cfg *FileConfig, opts Options) Options {
	if cfg == nil {
		return opts
	}
	if opts.Entry == "" {
		opts.Entry = cfg.Entry
	}
	if opts.Output == "" {
		opts.Output = cfg.Output
	}
	if opts.Format == "" {
		opts.Format = Format(cfg.Format)
	}
	if !opts.Minify && cfg.Minify != nil {
		opts.Minify = *cfg.Minify
	}
	if opts.SourceMap == "" {
		opts.SourceMap = SourceMapMode(cfg.SourceMap)
	}
	if len(opts.External) == 0 {
		opts.External = append([]string(nil), cfg.External...)
	}
	return opts
}
