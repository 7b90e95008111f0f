package bundle

import (
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"
)

// engineResult is the raw artifact produced by the bundler engine before the
// output formatter packages it.
type engineResult struct {
	Code      []byte
	SourceMap []byte
	Warnings  []string
	Errors    []BundleError
}

// runEngine drives esbuild over the detected entry. The artifact stays in
// memory (Write=false); packaging to disk is the output formatter's job.
// externals is the full exclusion list, caller externals plus native
// modules.
func runEngine(entry *EntryPoint, opts Options, externals []string) *engineResult {
	buildOpts := api.BuildOptions{
		EntryPoints:       []string{entry.Path},
		Bundle:            true,
		Write:             false,
		Outfile:           "bundle.js",
		Platform:          api.PlatformNode,
		Target:            api.ESNext,
		Format:            engineFormat(opts.Format, entry.ModuleType),
		Sourcemap:         engineSourceMap(opts.SourceMap),
		MinifyWhitespace:  opts.Minify,
		MinifyIdentifiers: opts.Minify,
		MinifySyntax:      opts.Minify,
		External:          externals,
		LogLevel:          api.LogLevelSilent,
	}

	log.Debug().
		Str("entry", entry.Path).
		Str("format", string(opts.Format)).
		Bool("minify", opts.Minify).
		Strs("external", externals).
		Msg("Invoking esbuild")

	buildResult := api.Build(buildOpts)

	result := &engineResult{}
	for _, msg := range buildResult.Warnings {
		result.Warnings = append(result.Warnings, formatMessage(msg))
	}
	for _, msg := range buildResult.Errors {
		berr := BundleError{Stage: StageBundling, Message: msg.Text}
		if msg.Location != nil {
			berr.File = msg.Location.File
			berr.Line = msg.Location.Line
		}
		result.Errors = append(result.Errors, berr)
	}
	if len(result.Errors) > 0 {
		return result
	}

	for _, file := range buildResult.OutputFiles {
		if strings.HasSuffix(file.Path, ".map") {
			result.SourceMap = file.Contents
		} else {
			result.Code = file.Contents
		}
	}

	return result
}

// engineFormat maps the requested output shape onto an esbuild module
// format. single-file and standalone follow the entry's own module system;
// esm and cjs force theirs.
func engineFormat(format Format, moduleType ModuleType) api.Format {
	switch format {
	case FormatESM:
		return api.FormatESModule
	case FormatCJS:
		return api.FormatCommonJS
	default:
		if moduleType == ModuleESM {
			return api.FormatESModule
		}
		return api.FormatCommonJS
	}
}

func engineSourceMap(mode SourceMapMode) api.SourceMap {
	switch mode {
	case SourceMapInline:
		return api.SourceMapInline
	case SourceMapExternal:
		return api.SourceMapExternal
	case SourceMapBoth:
		return api.SourceMapInlineAndExternal
	default:
		return api.SourceMapNone
	}
}

func formatMessage(msg api.Message) string {
	if msg.Location != nil {
		return msg.Location.File + ": " + msg.Text
	}
	return msg.Text
}
