package bundle

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/simplymcp/simplymcp/deps"
)

// Bundle runs the full pipeline: detect entry, resolve dependencies, invoke
// the bundler engine, and package the output. Stages run strictly in
// sequence; OnProgress fires as each stage starts.
//
// Only an unresolvable entry point (or invalid base configuration) is
// returned as an error; there is nothing to bundle. Every later failure is
// captured into Result.Errors with Success=false: bundling failures are
// data, not control flow, from the caller's perspective. Non-fatal issues
// (parse warnings, merge conflicts, engine warnings) accumulate in
// Result.Warnings without affecting Success.
//
// Each call re-reads the entry and manifest from scratch; nothing is cached
// between calls, and concurrent calls are safe as long as they target
// distinct output paths. Cancellation is honored only before the pipeline
// starts; a running stage is never interrupted.
func Bundle(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}
	if opts.Format == "" {
		opts.Format = FormatSingleFile
	}
	if opts.SourceMap == "" {
		opts.SourceMap = SourceMapNone
	}
	if opts.Output == "" {
		if opts.Format == FormatStandalone {
			opts.Output = "dist"
		} else {
			opts.Output = DefaultOutput
		}
	}

	result := &Result{Format: opts.Format}

	progress(opts, StageDetectingEntry)
	entry, err := DetectEntry(opts.Entry, opts.BaseDir)
	if err != nil {
		if opts.OnError != nil {
			opts.OnError(err)
		}
		return nil, err
	}
	result.Metadata.Entry = entry.Path

	progress(opts, StageResolvingDependencies)
	resolverOpts := []deps.ResolverOption{}
	if len(opts.NativeModules) > 0 {
		resolverOpts = append(resolverOpts, deps.WithNativeModules(opts.NativeModules...))
	}
	resolved, err := deps.NewResolver(resolverOpts...).Resolve(entry.Path, opts.BaseDir)
	if err != nil {
		return fail(result, opts, start, BundleError{Stage: StageResolvingDependencies, Message: err.Error()}), nil
	}
	result.Warnings = append(result.Warnings, resolved.Warnings...)

	externals := mergeExternals(opts.External, resolved.NativeModules)
	result.Metadata.Dependencies = resolved.Dependencies
	result.Metadata.NativeModules = resolved.NativeModules
	result.Metadata.External = externals

	progress(opts, StageBundling)
	artifact := runEngine(entry, opts, externals)
	result.Warnings = append(result.Warnings, artifact.Warnings...)
	if len(artifact.Errors) > 0 {
		return fail(result, opts, start, artifact.Errors...), nil
	}

	progress(opts, StageFormattingOutput)
	manifest, err := deps.ReadManifest(opts.BaseDir)
	if err != nil {
		return fail(result, opts, start, BundleError{Stage: StageFormattingOutput, Message: err.Error()}), nil
	}
	outputPath, size, err := writeOutput(artifact, entry, opts, resolved, manifest)
	if err != nil {
		return fail(result, opts, start, BundleError{Stage: StageFormattingOutput, Message: err.Error()}), nil
	}

	result.Success = true
	result.OutputPath = outputPath
	result.Size = size
	result.Duration = time.Since(start)

	log.Debug().
		Str("output", outputPath).
		Int64("size", size).
		Dur("duration", result.Duration).
		Msg("Bundle complete")

	return result, nil
}

func progress(opts Options, stage Stage) {
	log.Debug().Str("stage", string(stage)).Msg("Pipeline stage")
	if opts.OnProgress != nil {
		opts.OnProgress(stage)
	}
}

// fail records captured errors, notifies OnError, and finalizes the result
// with Success=false.
func fail(result *Result, opts Options, start time.Time, errs ...BundleError) *Result {
	for _, berr := range errs {
		result.Errors = append(result.Errors, berr)
		if opts.OnError != nil {
			opts.OnError(berr)
		}
		log.Error().Str("stage", string(berr.Stage)).Msg(berr.Message)
	}
	result.Success = false
	result.Duration = time.Since(start)
	return result
}

// mergeExternals unions the caller's external list with the native modules,
// which are external unconditionally.
func mergeExternals(external, native []string) []string {
	seen := make(map[string]struct{}, len(external)+len(native))
	var merged []string
	for _, name := range append(append([]string(nil), external...), native...) {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		merged = append(merged, name)
	}
	sort.Strings(merged)
	return merged
}
