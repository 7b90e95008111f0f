package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/simplymcp/simplymcp/bundle"
)

var (
	bundleOutput    string
	bundleFormat    string
	bundleMinify    bool
	bundleSourceMap string
	bundleExternal  []string
	bundleConfig    string
	bundleBaseDir   string
)

var bundleCmd = &cobra.Command{
	Use:   "bundle [entry]",
	Short: "Bundle an MCP server into a deployable artifact",
	Long: `Bundle an MCP server and its dependencies into a deployable artifact.

The entry file may declare dependencies in a comment fence:

  // /// dependencies
  // axios@^1.6.0
  // ///

Native modules (compiled addons) are always kept external to the bundle.

Examples:
  simplymcp bundle ./server.ts
  simplymcp bundle ./server.ts --output dist/server.js --minify
  simplymcp bundle --format standalone --output dist/
  simplymcp bundle ./server.ts --external axios --sourcemap external`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBundle,
}

func init() {
	bundleCmd.Flags().StringVar(&bundleOutput, "output", "", "output file or directory (default dist/server.js)")
	bundleCmd.Flags().StringVar(&bundleFormat, "format", "", "output format: single-file, esm, cjs, standalone")
	bundleCmd.Flags().BoolVar(&bundleMinify, "minify", false, "minify the bundled output")
	bundleCmd.Flags().StringVar(&bundleSourceMap, "sourcemap", "", "source map mode: none, inline, external, both")
	bundleCmd.Flags().StringSliceVar(&bundleExternal, "external", nil, "packages to keep external to the bundle")
	bundleCmd.Flags().StringVar(&bundleConfig, "config", "", "config file (default simplymcp.config.json|yaml)")
	bundleCmd.Flags().StringVar(&bundleBaseDir, "base-dir", "", "project root (default current directory)")
}

func runBundle(cmd *cobra.Command, args []string) error {
	baseDir := bundleBaseDir
	if baseDir == "" {
		baseDir = viper.GetString("base_dir")
	}

	opts := bundle.Options{
		Output:    bundleOutput,
		BaseDir:   baseDir,
		Format:    bundle.Format(bundleFormat),
		Minify:    bundleMinify,
		SourceMap: bundle.SourceMapMode(bundleSourceMap),
		External:  bundleExternal,
	}
	if len(args) > 0 {
		opts.Entry = args[0]
	}

	cfg, err := bundle.LoadConfig(bundleConfig, baseDir)
	if err != nil {
		return err
	}
	opts = bundle.MergeConfig(cfg, opts)

	// An explicit --minify=false outranks a config "minify: true".
	if cmd.Flags().Changed("minify") {
		opts.Minify = bundleMinify
	}

	if !quiet {
		opts.OnProgress = func(stage bundle.Stage) {
			fmt.Printf("  %s...\n", stage)
		}
	}

	result, err := bundle.Bundle(cmd.Context(), opts)
	if err != nil {
		return err
	}

	warn := color.New(color.FgYellow)
	for _, w := range result.Warnings {
		warn.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	if !result.Success {
		for _, berr := range result.Errors {
			color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "error: %s\n", berr.Error())
		}
		return fmt.Errorf("bundle failed with %d error(s)", len(result.Errors))
	}

	if !quiet {
		color.New(color.FgGreen).Printf("✓ Bundled %s\n", result.OutputPath)
		fmt.Printf("  format:       %s\n", result.Format)
		fmt.Printf("  size:         %s\n", humanize.Bytes(uint64(result.Size)))
		fmt.Printf("  duration:     %s\n", result.Duration.Round(time.Millisecond))
		fmt.Printf("  dependencies: %d (%d native)\n",
			len(result.Metadata.Dependencies), len(result.Metadata.NativeModules))
	}
	return nil
}
