// Package cmd provides the Cobra commands for the SimplyMCP CLI.
package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/simplymcp/simplymcp/cli/output"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"

	// Global flags
	outputFmt string
	noHeaders bool
	quiet     bool
	debug     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "simplymcp",
	Short: "SimplyMCP CLI - Bundle and inspect MCP servers",
	Long: `SimplyMCP CLI packages MCP servers into deployable artifacts.

Features:
  - Bundle: compile a server plus its dependencies into a single file,
    ESM/CJS output, or a standalone directory
  - Deps: inspect inline and manifest dependencies before bundling

Get started:
  simplymcp bundle ./server.ts    Bundle a server
  simplymcp deps list             Show resolved dependencies
  simplymcp --help                Show available commands`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Silence errors only when --quiet is used
		cmd.SilenceErrors = quiet

		if debug || viper.GetBool("debug") {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		}
	},
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output-format", "o", "table",
		"output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&noHeaders, "no-headers", false,
		"hide table headers")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"minimal output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug output")

	// Bind environment variables
	viper.SetEnvPrefix("SIMPLYMCP")
	_ = viper.BindEnv("debug")    // SIMPLYMCP_DEBUG
	_ = viper.BindEnv("base_dir") // SIMPLYMCP_BASE_DIR
	viper.AutomaticEnv()

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(bundleCmd)
	rootCmd.AddCommand(depsCmd)
}

// GetFormatter returns the output formatter (for use by subcommands)
func GetFormatter() (*output.Formatter, error) {
	format, err := output.ParseFormat(outputFmt)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format, noHeaders, quiet), nil
}
