package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/simplymcp/simplymcp/bundle"
	"github.com/simplymcp/simplymcp/cli/output"
	"github.com/simplymcp/simplymcp/deps"
)

var (
	depsBaseDir string
	depsFilter  string
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Inspect server dependencies",
	Long:  `Inspect the inline and manifest dependencies a server would be bundled with.`,
}

var depsListCmd = &cobra.Command{
	Use:   "list [entry]",
	Short: "List resolved dependencies",
	Long: `List the resolved dependency set: inline declarations merged with the
project manifest, with native modules flagged.

Examples:
  simplymcp deps list
  simplymcp deps list ./server.ts -o json
  simplymcp deps list --filter '@types/*'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDepsList,
}

var depsStatsCmd = &cobra.Command{
	Use:   "stats [entry]",
	Short: "Show dependency statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDepsStats,
}

var depsCheckCmd = &cobra.Command{
	Use:   "check [entry]",
	Short: "Validate inline dependency declarations",
	Long: `Parse and validate the entry file's inline dependency block, reporting
every malformed line. Exit code is non-zero if any line fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDepsCheck,
}

func init() {
	depsCmd.PersistentFlags().StringVar(&depsBaseDir, "base-dir", "", "project root (default current directory)")
	depsListCmd.Flags().StringVar(&depsFilter, "filter", "", "filter by glob or regexp pattern")

	depsCmd.AddCommand(depsListCmd)
	depsCmd.AddCommand(depsStatsCmd)
	depsCmd.AddCommand(depsCheckCmd)
}

// resolveForInspection runs entry detection plus dependency resolution for
// the deps subcommands.
func resolveForInspection(args []string) (*deps.ResolvedDependencies, error) {
	baseDir := depsBaseDir
	if baseDir == "" {
		baseDir = "."
	}
	explicit := ""
	if len(args) > 0 {
		explicit = args[0]
	}

	entry, err := bundle.DetectEntry(explicit, baseDir)
	if err != nil {
		return nil, err
	}
	return deps.NewResolver().Resolve(entry.Path, baseDir)
}

func runDepsList(cmd *cobra.Command, args []string) error {
	resolved, err := resolveForInspection(args)
	if err != nil {
		return err
	}

	dependencies := resolved.Dependencies
	if depsFilter != "" {
		dependencies, err = deps.Filter(dependencies, depsFilter)
		if err != nil {
			return err
		}
	}

	formatter, err := GetFormatter()
	if err != nil {
		return err
	}

	if formatter.Format != output.FormatTable {
		return formatter.Print(map[string]interface{}{
			"dependencies":  dependencies,
			"nativeModules": resolved.NativeModules,
			"warnings":      resolved.Warnings,
		})
	}

	nativeSet := make(map[string]bool, len(resolved.NativeModules))
	for _, name := range resolved.NativeModules {
		nativeSet[name] = true
	}
	rows := make([][]string, 0, len(dependencies))
	for _, name := range deps.SortedNames(dependencies) {
		native := ""
		if nativeSet[name] {
			native = "yes"
		}
		rows = append(rows, []string{name, dependencies[name], native})
	}
	formatter.Table([]string{"NAME", "VERSION", "NATIVE"}, rows)

	for _, w := range resolved.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	return nil
}

func runDepsStats(cmd *cobra.Command, args []string) error {
	resolved, err := resolveForInspection(args)
	if err != nil {
		return err
	}

	stats := deps.GetStats(resolved.Dependencies)

	formatter, err := GetFormatter()
	if err != nil {
		return err
	}
	if formatter.Format != output.FormatTable {
		return formatter.Print(stats)
	}

	formatter.Table([]string{"METRIC", "COUNT"}, [][]string{
		{"total", strconv.Itoa(stats.Total)},
		{"scoped", strconv.Itoa(stats.Scoped)},
		{"unscoped", strconv.Itoa(stats.Unscoped)},
		{"@types packages", strconv.Itoa(stats.Types)},
		{"wildcard versions", strconv.Itoa(stats.Wildcard)},
		{"explicit versions", strconv.Itoa(stats.Versioned)},
		{"native modules", strconv.Itoa(len(resolved.NativeModules))},
	})
	return nil
}

func runDepsCheck(cmd *cobra.Command, args []string) error {
	resolved, err := resolveForInspection(args)
	if err != nil {
		return err
	}

	parse := resolved.InlineParse
	for _, w := range parse.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	for _, perr := range parse.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %s\n", perr.LineNumber, perr.Message)
		if perr.RawLine != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", perr.RawLine)
		}
	}

	validation := deps.ValidateAll(parse.Dependencies)
	for _, name := range deps.SortedNames(parse.Dependencies) {
		if msg, ok := validation.Errors[name]; ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", name, msg)
		}
	}

	total := len(parse.Errors) + len(validation.Errors)
	if total > 0 {
		return fmt.Errorf("%d problem(s) found", total)
	}
	if !quiet {
		fmt.Printf("✓ %d inline dependencies OK\n", len(parse.Dependencies))
	}
	return nil
}
