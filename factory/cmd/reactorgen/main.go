// Command reactorgen generates reactive gRPC clients and their config
// classes from generated stub packages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/bsmider/reactorgen/config"
	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/logger"
)

var (
	configPath string
	jsonLogs   bool
	verbosity  int
)

var rootCmd = &cobra.Command{
	Use:   "reactorgen",
	Short: "Generate reactive gRPC clients from stub packages",
	Long: `reactorgen compiles protobuf schemas, reads the generated stub package and
writes a reactive client plus a config class for every service it finds.

Examples:
  reactorgen generate          # full pipeline driven by reactorgen.toml
  reactorgen synth ./orderpb   # synthesize from an existing stub directory
  reactorgen check             # fail when the output directory is stale`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show reactorgen version information",
	Run: func(cmd *cobra.Command, args []string) {
		version := "devel"
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
			version = info.Main.Version
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reactorgen %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(cmd.OutOrStdout(), "Go: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to reactorgen.toml (default: search upward from the working directory)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase output verbosity")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(synthCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		stop()
		os.Exit(1)
	}
}
