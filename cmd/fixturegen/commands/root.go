package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/pulse/tools/fixturegen/internal/endpoint"
	"github.com/example/pulse/tools/fixturegen/internal/logger"
)

var (
	version   string
	gitCommit string
	buildDate string
)

// SetVersionInfo records build-time version information for the version
// command.
func SetVersionInfo(v, c, b string) {
	version = v
	gitCommit = c
	buildDate = b
}

var (
	logLevel  string
	logFormat string

	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fixturegen",
	Short: "Synthesize and transform monitor configuration fixtures",
	Long: `fixturegen builds YAML monitor fixtures for load-testing a monitoring
service: it generates type-classified monitors from endpoint lists, expands
or multiplies existing fixtures, re-targets url/host values across a
document, and runs the mock endpoint pool the fixtures point at.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(logger.Config{Level: logLevel, Format: logFormat, Output: "stderr"})
	},
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if log != nil {
			_ = log.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(replicateCmd)
	rootCmd.AddCommand(multiplyCmd)
	rootCmd.AddCommand(substituteCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (console, json)")
}

// endpointLines reads an endpoint list from a file path or, when fromURL is
// set, over HTTP. The list is read fully before any parsing begins.
func endpointLines(ctx context.Context, source string, fromURL bool, timeout time.Duration) ([]string, error) {
	if fromURL {
		return endpoint.FetchLines(ctx, source, timeout)
	}
	return endpoint.ReadLinesFile(source)
}
