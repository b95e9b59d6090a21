package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/pulse/tools/fixturegen/internal/distribution"
	"github.com/example/pulse/tools/fixturegen/internal/endpoint"
	"github.com/example/pulse/tools/fixturegen/internal/fixture"
	"github.com/example/pulse/tools/fixturegen/internal/synth"
)

var (
	generateFromURL bool
	generateTimeout time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate <endpoints-source> <output.yaml>",
	Short: "Generate monitor definitions from an endpoint list",
	Long: `Reads a line-oriented endpoint list (file path, or URL with --from-url),
classifies the endpoints under the fixed 80/10/10 http/tcp/icmp policy, and
writes the synthesized monitor fixture.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := endpointLines(cmd.Context(), args[0], generateFromURL, generateTimeout)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fmt.Errorf("%w: no endpoints provided", fixture.ErrEmptyInput)
		}

		endpoints, err := endpoint.ParseAll(lines, endpoint.DefaultOptions())
		if err != nil {
			return err
		}

		synthesizer, err := synth.New()
		if err != nil {
			return err
		}
		monitors, err := synthesizer.FromEndpoints(endpoints, distribution.DefaultPolicy())
		if err != nil {
			return err
		}

		if err := fixture.NewDocument(monitors).Save(args[1]); err != nil {
			return err
		}
		log.Info("wrote monitors", zap.Int("count", len(monitors)), zap.String("path", args[1]))
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateFromURL, "from-url", false, "Treat the endpoints source as a URL")
	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", endpoint.DefaultFetchTimeout, "Timeout for the endpoint list fetch")
}
