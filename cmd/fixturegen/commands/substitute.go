package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/pulse/tools/fixturegen/internal/endpoint"
	"github.com/example/pulse/tools/fixturegen/internal/fixture"
	"github.com/example/pulse/tools/fixturegen/internal/substitute"
)

var (
	substituteEndpointsFile string
	substituteEndpointsURL  string
	substituteTimeout       time.Duration
)

var substituteCmd = &cobra.Command{
	Use:   "substitute <input.yaml> <output.yaml>",
	Short: "Re-target url/host values across a fixture",
	Long: `Replaces every string value under a url or host key anywhere in the
document with endpoints from the replacement list, cycling through the list
when it is shorter than the set of distinct values. A document with no
matching keys is left alone and no output is written.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := substituteEndpointsFile
		fromURL := false
		if substituteEndpointsURL != "" {
			source = substituteEndpointsURL
			fromURL = true
		}

		replacements, err := endpointLines(cmd.Context(), source, fromURL, substituteTimeout)
		if err != nil {
			return err
		}
		if len(replacements) == 0 {
			return fmt.Errorf("%w: no replacement endpoints found", fixture.ErrEmptyInput)
		}

		doc, err := fixture.Load(args[0])
		if err != nil {
			return err
		}

		result, err := substitute.Apply(doc.Root, replacements)
		if err != nil {
			return err
		}
		if result.Found == 0 {
			log.Info("no url/host values found, nothing to do", zap.String("path", args[0]))
			return nil
		}

		doc.Root = result.Doc
		if err := doc.Save(args[1]); err != nil {
			return err
		}
		log.Info("substituted endpoints",
			zap.Int("occurrences", result.Found), zap.Int("distinct", result.Distinct), zap.String("path", args[1]))
		return nil
	},
}

func init() {
	substituteCmd.Flags().StringVar(&substituteEndpointsFile, "endpoints-file", "", "Text file with replacement endpoints, one per line")
	substituteCmd.Flags().StringVar(&substituteEndpointsURL, "endpoints-url", "", "URL to fetch replacement endpoints from")
	substituteCmd.Flags().DurationVar(&substituteTimeout, "timeout", endpoint.DefaultFetchTimeout, "Timeout for the endpoint list fetch")
	substituteCmd.MarkFlagsMutuallyExclusive("endpoints-file", "endpoints-url")
	substituteCmd.MarkFlagsOneRequired("endpoints-file", "endpoints-url")
}
