package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/pulse/tools/fixturegen/internal/fixture"
	"github.com/example/pulse/tools/fixturegen/internal/replicate"
)

var replicateCount int

var replicateCmd = &cobra.Command{
	Use:   "replicate <input.yaml> <output.yaml>",
	Short: "Expand a fixture to a target monitor count",
	Long: `Keeps the existing monitors unchanged and appends renamed copies, cycling
through the originals in order, until the fixture holds --count monitors. A
target at or below the current size writes the input unchanged.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := fixture.Load(args[0])
		if err != nil {
			return err
		}
		monitors, err := doc.Monitors()
		if err != nil {
			return err
		}

		result, err := replicate.ExpandToCount(monitors, replicateCount)
		if err != nil {
			return err
		}
		if !result.Expanded {
			log.Info("target does not exceed current size, writing fixture unchanged",
				zap.Int("target", replicateCount), zap.Int("current", len(monitors)))
		}

		doc.SetMonitors(result.Monitors)
		if err := doc.Save(args[1]); err != nil {
			return err
		}
		log.Info("wrote monitors",
			zap.Int("count", len(result.Monitors)), zap.Int("added", result.Added), zap.String("path", args[1]))
		return nil
	},
}

var multiplyFactor int

var multiplyCmd = &cobra.Command{
	Use:   "multiply <input.yaml> <output.yaml>",
	Short: "Replicate a fixture's monitors by a factor",
	Long: `Produces --factor renamed passes over the input monitors. The unrenamed
originals are not part of the output: a fixture with S monitors multiplied
by R yields exactly R x S copies.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Validated before any document is read.
		if multiplyFactor <= 0 {
			return fmt.Errorf("%w: got %d", replicate.ErrInvalidFactor, multiplyFactor)
		}

		doc, err := fixture.Load(args[0])
		if err != nil {
			return err
		}
		monitors, err := doc.Monitors()
		if err != nil {
			return err
		}

		copies, err := replicate.Multiply(monitors, multiplyFactor)
		if err != nil {
			return err
		}

		doc.SetMonitors(copies)
		if err := doc.Save(args[1]); err != nil {
			return err
		}
		log.Info("wrote monitors",
			zap.Int("count", len(copies)), zap.Int("factor", multiplyFactor), zap.String("path", args[1]))
		return nil
	},
}

func init() {
	replicateCmd.Flags().IntVar(&replicateCount, "count", 0, "Target total monitor count")
	_ = replicateCmd.MarkFlagRequired("count")

	multiplyCmd.Flags().IntVar(&multiplyFactor, "factor", 0, "Replication factor")
	_ = multiplyCmd.MarkFlagRequired("factor")
}
