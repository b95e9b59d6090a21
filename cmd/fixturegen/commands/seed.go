package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/pulse/tools/fixturegen/internal/seed"
)

var (
	seedCount int
	seedValue uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed <output.txt>",
	Short: "Generate a synthetic endpoint list",
	Long: `Writes a line-oriented endpoint list suitable as input for generate. With
an explicit --seed the output is reproducible.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := seed.Lines(seed.Options{Count: seedCount, Seed: seedValue})
		if err != nil {
			return err
		}

		data := strings.Join(lines, "\n") + "\n"
		if err := os.WriteFile(args[0], []byte(data), 0o644); err != nil {
			return err
		}
		log.Info("wrote endpoints", zap.Int("count", len(lines)), zap.String("path", args[0]))
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 100, "Number of endpoints to generate")
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 0, "Random seed (0 seeds from entropy)")
}
