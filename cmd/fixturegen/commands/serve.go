package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/pulse/tools/fixturegen/internal/mockpool"
)

var serveCfg mockpool.Config

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the mock endpoint server pool",
	Long: `Starts a pool of lightweight HTTP endpoint servers for monitors to probe,
plus a management API with /endpoints, /stats, /scale, /kill, /revive, and
prometheus /metrics. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := mockpool.New(serveCfg, log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := pool.Start(ctx); err != nil {
			return err
		}
		log.Info("pool running", zap.String("id", pool.ID()), zap.Int("mgmt_port", serveCfg.MgmtPort))

		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return pool.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&serveCfg.Servers, "servers", 10, "Number of endpoint servers to start")
	serveCmd.Flags().IntVar(&serveCfg.BasePort, "base-port", 20000, "Lowest endpoint server port")
	serveCmd.Flags().IntVar(&serveCfg.MaxPort, "max-port", 60000, "Highest endpoint server port")
	serveCmd.Flags().IntVar(&serveCfg.MgmtPort, "mgmt-port", 8081, "Management API port")
	serveCmd.Flags().Float64Var(&serveCfg.ChurnRate, "churn-rate", 0, "Kill/revive cycles per second (0 disables churn)")
}
