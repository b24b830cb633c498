package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/netrialia/cv-screener/internal/logger"
	"github.com/netrialia/cv-screener/internal/position"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Refresh expiring resume links in persisted results without re-scoring",
	Run: func(cmd *cobra.Command, _ []string) {
		runReconcile(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringP("mode", "m", "all", "position subset: active, pooled or all")
}

func runReconcile(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	mode, ok := position.ParseMode(cmd.Flag("mode").Value.String())
	if !ok {
		logger.Fatal("invalid mode", zap.String("mode", cmd.Flag("mode").Value.String()))
	}

	job, st, err := newReconcileJob(config, logger)
	if err != nil {
		logger.Fatal("building the reconciliation job", zap.Error(err))
	}

	all, err := st.Positions(ctx)
	if err != nil {
		logger.Fatal("loading job positions", zap.Error(err))
	}

	subset := position.Select(all, mode)
	if len(subset) == 0 {
		logger.Info("exiting", zap.String("reason", "no positions in subset"), zap.String("mode", string(mode)))
		return
	}

	logger.Info("starting link reconciliation",
		zap.String("mode", string(mode)),
		zap.Int("positions", len(subset)),
	)

	job.Run(ctx, subset)
}
