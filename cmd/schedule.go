package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/netrialia/cv-screener/internal/logger"
	"github.com/netrialia/cv-screener/internal/position"
)

// Defaults match the original operations setup: screening in the early
// morning, link reconciliation two hours later so the export refresh has
// landed and the two jobs never touch the same position at the same time.
const (
	defaultScreenSpec    = "30 0 * * *"
	defaultReconcileSpec = "30 2 * * *"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run screening and link reconciliation unattended on cron schedules",
	Run: func(_ *cobra.Command, _ []string) {
		schedule()
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func schedule() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	screenSpec := defaultScreenSpec
	reconcileSpec := defaultReconcileSpec
	reconcileMode := position.ModeAll
	if config.Schedule != nil {
		if config.Schedule.Screen != "" {
			screenSpec = config.Schedule.Screen
		}
		if config.Schedule.Reconcile != "" {
			reconcileSpec = config.Schedule.Reconcile
		}
		if mode, ok := position.ParseMode(config.Schedule.ReconcileMode); ok {
			reconcileMode = mode
		}
	}

	orchestrator, st, err := newOrchestrator(ctx, config, triggerScheduled, logger)
	if err != nil {
		logger.Fatal("building the screening pipeline", zap.Error(err))
	}

	reconciler, _, err := newReconcileJob(config, logger)
	if err != nil {
		logger.Fatal("building the reconciliation job", zap.Error(err))
	}

	c := cron.New()

	if _, err := c.AddFunc(screenSpec, func() {
		active, err := activePositions(ctx, st, logger)
		if err != nil {
			logger.Error("loading job positions", zap.Error(err))
			return
		}
		orchestrator.Run(ctx, uuid.NewString(), active)
	}); err != nil {
		logger.Fatal("registering screening schedule", zap.Error(err))
	}

	if _, err := c.AddFunc(reconcileSpec, func() {
		all, err := st.Positions(ctx)
		if err != nil {
			logger.Error("loading job positions", zap.Error(err))
			return
		}
		reconciler.Run(ctx, position.Select(all, reconcileMode))
	}); err != nil {
		logger.Fatal("registering reconciliation schedule", zap.Error(err))
	}

	c.Start()
	logger.Info("scheduler started",
		zap.String("screen_spec", screenSpec),
		zap.String("reconcile_spec", reconcileSpec),
		zap.String("reconcile_mode", string(reconcileMode)),
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	// Cancel first so a running pass stops at its next between-positions
	// checkpoint, then wait for the cron goroutines to drain.
	cancel()
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}
