package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/netrialia/cv-screener/internal/logger"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Score new candidates for all active positions",
	Run: func(cmd *cobra.Command, _ []string) {
		screen(cmd)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before scoring")
}

func screen(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	orchestrator, st, err := newOrchestrator(ctx, config, triggerInteractive, logger)
	if err != nil {
		logger.Fatal("building the screening pipeline", zap.Error(err))
	}

	active, err := activePositions(ctx, st, logger)
	if err != nil {
		logger.Fatal("loading job positions", zap.Error(err))
	}

	if len(active) == 0 {
		logger.Info("exiting", zap.String("reason", "no active positions"))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "false" {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Screen candidates for %d active position(s)?", len(active)),
			Items: []string{PromptYes, PromptNo},
		}
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	runID := uuid.NewString()
	summary := orchestrator.Run(ctx, runID, active)

	if summary.Failed > 0 {
		logger.Warn("run finished with failed positions",
			zap.Strings("positions", summary.FailedPositions),
		)
	}
}
