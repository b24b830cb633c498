package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/netrialia/cv-screener/internal/export"
	"github.com/netrialia/cv-screener/internal/logger"
	"github.com/netrialia/cv-screener/internal/screening"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export persisted screening results to an xlsx workbook",
	Run: func(cmd *cobra.Command, _ []string) {
		runExport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "screening_results.xlsx", "output workbook path")
}

func runExport(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	st, err := newStore(config, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}

	all, err := st.Positions(ctx)
	if err != nil {
		logger.Fatal("loading job positions", zap.Error(err))
	}

	titles := make([]string, 0, len(all))
	results := make(map[string][]screening.Result, len(all))
	for _, pos := range all {
		rows, err := st.Results(ctx, pos.Title)
		if err != nil {
			logger.Warn("skipping position in export", zap.String("position", pos.Title), zap.Error(err))
			continue
		}
		titles = append(titles, pos.Title)
		results[pos.Title] = rows
	}

	workbook, err := export.Workbook(titles, results)
	if err != nil {
		logger.Fatal("building workbook", zap.Error(err))
	}

	output := cmd.Flag("output").Value.String()
	if err := workbook.SaveAs(output); err != nil {
		logger.Fatal("saving workbook", zap.Error(err))
	}

	logger.Info("export written", zap.String("file", output), zap.Int("positions", len(titles)))
}
