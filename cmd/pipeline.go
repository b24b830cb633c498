package cmd

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/netrialia/cv-screener/internal/position"
	"github.com/netrialia/cv-screener/internal/reconcile"
	"github.com/netrialia/cv-screener/internal/resume"
	"github.com/netrialia/cv-screener/internal/scoring"
	"github.com/netrialia/cv-screener/internal/scoring/gemini"
	"github.com/netrialia/cv-screener/internal/screening"
	"github.com/netrialia/cv-screener/internal/secrets"
	"github.com/netrialia/cv-screener/internal/source"
	"github.com/netrialia/cv-screener/internal/store"
	"github.com/netrialia/cv-screener/internal/usage"
)

// newStore wires the tabular store from config.
func newStore(config *Config, logger *zap.Logger) (*store.CSV, error) {
	if config == nil || config.Store == nil || config.Store.Dir == "" {
		return nil, errors.New("store.dir is required in the configuration")
	}
	return store.NewCSV(config.Store.Dir, logger), nil
}

func newSource(config *Config, logger *zap.Logger) *source.Client {
	cfg := source.Config{}
	if config.Source != nil {
		cfg.UserAgent = config.Source.UserAgent
		cfg.MaxRetries = config.Source.MaxRetries
		cfg.Timeout = time.Duration(config.Source.TimeoutSeconds) * time.Second
	}
	return source.New(cfg, logger)
}

// newScoringEngine builds the Gemini-backed engine. The API key comes from a
// file (GEMINI_API_KEY_FILE or ai.gemini.api-key-file) or the GEMINI_API_KEY
// environment variable.
func newScoringEngine(ctx context.Context, config *Config, logger *zap.Logger) (*scoring.Engine, error) {
	if config.AI == nil || config.AI.Gemini == nil {
		return nil, errors.New("ai.gemini configuration is required for screening")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", config.AI.Gemini.Model),
	)

	generator, err := gemini.New(ctx, apiKey, config.AI.Gemini.Model, genLogger)
	if err != nil {
		return nil, err
	}

	engineCfg := scoring.Config{
		MaxRetries:   config.AI.MaxRetries,
		ContextLimit: config.AI.ContextLimit,
		NameLimit:    config.AI.NameLimit,
		CallSpacing:  time.Duration(config.AI.CallSpacingSeconds) * time.Second,
		MaxLogLength: config.AI.MaxLogLength,
	}

	return scoring.NewEngine(generator, engineCfg, genLogger), nil
}

func newOrchestrator(ctx context.Context, config *Config, trigger string, logger *zap.Logger) (*screening.Orchestrator, *store.CSV, error) {
	st, err := newStore(config, logger)
	if err != nil {
		return nil, nil, err
	}

	engine, err := newScoringEngine(ctx, config, logger)
	if err != nil {
		return nil, nil, err
	}

	usagePath := ""
	if config.Usage != nil {
		usagePath = config.Usage.LogFile
	}

	orchestrator := screening.NewOrchestrator(
		st,
		newSource(config, logger),
		resume.NewExtractor(0, logger),
		engine,
		usage.NewLogger(usagePath, logger),
		trigger,
		logger,
	)
	return orchestrator, st, nil
}

func newReconcileJob(config *Config, logger *zap.Logger) (*reconcile.Job, *store.CSV, error) {
	st, err := newStore(config, logger)
	if err != nil {
		return nil, nil, err
	}
	return reconcile.NewJob(st, newSource(config, logger), logger), st, nil
}

// activePositions loads definitions and applies the activation filter before
// any candidate fetching happens.
func activePositions(ctx context.Context, st *store.CSV, logger *zap.Logger) ([]position.Position, error) {
	all, err := st.Positions(ctx)
	if err != nil {
		return nil, err
	}

	active, archived := position.Partition(all)
	logger.Info("positions loaded",
		zap.Int("total", len(all)),
		zap.Int("active", len(active)),
		zap.Int("archived", len(archived)),
	)
	return active, nil
}
