// Package app wires configuration, clients, storage, and services into one
// application instance.
package app

import (
	"context"
	"fmt"

	"github.com/bobmcallan/advisor/internal/clients/eodhd"
	"github.com/bobmcallan/advisor/internal/clients/esg"
	"github.com/bobmcallan/advisor/internal/clients/gemini"
	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
	"github.com/bobmcallan/advisor/internal/services/analysis"
	"github.com/bobmcallan/advisor/internal/services/session"
	"github.com/bobmcallan/advisor/internal/services/strategy"
	"github.com/bobmcallan/advisor/internal/storage"
)

// App holds all wired application components.
type App struct {
	Config *common.Config
	Logger *common.Logger

	Cache    interfaces.MarketCache
	Sessions interfaces.SessionStore

	Analysis   interfaces.AnalysisService
	Session    interfaces.SessionService
	Strategies interfaces.StrategyService
}

// New builds the application from configuration. A missing Gemini key is
// not fatal: chat degrades to the local-metrics fallback.
func New(ctx context.Context, cfg *common.Config, logger *common.Logger) (*App, error) {
	cache, err := storage.NewFileCache(logger, cfg.Storage.MarketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open market cache: %w", err)
	}

	marketOpts := []eodhd.ClientOption{
		eodhd.WithLogger(logger),
		eodhd.WithTimeout(cfg.Clients.EODHD.GetTimeout()),
	}
	if cfg.Clients.EODHD.BaseURL != "" {
		marketOpts = append(marketOpts, eodhd.WithBaseURL(cfg.Clients.EODHD.BaseURL))
	}
	if cfg.Clients.EODHD.RateLimit > 0 {
		marketOpts = append(marketOpts, eodhd.WithRateLimit(cfg.Clients.EODHD.RateLimit))
	}
	market := eodhd.NewClient(cfg.Clients.EODHD.APIKey, marketOpts...)

	esgOpts := []esg.ClientOption{
		esg.WithLogger(logger),
		esg.WithTimeout(cfg.Clients.ESG.GetTimeout()),
	}
	if cfg.Clients.ESG.BaseURL != "" {
		esgOpts = append(esgOpts, esg.WithBaseURL(cfg.Clients.ESG.BaseURL))
	}
	esgClient := esg.NewClient(cfg.Clients.ESG.APIKey, esgOpts...)

	geminiOpts := []gemini.ClientOption{
		gemini.WithLogger(logger),
		gemini.WithTimeout(cfg.Clients.Gemini.GetTimeout()),
	}
	if cfg.Clients.Gemini.Model != "" {
		geminiOpts = append(geminiOpts, gemini.WithModel(cfg.Clients.Gemini.Model))
	}
	completion, err := gemini.NewClient(ctx, cfg.Clients.Gemini.APIKey, geminiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}
	if !completion.IsAvailable() {
		logger.Warn().Msg("No Gemini API key configured; chat will use local-metrics fallback")
	}

	sessions := storage.NewMemorySessionStore(logger)
	analysisSvc := analysis.NewService(market, esgClient, cache, logger)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Cache:      cache,
		Sessions:   sessions,
		Analysis:   analysisSvc,
		Session:    session.NewManager(sessions, analysisSvc, completion, logger),
		Strategies: strategy.NewService(analysisSvc, completion, logger),
	}, nil
}
