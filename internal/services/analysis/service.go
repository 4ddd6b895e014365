// Package analysis computes per-ticker indicators and portfolio aggregates.
package analysis

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
	"github.com/bobmcallan/advisor/internal/models"
	"github.com/bobmcallan/advisor/internal/signals"
)

const (
	// DefaultHistoryDays covers the 200-session trend window with margin
	// for weekends and holidays.
	DefaultHistoryDays = 365

	// maxConcurrentTickers bounds parallel per-ticker computation.
	maxConcurrentTickers = 4
)

// Service implements AnalysisService.
type Service struct {
	market   interfaces.MarketDataClient
	esg      interfaces.ESGClient
	cache    interfaces.MarketCache
	computer *signals.Computer
	logger   *common.Logger

	historyDays int
}

// NewService creates a new analysis service.
func NewService(market interfaces.MarketDataClient, esg interfaces.ESGClient, cache interfaces.MarketCache, logger *common.Logger) *Service {
	return &Service{
		market:      market,
		esg:         esg,
		cache:       cache,
		computer:    signals.NewComputer(),
		logger:      logger,
		historyDays: DefaultHistoryDays,
	}
}

// AnalyzeTicker computes the indicator set for one ticker.
func (s *Service) AnalyzeTicker(ctx context.Context, ticker string) (*models.IndicatorSet, error) {
	series, err := s.fetchSeries(ctx, ticker)
	if err != nil {
		return nil, err
	}
	esg := s.fetchESG(ctx, ticker)
	return s.computer.Compute(series, esg)
}

// AnalyzePortfolio computes indicator sets for all tickers in parallel and
// aggregates them. Individual ticker failures are tolerated: the ticker is
// logged and excluded from aggregates. An empty portfolio, or one where
// every ticker failed, yields the defined empty aggregate, not an error.
func (s *Service) AnalyzePortfolio(ctx context.Context, tickers []string) (*models.PortfolioAnalysis, error) {
	if len(tickers) == 0 {
		return models.NewEmptyAnalysis(tickers), nil
	}

	var mu sync.Mutex
	sets := make(map[string]*models.IndicatorSet, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTickers)

	for _, ticker := range tickers {
		g.Go(func() error {
			set, err := s.AnalyzeTicker(gctx, ticker)
			if err != nil {
				s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Ticker analysis failed, excluding from aggregates")
				return nil
			}
			mu.Lock()
			sets[ticker] = set
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis := Aggregate(tickers, sets)
	s.logger.Info().
		Int("tickers", len(tickers)).
		Int("analyzed", len(sets)).
		Msg("Portfolio analysis complete")
	return analysis, nil
}

// RenderRiskChart renders the ticker's price and rolling volatility as a
// PNG and stores it in the cache.
func (s *Service) RenderRiskChart(ctx context.Context, ticker string) ([]byte, error) {
	series, err := s.fetchSeries(ctx, ticker)
	if err != nil {
		return nil, err
	}

	png, err := RenderRiskChart(series)
	if err != nil {
		return nil, err
	}

	if err := s.cache.WriteRaw("chart_"+ticker+".png", png); err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to store risk chart")
	}
	return png, nil
}

// fetchSeries returns the ticker's price history, serving a fresh cache
// entry when available. A stale entry is still used when the provider is
// unreachable.
func (s *Service) fetchSeries(ctx context.Context, ticker string) (*models.PriceSeries, error) {
	key := "prices_" + ticker

	var cached models.PriceSeries
	found, age, err := s.cache.Read(key, &cached)
	if err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Price cache read failed")
		found = false
	}
	if found && ageFresh(age, common.FreshnessPriceHistory) {
		return &cached, nil
	}

	series, fetchErr := s.market.GetPriceHistory(ctx, ticker, s.historyDays)
	if fetchErr != nil {
		if found {
			s.logger.Warn().Str("ticker", ticker).Err(fetchErr).Msg("Price fetch failed, serving stale cache")
			return &cached, nil
		}
		return nil, fetchErr
	}

	if err := s.cache.Write(key, series); err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Price cache write failed")
	}
	return series, nil
}

// fetchESG returns ESG scores, or nil when the provider is unreachable and
// nothing usable is cached. A nil result means "unknown", never zero.
func (s *Service) fetchESG(ctx context.Context, ticker string) *models.ESGScores {
	key := "esg_" + ticker

	var cached models.ESGScores
	found, age, err := s.cache.Read(key, &cached)
	if err != nil {
		found = false
	}
	if found && ageFresh(age, common.FreshnessESG) {
		return &cached
	}

	scores, fetchErr := s.esg.GetESGScores(ctx, ticker)
	if fetchErr != nil {
		s.logger.Warn().Str("ticker", ticker).Err(fetchErr).Msg("ESG fetch failed")
		if found {
			return &cached
		}
		return nil
	}

	if err := s.cache.Write(key, scores); err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("ESG cache write failed")
	}
	return scores
}

func ageFresh(ageSeconds int64, ttl time.Duration) bool {
	return time.Duration(ageSeconds)*time.Second < ttl
}

var _ interfaces.AnalysisService = (*Service)(nil)
