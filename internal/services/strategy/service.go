package strategy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
	"github.com/bobmcallan/advisor/internal/models"
	"github.com/bobmcallan/advisor/internal/references"
)

// maxRecommendations caps buy and sell lists per side.
const maxRecommendations = 2

const strategyPromptTemplate = `Current portfolio holdings: %s

Generate 3 distinct forward-looking investment strategies. For each strategy provide:
1. A strategy name
2. A 2-sentence commentary explaining how this new strategy will transform the portfolio
3. A SWOT analysis with exactly 15 words per section, focusing on the IMPACT of implementing this strategy
4. 2-3 relevant stock sectors to focus on

Format as:
Strategy 1:
Name: [Strategy Name]
Commentary: [2 sentences about how this strategy will change the portfolio]
SWOT:
Strengths: [15 words]
Weaknesses: [15 words]
Opportunities: [15 words]
Threats: [15 words]
Sectors: [2-3 sectors]

[Repeat for Strategy 2 and 3]

Each strategy should be distinctly different and focus on future transformation rather than current holdings.`

// Service implements StrategyService.
type Service struct {
	analysis   interfaces.AnalysisService
	completion interfaces.CompletionClient
	logger     *common.Logger
}

// NewService creates a strategy service.
func NewService(analysis interfaces.AnalysisService, completion interfaces.CompletionClient, logger *common.Logger) *Service {
	return &Service{
		analysis:   analysis,
		completion: completion,
		logger:     logger,
	}
}

// GenerateStrategies asks the completion provider for three strategies,
// parses them, and attaches buy/sell recommendations per strategy. A
// response that does not match the grammar comes back as the Unparsed
// variant with no recommendations.
func (s *Service) GenerateStrategies(ctx context.Context, analysis *models.PortfolioAnalysis) (*models.StrategySet, error) {
	prompt := fmt.Sprintf(strategyPromptTemplate, strings.Join(analysis.Tickers, ", "))

	response, err := s.completion.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	set := ParseStrategies(response)
	if set.Unparsed {
		s.logger.Warn().Int("response_len", len(response)).Msg("Strategy response did not parse")
		return set, nil
	}

	for i := range set.Strategies {
		buy, sell := s.recommend(ctx, set.Strategies[i].Sectors, analysis)
		set.Strategies[i].Buy = buy
		set.Strategies[i].Sell = sell
	}
	return set, nil
}

// Recommend scores tickers across all strategies' sectors against the
// portfolio and returns the top buy and sell candidates.
func (s *Service) Recommend(ctx context.Context, strategies *models.StrategySet, analysis *models.PortfolioAnalysis) ([]models.Recommendation, []models.Recommendation, error) {
	var sectors []string
	for _, st := range strategies.Strategies {
		sectors = append(sectors, st.Sectors...)
	}
	buy, sell := s.recommend(ctx, sectors, analysis)
	return buy, sell, nil
}

// recommend builds buy candidates from the sectors' member tickers and sell
// candidates from the current portfolio. Tickers that fail to analyze are
// skipped.
func (s *Service) recommend(ctx context.Context, sectors []string, analysis *models.PortfolioAnalysis) ([]models.Recommendation, []models.Recommendation) {
	held := make(map[string]bool, len(analysis.Tickers))
	for _, t := range analysis.Tickers {
		held[t] = true
	}

	normalized := make([]string, 0, len(sectors))
	for _, sector := range sectors {
		normalized = append(normalized, references.NormalizeSectorName(sector))
	}

	var buyPool []*models.IndicatorSet
	for _, ticker := range references.TickersForSectors(normalized) {
		if held[ticker] {
			continue
		}
		set, err := s.analysis.AnalyzeTicker(ctx, ticker)
		if err != nil {
			s.logger.Debug().Str("ticker", ticker).Err(err).Msg("Skipping buy candidate")
			continue
		}
		buyPool = append(buyPool, set)
	}

	var sellPool []*models.IndicatorSet
	for _, set := range analysis.StockMetrics {
		sellPool = append(sellPool, set)
	}

	buy := topCandidates(buyPool, buyScore)
	sell := topCandidates(sellPool, sellScore)
	return buy, sell
}

// topCandidates ranks sets by score and keeps the best few. Ties break on
// ticker so results are deterministic.
func topCandidates(pool []*models.IndicatorSet, score func(*models.IndicatorSet) float64) []models.Recommendation {
	sort.Slice(pool, func(i, j int) bool {
		si, sj := score(pool[i]), score(pool[j])
		if si != sj {
			return si > sj
		}
		return pool[i].Ticker < pool[j].Ticker
	})

	n := len(pool)
	if n > maxRecommendations {
		n = maxRecommendations
	}

	recs := make([]models.Recommendation, 0, n)
	for _, set := range pool[:n] {
		recs = append(recs, models.Recommendation{
			Ticker: set.Ticker,
			Reason: primarySignal(set),
		})
	}
	return recs
}

// buyScore weighs bullish signals. A missing indicator contributes nothing.
func buyScore(set *models.IndicatorSet) float64 {
	score := 0.0
	if v, ok := set.Get(models.MetricTrendSignal); ok && v == 1 {
		score += 0.3
	}
	if v, ok := set.Get(models.MetricMACDSignal); ok && v == 1 {
		score += 0.2
	}
	if v, ok := set.Get(models.MetricRSI); ok && v < 70 {
		score += 0.2
	}
	if v, ok := set.Get(models.MetricVolumeTrend); ok && v > 0 {
		score += 0.15
	}
	if v, ok := set.Get(models.MetricYTDReturn); ok && v > 0 {
		score += 0.15
	}
	return score
}

// sellScore weighs bearish and risk signals, mirrored from buyScore.
func sellScore(set *models.IndicatorSet) float64 {
	score := 0.0
	if v, ok := set.Get(models.MetricTrendSignal); ok && v == -1 {
		score += 0.3
	}
	if v, ok := set.Get(models.MetricMACDSignal); ok && v == -1 {
		score += 0.2
	}
	if v, ok := set.Get(models.MetricRSI); ok && v > 70 {
		score += 0.2
	}
	if v, ok := set.Get(models.MetricVolumeTrend); ok && v < 0 {
		score += 0.15
	}
	if v, ok := set.Get(models.MetricRiskScore); ok && v > 70 {
		score += 0.15
	}
	return score
}

// primarySignal phrases the dominant signal for a recommendation. The
// checks run in fixed priority; conditions over missing indicators are
// skipped.
func primarySignal(set *models.IndicatorSet) string {
	change := set.GetOr(models.MetricValueChange21d, 0)

	if esg, ok := set.Get(models.MetricESGScore); ok {
		if esg > 75 && change > 0 {
			return fmt.Sprintf("+%.1f%% gain with strong ESG score (%.1f)", change, esg)
		}
		if esg < 40 {
			return fmt.Sprintf("%.1f%% move with ESG concerns (%.1f)", change, esg)
		}
	}
	if climate, ok := set.Get(models.MetricClimateRisk); ok && climate > 60 {
		return fmt.Sprintf("%.1f%% with high climate risk (%.1f)", change, climate)
	}
	if momentum, ok := set.Get(models.MetricMomentum); ok && momentum > 0 {
		if governance, ok := set.Get(models.MetricGovernanceRisk); ok && governance < 30 {
			return fmt.Sprintf("+%.1f%% momentum with low governance risk", momentum)
		}
	}
	if vol, ok := set.Get(models.MetricVolatility); ok && vol > 40 {
		return fmt.Sprintf("%.1f%% move with %.1f%% volatility", change, vol)
	}
	if dd, ok := set.Get(models.MetricMaxDrawdown); ok && dd < -20 {
		return fmt.Sprintf("%.1f%% with %.1f%% max drawdown", change, dd)
	}
	if risk, ok := set.Get(models.MetricRiskScore); ok {
		if trend, ok := set.Get(models.MetricTrendSignal); ok && trend == 1 {
			return fmt.Sprintf("+%.1f%% uptrend with %.1f risk score", change, risk)
		}
		return fmt.Sprintf("%.1f%% with %.1f risk score", change, risk)
	}
	return fmt.Sprintf("%.1f%% price movement", change)
}

var _ interfaces.StrategyService = (*Service)(nil)
