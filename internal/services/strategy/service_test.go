package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/models"
)

const wellFormedResponse = `Strategy 1:
Name: Green Transition
Commentary: Shifts the portfolio toward renewable energy leaders. Reduces exposure to carbon-heavy holdings.
SWOT:
Strengths: Positions portfolio ahead of regulatory tailwinds and growing institutional demand for clean assets.
Weaknesses: Green valuations run high and subsidy changes can hit earnings without much warning.
Opportunities: Grid modernization spending and storage adoption open multi-year growth channels for the sector.
Threats: Rate rises hurt capital-intensive projects and fossil rebounds can pull flows away quickly.
Sectors: Green Energy, Technology

Strategy 2:
Name: Defensive Income
Commentary: Anchors the portfolio in stable healthcare names. Trades upside for drawdown protection.
SWOT:
Strengths: Lower beta holdings cushion drawdowns while steady cash flows support consistent dividend income.
Weaknesses: Caps upside in strong bull markets and concentrates exposure in a single defensive sector.
Opportunities: Aging demographics expand demand for care, devices, and therapies across developed markets.
Threats: Drug pricing reform and patent cliffs can compress margins across the sector broadly.
Sectors: Healthcare
`

type stubAnalysis struct {
	sets map[string]*models.IndicatorSet
}

func (s *stubAnalysis) AnalyzeTicker(ctx context.Context, ticker string) (*models.IndicatorSet, error) {
	if set, ok := s.sets[ticker]; ok {
		return set, nil
	}
	return nil, &models.InsufficientDataError{Ticker: ticker, Required: 2, Actual: 0}
}

func (s *stubAnalysis) AnalyzePortfolio(ctx context.Context, tickers []string) (*models.PortfolioAnalysis, error) {
	return models.NewEmptyAnalysis(tickers), nil
}

func (s *stubAnalysis) RenderRiskChart(ctx context.Context, ticker string) ([]byte, error) {
	return nil, nil
}

type stubCompletion struct {
	text string
	err  error
}

func (s *stubCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func (s *stubCompletion) IsAvailable() bool { return true }

func bullish(ticker string) *models.IndicatorSet {
	set := models.NewIndicatorSet(ticker)
	set.Set(models.MetricTrendSignal, 1)
	set.Set(models.MetricMACDSignal, 1)
	set.Set(models.MetricRSI, 55)
	set.Set(models.MetricVolumeTrend, 10)
	set.Set(models.MetricYTDReturn, 12)
	set.Set(models.MetricValueChange21d, 3.2)
	set.Set(models.MetricRiskScore, 35)
	return set
}

func bearish(ticker string) *models.IndicatorSet {
	set := models.NewIndicatorSet(ticker)
	set.Set(models.MetricTrendSignal, -1)
	set.Set(models.MetricMACDSignal, -1)
	set.Set(models.MetricRSI, 75)
	set.Set(models.MetricVolumeTrend, -5)
	set.Set(models.MetricRiskScore, 80)
	set.Set(models.MetricValueChange21d, -4.1)
	return set
}

func TestParseStrategiesWellFormed(t *testing.T) {
	set := ParseStrategies(wellFormedResponse)

	require.False(t, set.Unparsed)
	require.Len(t, set.Strategies, 2)

	first := set.Strategies[0]
	assert.Equal(t, "Green Transition", first.Name)
	assert.Contains(t, first.Commentary, "renewable energy")
	assert.Contains(t, first.SWOT.Strengths, "regulatory tailwinds")
	assert.Equal(t, []string{"Green Energy", "Technology"}, first.Sectors)

	assert.Equal(t, "Defensive Income", set.Strategies[1].Name)
	assert.Equal(t, []string{"Healthcare"}, set.Strategies[1].Sectors)
}

func TestParseStrategiesUnparsedVariant(t *testing.T) {
	raw := "I cannot generate strategies right now."
	set := ParseStrategies(raw)

	assert.True(t, set.Unparsed)
	assert.Empty(t, set.Strategies)
	assert.Equal(t, raw, set.Raw)
}

func TestParseStrategiesNameContainingStrategyWord(t *testing.T) {
	response := "Strategy 1:\nName: Barbell Strategy\nCommentary: Pairs safe bonds with speculative growth.\nStrengths: resilient under shocks\nSectors: Technology\n"
	set := ParseStrategies(response)

	require.False(t, set.Unparsed)
	require.Len(t, set.Strategies, 1)
	assert.Equal(t, "Barbell Strategy", set.Strategies[0].Name)
	assert.Equal(t, "resilient under shocks", set.Strategies[0].SWOT.Strengths)
}

func TestParseStrategiesSectionWithoutNameDiscarded(t *testing.T) {
	set := ParseStrategies("Strategy 1:\nCommentary: something\nSectors: Technology\n")
	assert.True(t, set.Unparsed)
}

func TestGenerateStrategiesAttachesRecommendations(t *testing.T) {
	analysisStub := &stubAnalysis{sets: map[string]*models.IndicatorSet{
		"ENPH": bullish("ENPH"),
		"FSLR": bullish("FSLR"),
		"SEDG": bearish("SEDG"),
	}}
	svc := NewService(analysisStub, &stubCompletion{text: wellFormedResponse}, common.NewSilentLogger())

	portfolio := models.NewEmptyAnalysis([]string{"XOM"})
	portfolio.StockMetrics["XOM"] = bearish("XOM")

	set, err := svc.GenerateStrategies(context.Background(), portfolio)
	require.NoError(t, err)
	require.Len(t, set.Strategies, 2)

	green := set.Strategies[0]
	require.Len(t, green.Buy, 2)
	buys := []string{green.Buy[0].Ticker, green.Buy[1].Ticker}
	assert.ElementsMatch(t, []string{"ENPH", "FSLR"}, buys)

	require.Len(t, green.Sell, 1)
	assert.Equal(t, "XOM", green.Sell[0].Ticker)
	assert.NotEmpty(t, green.Sell[0].Reason)
}

func TestRecommendExcludesHeldTickers(t *testing.T) {
	analysisStub := &stubAnalysis{sets: map[string]*models.IndicatorSet{
		"ENPH": bullish("ENPH"),
		"FSLR": bullish("FSLR"),
	}}
	svc := NewService(analysisStub, &stubCompletion{}, common.NewSilentLogger())

	portfolio := models.NewEmptyAnalysis([]string{"ENPH"})
	portfolio.StockMetrics["ENPH"] = bullish("ENPH")

	buy, _ := svc.recommend(context.Background(), []string{"Green Energy"}, portfolio)
	for _, rec := range buy {
		assert.NotEqual(t, "ENPH", rec.Ticker)
	}
}

func TestBuyAndSellScores(t *testing.T) {
	assert.InDelta(t, 1.0, buyScore(bullish("A")), 1e-9)
	assert.InDelta(t, 1.0, sellScore(bearish("A")), 1e-9)
	assert.InDelta(t, 0.0, sellScore(models.NewIndicatorSet("EMPTY")), 1e-9)
	// An empty set still earns nothing on the buy side.
	assert.InDelta(t, 0.0, buyScore(models.NewIndicatorSet("EMPTY")), 1e-9)
}

func TestPrimarySignalPriority(t *testing.T) {
	esg := models.NewIndicatorSet("A")
	esg.Set(models.MetricESGScore, 80)
	esg.Set(models.MetricValueChange21d, 2.5)
	assert.Equal(t, "+2.5% gain with strong ESG score (80.0)", primarySignal(esg))

	concern := models.NewIndicatorSet("B")
	concern.Set(models.MetricESGScore, 30)
	concern.Set(models.MetricValueChange21d, -1.2)
	assert.Equal(t, "-1.2% move with ESG concerns (30.0)", primarySignal(concern))

	uptrend := models.NewIndicatorSet("C")
	uptrend.Set(models.MetricTrendSignal, 1)
	uptrend.Set(models.MetricRiskScore, 42.3)
	uptrend.Set(models.MetricValueChange21d, 5.0)
	assert.Equal(t, "+5.0% uptrend with 42.3 risk score", primarySignal(uptrend))

	bare := models.NewIndicatorSet("D")
	bare.Set(models.MetricValueChange21d, 1.5)
	assert.Equal(t, "1.5% price movement", primarySignal(bare))
}

func TestGenerateStrategiesPropagatesCompletionError(t *testing.T) {
	svc := NewService(&stubAnalysis{}, &stubCompletion{err: assert.AnError}, common.NewSilentLogger())
	_, err := svc.GenerateStrategies(context.Background(), models.NewEmptyAnalysis(nil))
	assert.Error(t, err)
}

func TestGenerateStrategiesUnparsedPassesThrough(t *testing.T) {
	svc := NewService(&stubAnalysis{}, &stubCompletion{text: "no structure here"}, common.NewSilentLogger())
	set, err := svc.GenerateStrategies(context.Background(), models.NewEmptyAnalysis(nil))
	require.NoError(t, err)
	assert.True(t, set.Unparsed)
	assert.Equal(t, "no structure here", set.Raw)
}
