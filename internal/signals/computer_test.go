package signals

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/advisor/internal/models"
)

// genSeries builds a price series with the given closes, one bar per day.
func genSeries(ticker string, closes []float64, volume int64) *models.PriceSeries {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.PriceBar{
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: volume,
		}
	}
	return &models.PriceSeries{Ticker: ticker, Bars: bars}
}

func TestComputeFullSeries(t *testing.T) {
	closes := genCloses(100, 0.5, 260)
	set, err := NewComputer().Compute(genSeries("AAPL", closes, 1000000), nil)
	require.NoError(t, err)

	for _, key := range []string{
		models.MetricValueChange21d,
		models.MetricMonthlyReturn,
		models.MetricYTDReturn,
		models.MetricVolatility,
		models.MetricDownsideVol,
		models.MetricMaxDrawdown,
		models.MetricMomentum,
		models.MetricTrendSignal,
		models.MetricRSI,
		models.MetricMACDSignal,
		models.MetricVolumeTrend,
		models.MetricRiskScore,
	} {
		assert.True(t, set.Has(key), "expected %s to be computed", key)
	}

	// No NaN ever stands in for omission.
	for key, v := range set.Values {
		assert.False(t, math.IsNaN(v), "%s is NaN", key)
	}

	trend, _ := set.Get(models.MetricTrendSignal)
	assert.Equal(t, 1.0, trend)
}

func TestComputeShortSeriesOmitsWindowedIndicators(t *testing.T) {
	// 10 rows: enough to validate, too short for 21d change, RSI(14),
	// trend, or volume trend.
	set, err := NewComputer().Compute(genSeries("MSFT", genCloses(100, 1, 10), 5000), nil)
	require.NoError(t, err)

	assert.False(t, set.Has(models.MetricValueChange21d))
	assert.False(t, set.Has(models.MetricRSI))
	assert.False(t, set.Has(models.MetricTrendSignal))
	assert.False(t, set.Has(models.MetricVolumeTrend))
	assert.False(t, set.Has(models.MetricRiskScore)) // needs RSI

	assert.True(t, set.Has(models.MetricVolatility))
	assert.True(t, set.Has(models.MetricYTDReturn))
	assert.True(t, set.Has(models.MetricMomentum))
}

func TestComputeRejectsTooShortSeries(t *testing.T) {
	_, err := NewComputer().Compute(genSeries("GOOGL", []float64{100}, 100), nil)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestComputeESGProvenance(t *testing.T) {
	closes := genCloses(100, 0.2, 40)

	t.Run("unknown ESG omits ESG keys but still scores risk", func(t *testing.T) {
		set, err := NewComputer().Compute(genSeries("TSLA", closes, 9000), &models.ESGScores{Known: false})
		require.NoError(t, err)
		assert.False(t, set.Has(models.MetricESGScore))
		assert.False(t, set.Has(models.MetricGovernanceRisk))
		assert.True(t, set.Has(models.MetricRiskScore))
	})

	t.Run("known ESG is carried through", func(t *testing.T) {
		esg := &models.ESGScores{Known: true, TotalESG: 72, GovernanceRisk: 25, ClimateRisk: 31}
		set, err := NewComputer().Compute(genSeries("TSLA", closes, 9000), esg)
		require.NoError(t, err)
		assert.Equal(t, 72.0, set.GetOr(models.MetricESGScore, 0))
		assert.Equal(t, 25.0, set.GetOr(models.MetricGovernanceRisk, 0))
		assert.Equal(t, 31.0, set.GetOr(models.MetricClimateRisk, 0))
	})
}

func TestValidateSynthesizesFlatOHLC(t *testing.T) {
	dates := []time.Time{
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
	}
	series := models.NewSeriesFromCloses("NVDA", dates, []float64{10, 11, 12})

	validated, err := series.Validate()
	require.NoError(t, err)
	require.Equal(t, 3, validated.Len())
	assert.Equal(t, validated.Bars[0].Close, validated.Bars[0].High)
	assert.Equal(t, validated.Bars[0].Close, validated.Bars[0].Low)
}

func TestValidateDropsMissingValues(t *testing.T) {
	series := genSeries("AMD", []float64{100, 101, 102, 103}, 100)
	series.Bars[1].Close = math.NaN()
	series.Bars[2].Close = 0

	validated, err := series.Validate()
	require.NoError(t, err)
	assert.Equal(t, 2, validated.Len())
}
