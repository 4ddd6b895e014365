package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/advisor/internal/models"
)

func TestRiskScore(t *testing.T) {
	tests := []struct {
		name        string
		volatility  float64
		downsideVol float64
		rsi         float64
		esgScore    float64
		expected    float64
	}{
		{
			name:       "calm neutral stock with perfect ESG",
			volatility: 0, downsideVol: 0, rsi: 50, esgScore: 100,
			expected: 0,
		},
		{
			name:       "maximum everything",
			volatility: 100, downsideVol: 100, rsi: 0, esgScore: 0,
			expected: 100,
		},
		{
			name:       "mid-range inputs",
			volatility: 25, downsideVol: 20, rsi: 60, esgScore: 50,
			// 0.3*0.5 + 0.3*0.5 + 0.2*0.2 + 0.2*0.5 = 0.44
			expected: 44,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := RiskScore(tt.volatility, tt.downsideVol, tt.rsi, tt.esgScore)
			assert.InDelta(t, tt.expected, score, 0.01)
		})
	}
}

func TestRiskScoreBounds(t *testing.T) {
	inputs := [][4]float64{
		{0, 0, 0, 0},
		{500, 500, 100, 100},
		{42, -18, 71, 63},
		{1000, -1000, 0, -50},
	}
	for _, in := range inputs {
		score := RiskScore(in[0], in[1], in[2], in[3])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	}
}

func TestRiskScoreWithESG(t *testing.T) {
	t.Run("unknown ESG uses neutral midpoint", func(t *testing.T) {
		unknown := RiskScoreWithESG(25, 20, 60, &models.ESGScores{Known: false, TotalESG: 99})
		explicit := RiskScore(25, 20, 60, 50)
		assert.InDelta(t, explicit, unknown, 1e-9)
	})

	t.Run("nil ESG uses neutral midpoint", func(t *testing.T) {
		assert.InDelta(t, RiskScore(25, 20, 60, 50), RiskScoreWithESG(25, 20, 60, nil), 1e-9)
	})

	t.Run("known ESG is applied", func(t *testing.T) {
		score := RiskScoreWithESG(25, 20, 60, &models.ESGScores{Known: true, TotalESG: 90})
		assert.InDelta(t, RiskScore(25, 20, 60, 90), score, 1e-9)
	})
}

func TestPortfolioRiskScore(t *testing.T) {
	t.Run("combines volatility and drawdown 70/30", func(t *testing.T) {
		// vol 20% -> volScore 50; drawdown -30% -> ddScore 30
		score := PortfolioRiskScore(20, -30)
		assert.InDelta(t, 0.7*50+0.3*30, score, 0.01)
	})

	t.Run("clamped to 100", func(t *testing.T) {
		assert.Equal(t, 100.0, PortfolioRiskScore(400, -100))
	})
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		score    float64
		expected models.RiskCategory
	}{
		{0, models.RiskLow},
		{32.9, models.RiskLow},
		{33.0, models.RiskMedium},
		{65.9, models.RiskMedium},
		{66.0, models.RiskHigh},
		{100, models.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, Categorize(tt.score))
		})
	}
}
