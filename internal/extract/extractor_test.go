package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRevenue(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []float64
	}{
		{
			name:     "billion normalized to millions",
			text:     "Revenue reached $1.5 billion in Q4",
			expected: []float64{1500},
		},
		{
			name:     "millions kept as-is",
			text:     "Revenue of $250 million for the year.",
			expected: []float64{250},
		},
		{
			name:     "short unit suffix",
			text:     "quarterly revenue was 2.1B",
			expected: []float64{2100},
		},
		{
			name:     "no revenue in text",
			text:     "The weather was pleasant all quarter.",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := Extract(tt.text)
			assert.Equal(t, tt.expected, metrics.Revenue)
		})
	}
}

func TestExtractMargins(t *testing.T) {
	metrics := Extract("Gross margin improved to 42.5% while operating margin held at 18%.")
	require.Len(t, metrics.Margins, 2)
	assert.Equal(t, "gross", metrics.Margins[0].Type)
	assert.InDelta(t, 42.5, metrics.Margins[0].Value, 0.001)
	assert.Equal(t, "operating", metrics.Margins[1].Type)
	assert.InDelta(t, 18.0, metrics.Margins[1].Value, 0.001)
}

func TestExtractGrowthRates(t *testing.T) {
	metrics := Extract("Revenue growth of 12.3% as subscriptions grew by 40%.")
	require.Len(t, metrics.GrowthRates, 2)
	assert.Equal(t, "revenue", metrics.GrowthRates[0].Type)
	assert.InDelta(t, 12.3, metrics.GrowthRates[0].Value, 0.001)
	assert.Equal(t, "growth", metrics.GrowthRates[1].Type)
	assert.InDelta(t, 40.0, metrics.GrowthRates[1].Value, 0.001)
}

func TestExtractRatios(t *testing.T) {
	metrics := Extract("The stock trades at a P/E of 24.8 with ROE near 15%.")
	require.Len(t, metrics.Ratios, 2)
	assert.Equal(t, "p/e", metrics.Ratios[0].Type)
	assert.InDelta(t, 24.8, metrics.Ratios[0].Value, 0.001)
	assert.Equal(t, "roe", metrics.Ratios[1].Type)
}

func TestExtractOrderFollowsSourcePosition(t *testing.T) {
	// "sales" rule is catalogued after "revenue" but appears first in text.
	metrics := Extract("Sales came in at $300 million. Later, revenue hit $2 billion.")
	require.Len(t, metrics.Revenue, 2)
	assert.InDelta(t, 300, metrics.Revenue[0], 0.001)
	assert.InDelta(t, 2000, metrics.Revenue[1], 0.001)
}

func TestExtractDatesAndCurrency(t *testing.T) {
	metrics := Extract("Results for Q3 2024, announced Oct 15, 2024: profit of $4,500.25.")
	assert.NotEmpty(t, metrics.Dates)
	assert.Contains(t, metrics.Dates, "2024")
	require.NotEmpty(t, metrics.CurrencyValues)
	assert.InDelta(t, 4500.25, metrics.CurrencyValues[0], 0.001)
}

func TestExtractCompanyInfo(t *testing.T) {
	metrics := Extract("Company Name: Acme Industries\nTicker: ACME\nSector: Technology\n")
	require.NotNil(t, metrics.CompanyInfo)
	assert.Equal(t, "Acme Industries", metrics.CompanyInfo["company_name"])
	assert.Equal(t, "ACME", metrics.CompanyInfo["ticker"])
	assert.Equal(t, "Technology", metrics.CompanyInfo["sector"])
}

func TestExtractMarketData(t *testing.T) {
	metrics := Extract("Market cap stands at $3.2 billion with share price around $45.80.")
	require.NotNil(t, metrics.MarketData)
	assert.InDelta(t, 3200, metrics.MarketData["market_cap"], 0.001)
	assert.InDelta(t, 45.80, metrics.MarketData["share_price"], 0.001)
}

func TestExtractToleratesJunk(t *testing.T) {
	for _, text := range []string{"", "%%%$$$|||", "\n\n\n", "lorem ipsum dolor"} {
		metrics := Extract(text)
		require.NotNil(t, metrics)
	}
}

func TestExtractEmptyTextIsEmptyResult(t *testing.T) {
	metrics := Extract("nothing financial here")
	assert.Empty(t, metrics.Revenue)
	assert.Empty(t, metrics.Margins)
	assert.Empty(t, metrics.CompanyInfo)
	assert.True(t, func() bool {
		return len(metrics.Revenue) == 0 && len(metrics.Ratios) == 0
	}())
}
