package references

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectorOrderCoversAllSectors(t *testing.T) {
	assert.Len(t, SectorOrder, len(SectorTickers))
	for _, sector := range SectorOrder {
		assert.Contains(t, SectorTickers, sector)
	}
}

func TestSectorForTickerFirstMatch(t *testing.T) {
	// NVDA appears in Technology, AI, and Semiconductors; first listed wins.
	assert.Equal(t, "Technology", SectorForTicker("NVDA"))
	assert.Equal(t, "EV", SectorForTicker("TSLA"))
	assert.Equal(t, "Green Energy", SectorForTicker("ENPH"))
	assert.Equal(t, "", SectorForTicker("ZZZZ"))
}

func TestNormalizeSectorName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tech", "Technology"},
		{"Artificial Intelligence", "AI"},
		{"  banking ", "Finance"},
		{"solar", "Green Energy"},
		{"healthcare", "Healthcare"},
		{"social media", "Social Media"},
		{"made up sector", "Made Up Sector"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSectorName(tt.in), tt.in)
	}
}

func TestTickersForSectorsDeduplicates(t *testing.T) {
	// Technology and AI overlap heavily; the union keeps one copy of each.
	tickers := TickersForSectors([]string{"Technology", "AI"})
	seen := make(map[string]int)
	for _, tk := range tickers {
		seen[tk]++
	}
	for tk, n := range seen {
		assert.Equal(t, 1, n, tk)
	}
	assert.Contains(t, tickers, "PLTR")
	assert.Contains(t, tickers, "AAPL")
}

func TestTickersForSectorsUnknownSector(t *testing.T) {
	assert.Empty(t, TickersForSectors([]string{"Nonexistent"}))
}
