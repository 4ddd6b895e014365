package interfaces

import (
	"context"

	"github.com/bobmcallan/advisor/internal/models"
)

// MarketDataClient fetches price history and fundamentals for a ticker.
type MarketDataClient interface {
	GetPriceHistory(ctx context.Context, ticker string, days int) (*models.PriceSeries, error)
	GetFundamentals(ctx context.Context, ticker string) (*models.Fundamentals, error)
}

// ESGClient fetches ESG sub-scores for a ticker. Implementations report
// availability through ESGScores.Known rather than an error so callers can
// distinguish "provider has no data" from "provider is down".
type ESGClient interface {
	GetESGScores(ctx context.Context, ticker string) (*models.ESGScores, error)
}

// CompletionClient produces a free-text completion for a prompt.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	IsAvailable() bool
}
