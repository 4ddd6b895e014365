package interfaces

import (
	"context"

	"github.com/bobmcallan/advisor/internal/models"
)

// AnalysisService computes indicator sets and portfolio-level aggregates.
type AnalysisService interface {
	AnalyzeTicker(ctx context.Context, ticker string) (*models.IndicatorSet, error)
	AnalyzePortfolio(ctx context.Context, tickers []string) (*models.PortfolioAnalysis, error)
	RenderRiskChart(ctx context.Context, ticker string) ([]byte, error)
}

// SessionService manages conversational sessions and their accumulated state.
type SessionService interface {
	GetOrCreate(sessionID string) *models.ChatSession
	SupplyPortfolio(ctx context.Context, sessionID string, tickers []string) (*models.PortfolioAnalysis, error)
	AttachReport(ctx context.Context, sessionID, reference string, document []byte, text string) (*models.ReportAnalysis, error)
	ProcessMessage(ctx context.Context, sessionID, message string, document []byte, tickers []string) (*models.AssistantReply, error)
	Reset(sessionID string)
}

// StrategyService generates investment strategies and scores tickers
// against them.
type StrategyService interface {
	GenerateStrategies(ctx context.Context, analysis *models.PortfolioAnalysis) (*models.StrategySet, error)
	Recommend(ctx context.Context, strategies *models.StrategySet, analysis *models.PortfolioAnalysis) (buy, sell []models.Recommendation, err error)
}
