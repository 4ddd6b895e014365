// Package models defines data structures for Advisor
package models

import "time"

// PortfolioAnalysis is a full analysis of one portfolio, created fresh per
// chat turn that supplies a portfolio. Owned exclusively by the session
// that triggered it.
type PortfolioAnalysis struct {
	Tickers          []string                 `json:"tickers"`
	PortfolioMetrics map[string]float64       `json:"portfolio_metrics"`
	StockMetrics     map[string]*IndicatorSet `json:"stock_metrics"`
	SectorExposure   map[string]float64       `json:"sector_exposure"`
	RiskProfile      map[string]float64       `json:"risk_profile"`
	ESGMetrics       map[string]float64       `json:"esg_metrics"`
	GeneratedAt      time.Time                `json:"generated_at"`
}

// NewEmptyAnalysis returns the defined empty aggregate structure. Used when
// a portfolio is empty or every ticker failed — not an error state.
func NewEmptyAnalysis(tickers []string) *PortfolioAnalysis {
	return &PortfolioAnalysis{
		Tickers:          tickers,
		PortfolioMetrics: map[string]float64{},
		StockMetrics:     map[string]*IndicatorSet{},
		SectorExposure:   map[string]float64{},
		RiskProfile:      map[string]float64{},
		ESGMetrics:       map[string]float64{},
		GeneratedAt:      time.Now(),
	}
}

// Portfolio metric keys.
const (
	PortfolioTotalReturn  = "total_return"
	PortfolioVolatility   = "portfolio_volatility"
	PortfolioAvgESGScore  = "avg_esg_score"
	PortfolioAvgRiskScore = "avg_risk_score"
	PortfolioMaxDrawdown  = "max_drawdown"
)

// Risk profile keys.
const (
	RiskProfileVolatility = "volatility_risk"
	RiskProfileDrawdown   = "drawdown_risk"
	RiskProfileESG        = "esg_risk"
	RiskProfileClimate    = "climate_risk"
	RiskProfileGovernance = "governance_risk"
)

// ESG metric keys.
const (
	ESGAvgScore      = "avg_esg_score"
	ESGMinScore      = "min_esg_score"
	ESGMaxScore      = "max_esg_score"
	ESGAvgClimate    = "avg_climate_risk"
	ESGAvgGovernance = "avg_governance_risk"
)
