// Package models defines data structures for Advisor
package models

import "time"

// Indicator names used as IndicatorSet keys. A missing key means the
// indicator could not be computed for the series — it is never zero-filled.
const (
	MetricValueChange21d = "value_change_21d"
	MetricMonthlyReturn  = "monthly_return"
	MetricYTDReturn      = "ytd_return"
	MetricVolatility     = "volatility"
	MetricDownsideVol    = "downside_vol"
	MetricMaxDrawdown    = "max_drawdown"
	MetricMomentum       = "momentum"
	MetricTrendSignal    = "trend_signal"
	MetricRSI            = "rsi"
	MetricMACDSignal     = "macd_signal"
	MetricVolumeTrend    = "volume_trend"
	MetricESGScore       = "esg_score"
	MetricGovernanceRisk = "governance_risk"
	MetricClimateRisk    = "climate_risk"
	MetricRiskScore      = "risk_score"
)

// IndicatorSet holds all indicators computed for one security in one
// analysis run. Ephemeral — recomputed per request, never persisted.
type IndicatorSet struct {
	Ticker string             `json:"ticker"`
	Values map[string]float64 `json:"values"`
}

// NewIndicatorSet creates an empty indicator set for a ticker.
func NewIndicatorSet(ticker string) *IndicatorSet {
	return &IndicatorSet{Ticker: ticker, Values: make(map[string]float64)}
}

// Set records an indicator value.
func (s *IndicatorSet) Set(name string, value float64) {
	s.Values[name] = value
}

// Get returns an indicator value and whether it was computed.
func (s *IndicatorSet) Get(name string) (float64, bool) {
	v, ok := s.Values[name]
	return v, ok
}

// GetOr returns the indicator value, or fallback when it was not computed.
func (s *IndicatorSet) GetOr(name string, fallback float64) float64 {
	if v, ok := s.Values[name]; ok {
		return v
	}
	return fallback
}

// Has reports whether the indicator was computed.
func (s *IndicatorSet) Has(name string) bool {
	_, ok := s.Values[name]
	return ok
}

// ESGScores holds provider sub-scores with explicit provenance. Known is
// false when the provider had no data — consumers must treat that as
// "unknown", never fabricate a number.
type ESGScores struct {
	Ticker         string    `json:"ticker"`
	Known          bool      `json:"known"`
	TotalESG       float64   `json:"total_esg"`
	Environment    float64   `json:"environment"`
	Social         float64   `json:"social"`
	Governance     float64   `json:"governance"`
	GovernanceRisk float64   `json:"governance_risk"`
	ClimateRisk    float64   `json:"climate_risk"`
	RetrievedAt    time.Time `json:"retrieved_at"`
}

// RiskCategory labels a risk score band.
type RiskCategory string

const (
	RiskLow    RiskCategory = "Low Risk"
	RiskMedium RiskCategory = "Medium Risk"
	RiskHigh   RiskCategory = "High Risk"
)

// RiskAssessment is the output of the risk scorer.
type RiskAssessment struct {
	Score    float64      `json:"score"`
	Category RiskCategory `json:"category"`
}
