package signals

import (
	"math"

	"github.com/bobmcallan/advisor/internal/models"
)

// Risk score weights. Volatility and downside volatility dominate because
// they are the most statistically stable signals; RSI deviation and ESG
// are secondary.
const (
	weightVolatility  = 0.3
	weightDownsideVol = 0.3
	weightRSI         = 0.2
	weightESG         = 0.2
)

// neutralESG is the midpoint substituted when the ESG provider has no data
// for a ticker. The provenance stays explicit on the ESGScores input — the
// substitution happens only inside the score, never in reported metrics.
const neutralESG = 50.0

// RiskScore combines per-security risk inputs into a single score in
// [0,100]. Inputs are volatility and downside volatility in percent, RSI
// in [0,100], and an ESG score in [0,100].
func RiskScore(volatility, downsideVol, rsi, esgScore float64) float64 {
	volScore := math.Min(volatility/50, 1)
	downScore := math.Min(math.Abs(downsideVol)/40, 1)
	rsiScore := math.Abs(50-rsi) / 50
	esgRisk := (100 - esgScore) / 100

	score := 100 * (weightVolatility*volScore +
		weightDownsideVol*downScore +
		weightRSI*rsiScore +
		weightESG*esgRisk)

	return clamp(score, 0, 100)
}

// RiskScoreWithESG applies RiskScore using the provider ESG score when
// known, or the neutral midpoint when the provider had no data.
func RiskScoreWithESG(volatility, downsideVol, rsi float64, esg *models.ESGScores) float64 {
	esgScore := neutralESG
	if esg != nil && esg.Known {
		esgScore = esg.TotalESG
	}
	return RiskScore(volatility, downsideVol, rsi, esgScore)
}

// PortfolioRiskScore is the portfolio-wide variant, folding annualized
// volatility (percent) and maximum drawdown (negative percent) together
// with a 0.7/0.3 weighting. Kept distinct from RiskScore — call sites use
// different input shapes.
func PortfolioRiskScore(annualizedVolPct, maxDrawdownPct float64) float64 {
	// 40% annual volatility normalizes to the maximum score.
	volScore := math.Min(100, annualizedVolPct*100/40)
	ddScore := math.Min(100, math.Abs(maxDrawdownPct))

	return clamp(0.7*volScore+0.3*ddScore, 0, 100)
}

// Categorize maps a risk score to its band. Bands are inclusive on the
// lower side, exclusive on the upper: [0,33) Low, [33,66) Medium, else High.
func Categorize(score float64) models.RiskCategory {
	if score < 33 {
		return models.RiskLow
	}
	if score < 66 {
		return models.RiskMedium
	}
	return models.RiskHigh
}

// Assess scores and categorizes in one call.
func Assess(volatility, downsideVol, rsi, esgScore float64) models.RiskAssessment {
	score := RiskScore(volatility, downsideVol, rsi, esgScore)
	return models.RiskAssessment{Score: score, Category: Categorize(score)}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
