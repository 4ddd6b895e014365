// Package signals provides signal computation
package signals

import (
	"github.com/bobmcallan/advisor/internal/models"
)

// Computer converts a validated price series into an IndicatorSet.
type Computer struct{}

// NewComputer creates a new indicator computer
func NewComputer() *Computer {
	return &Computer{}
}

// Compute calculates all indicators for a ticker. The series is validated
// first; fewer than 2 usable rows fails the whole set. Any single
// indicator that cannot be computed (insufficient window) is omitted from
// the result — callers treat missing keys as "not computable", never zero.
//
// ESG sub-scores come from the ESG provider, already resolved; they are
// recorded only when the provider actually had data.
func (c *Computer) Compute(series *models.PriceSeries, esg *models.ESGScores) (*models.IndicatorSet, error) {
	validated, err := series.Validate()
	if err != nil {
		return nil, err
	}

	closes := validated.Closes()
	volumes := make([]int64, len(validated.Bars))
	for i, b := range validated.Bars {
		volumes[i] = b.Volume
	}
	returns := DailyReturns(closes)

	set := models.NewIndicatorSet(series.Ticker)

	if v, err := ChangeOverPeriod(closes, 21); err == nil {
		set.Set(models.MetricValueChange21d, v)
	}
	if v, err := ChangeOverPeriod(closes, 30); err == nil {
		set.Set(models.MetricMonthlyReturn, v)
	}
	if v, err := YTDReturn(closes); err == nil {
		set.Set(models.MetricYTDReturn, v)
	}
	if v, err := Volatility(returns); err == nil {
		set.Set(models.MetricVolatility, v)
	}
	if v, err := DownsideVolatility(returns); err == nil {
		set.Set(models.MetricDownsideVol, v)
	}
	if v, err := MaxDrawdown(closes); err == nil {
		set.Set(models.MetricMaxDrawdown, v)
	}
	if v, err := Momentum(closes); err == nil {
		set.Set(models.MetricMomentum, v)
	}
	if v, err := TrendSignal(closes); err == nil {
		set.Set(models.MetricTrendSignal, float64(v))
	}
	if v, err := RSI(closes, 14); err == nil {
		set.Set(models.MetricRSI, v)
	}
	if v, err := MACDSignal(closes); err == nil {
		set.Set(models.MetricMACDSignal, float64(v))
	}
	if v, err := VolumeTrend(volumes); err == nil {
		set.Set(models.MetricVolumeTrend, v)
	}

	if esg != nil && esg.Known {
		set.Set(models.MetricESGScore, esg.TotalESG)
		set.Set(models.MetricGovernanceRisk, esg.GovernanceRisk)
		set.Set(models.MetricClimateRisk, esg.ClimateRisk)
	}

	// Risk score needs the volatility trio; below that window the security
	// has no meaningful risk signal and the key is omitted.
	vol, hasVol := set.Get(models.MetricVolatility)
	down, hasDown := set.Get(models.MetricDownsideVol)
	rsi, hasRSI := set.Get(models.MetricRSI)
	if hasVol && hasDown && hasRSI {
		set.Set(models.MetricRiskScore, RiskScoreWithESG(vol, down, rsi, esg))
	}

	return set, nil
}
