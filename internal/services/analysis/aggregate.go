package analysis

import (
	"time"

	"github.com/bobmcallan/advisor/internal/models"
	"github.com/bobmcallan/advisor/internal/references"
)

// Aggregate folds per-ticker indicator sets into portfolio-level metrics.
// Every aggregate is an equal-weight mean over the tickers that computed
// the underlying indicator, except max drawdown which is the worst case.
// A key with no contributors is omitted. Deterministic and independent of
// ticker order.
func Aggregate(tickers []string, sets map[string]*models.IndicatorSet) *models.PortfolioAnalysis {
	analysis := models.NewEmptyAnalysis(tickers)
	analysis.StockMetrics = sets
	analysis.GeneratedAt = time.Now()

	if len(sets) == 0 {
		return analysis
	}

	setMean := func(dst map[string]float64, dstKey, srcKey string) {
		if mean, ok := meanOf(sets, srcKey); ok {
			dst[dstKey] = mean
		}
	}

	setMean(analysis.PortfolioMetrics, models.PortfolioTotalReturn, models.MetricValueChange21d)
	setMean(analysis.PortfolioMetrics, models.PortfolioVolatility, models.MetricVolatility)
	setMean(analysis.PortfolioMetrics, models.PortfolioAvgESGScore, models.MetricESGScore)
	setMean(analysis.PortfolioMetrics, models.PortfolioAvgRiskScore, models.MetricRiskScore)
	if worst, ok := worstOf(sets, models.MetricMaxDrawdown); ok {
		analysis.PortfolioMetrics[models.PortfolioMaxDrawdown] = worst
	}

	analysis.SectorExposure = sectorExposure(tickers)

	setMean(analysis.RiskProfile, models.RiskProfileVolatility, models.MetricVolatility)
	if worst, ok := worstOf(sets, models.MetricMaxDrawdown); ok {
		analysis.RiskProfile[models.RiskProfileDrawdown] = worst
	}
	if mean, ok := meanOf(sets, models.MetricESGScore); ok {
		analysis.RiskProfile[models.RiskProfileESG] = 100 - mean
	}
	setMean(analysis.RiskProfile, models.RiskProfileClimate, models.MetricClimateRisk)
	setMean(analysis.RiskProfile, models.RiskProfileGovernance, models.MetricGovernanceRisk)

	setMean(analysis.ESGMetrics, models.ESGAvgScore, models.MetricESGScore)
	if min, ok := minOf(sets, models.MetricESGScore); ok {
		analysis.ESGMetrics[models.ESGMinScore] = min
	}
	if max, ok := maxOf(sets, models.MetricESGScore); ok {
		analysis.ESGMetrics[models.ESGMaxScore] = max
	}
	setMean(analysis.ESGMetrics, models.ESGAvgClimate, models.MetricClimateRisk)
	setMean(analysis.ESGMetrics, models.ESGAvgGovernance, models.MetricGovernanceRisk)

	return analysis
}

// sectorExposure attributes each ticker to its first listed sector, each
// contributing 100/len(tickers) percent. Unmapped tickers contribute to no
// sector, so exposures may sum below 100.
func sectorExposure(tickers []string) map[string]float64 {
	exposure := make(map[string]float64)
	if len(tickers) == 0 {
		return exposure
	}
	weight := 100.0 / float64(len(tickers))
	for _, ticker := range tickers {
		if sector := references.SectorForTicker(ticker); sector != "" {
			exposure[sector] += weight
		}
	}
	return exposure
}

func meanOf(sets map[string]*models.IndicatorSet, key string) (float64, bool) {
	sum, n := 0.0, 0
	for _, set := range sets {
		if v, ok := set.Get(key); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// worstOf returns the most negative value across sets.
func worstOf(sets map[string]*models.IndicatorSet, key string) (float64, bool) {
	worst, found := 0.0, false
	for _, set := range sets {
		if v, ok := set.Get(key); ok {
			if !found || v < worst {
				worst = v
			}
			found = true
		}
	}
	return worst, found
}

func minOf(sets map[string]*models.IndicatorSet, key string) (float64, bool) {
	return worstOf(sets, key)
}

func maxOf(sets map[string]*models.IndicatorSet, key string) (float64, bool) {
	best, found := 0.0, false
	for _, set := range sets {
		if v, ok := set.Get(key); ok {
			if !found || v > best {
				best = v
			}
			found = true
		}
	}
	return best, found
}
