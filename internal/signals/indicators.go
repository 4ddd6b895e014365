// Package signals provides technical indicator calculations
package signals

import (
	"math"

	"github.com/bobmcallan/advisor/internal/models"
)

const tradingDaysPerYear = 252

// DailyReturns calculates simple percentage change between consecutive
// closes. The result has len(closes)-1 entries.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}

// stdDev computes the sample standard deviation (n-1 denominator).
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

// Volatility returns annualized volatility of daily returns, in percent.
func Volatility(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, models.ErrInsufficientData
	}
	return stdDev(returns) * math.Sqrt(tradingDaysPerYear) * 100, nil
}

// DownsideVolatility is annualized volatility restricted to negative-return
// days, in percent. A series with no negative days has zero downside.
func DownsideVolatility(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, models.ErrInsufficientData
	}
	var negatives []float64
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	if len(negatives) == 0 {
		return 0, nil
	}
	return stdDev(negatives) * math.Sqrt(tradingDaysPerYear) * 100, nil
}

// MaxDrawdown returns the worst peak-to-trough decline of the cumulative
// return curve, in percent. Always <= 0.
func MaxDrawdown(closes []float64) (float64, error) {
	returns := DailyReturns(closes)
	if len(returns) == 0 {
		return 0, models.ErrInsufficientData
	}

	cumulative := 1.0
	peak := 1.0
	minDrawdown := 0.0
	for _, r := range returns {
		cumulative *= 1 + r
		if cumulative > peak {
			peak = cumulative
		}
		drawdown := (cumulative - peak) / peak
		if drawdown < minDrawdown {
			minDrawdown = drawdown
		}
	}
	return minDrawdown * 100, nil
}

// RSI calculates the Relative Strength Index over a trailing window using
// simple moving averages of gains and losses (not Wilder smoothing).
// When the loss average is zero, RSI is defined as 50 (neutral).
func RSI(closes []float64, period int) (float64, error) {
	if len(closes) < period+1 {
		return 0, models.ErrInsufficientData
	}

	var gains, losses float64
	start := len(closes) - period
	for i := start; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 50, nil
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), nil
}

// emaSeries computes an exponential moving average over the whole series,
// seeded with the first value (matching an adjust=false recursive EMA).
func emaSeries(values []float64, span int) []float64 {
	if len(values) == 0 {
		return nil
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// SMA returns the simple moving average of the trailing window.
func SMA(closes []float64, window int) (float64, error) {
	if len(closes) < window {
		return 0, models.ErrInsufficientData
	}
	var sum float64
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return sum / float64(window), nil
}

// MACDSignal returns +1 when the MACD line (EMA12-EMA26) is above its own
// EMA9 signal line, else -1.
func MACDSignal(closes []float64) (int, error) {
	if len(closes) < 2 {
		return 0, models.ErrInsufficientData
	}

	fast := emaSeries(closes, 12)
	slow := emaSeries(closes, 26)
	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = fast[i] - slow[i]
	}
	signal := emaSeries(macd, 9)

	last := len(closes) - 1
	if macd[last] > signal[last] {
		return 1, nil
	}
	return -1, nil
}

// TrendSignal returns +1 when the 50-period SMA is above the 200-period
// SMA, else -1. Requires at least 200 data points — callers treat a missing
// trend signal as unknown.
func TrendSignal(closes []float64) (int, error) {
	sma50, err := SMA(closes, 50)
	if err != nil {
		return 0, err
	}
	sma200, err := SMA(closes, 200)
	if err != nil {
		return 0, err
	}
	if sma50 > sma200 {
		return 1, nil
	}
	return -1, nil
}

// Momentum returns the percentage change over the trailing 10 periods.
func Momentum(closes []float64) (float64, error) {
	return ChangeOverPeriod(closes, 10)
}

// ChangeOverPeriod returns the percentage change between the close n
// periods back and the latest close.
func ChangeOverPeriod(closes []float64, n int) (float64, error) {
	if len(closes) < n {
		return 0, models.ErrInsufficientData
	}
	base := closes[len(closes)-n]
	if base == 0 {
		return 0, models.ErrInsufficientData
	}
	return (closes[len(closes)-1]/base - 1) * 100, nil
}

// YTDReturn returns the percentage change from the first close of the
// series to the latest.
func YTDReturn(closes []float64) (float64, error) {
	if len(closes) < 2 || closes[0] == 0 {
		return 0, models.ErrInsufficientData
	}
	return (closes[len(closes)-1]/closes[0] - 1) * 100, nil
}

// VolumeTrend compares mean volume over the last 5 periods to mean volume
// over the preceding 15, expressed as a percentage change.
func VolumeTrend(volumes []int64) (float64, error) {
	if len(volumes) < 20 {
		return 0, models.ErrInsufficientData
	}

	recent := volumes[len(volumes)-5:]
	prior := volumes[len(volumes)-20 : len(volumes)-5]

	recentMean := meanInt64(recent)
	priorMean := meanInt64(prior)
	if priorMean == 0 {
		return 0, models.ErrInsufficientData
	}
	return (recentMean/priorMean - 1) * 100, nil
}

func meanInt64(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// RollingStdDev returns the trailing standard deviation of daily returns
// over the given window, one value per return starting from the first full
// window. Used by the risk chart.
func RollingStdDev(returns []float64, window int) []float64 {
	if len(returns) < window {
		return nil
	}
	out := make([]float64, 0, len(returns)-window+1)
	for i := window; i <= len(returns); i++ {
		out = append(out, stdDev(returns[i-window:i]))
	}
	return out
}
