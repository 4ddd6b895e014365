package analysis

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/advisor/internal/models"
	"github.com/bobmcallan/advisor/internal/signals"
)

// volatilityWindow is the rolling window for the volatility overlay, one
// trading month.
const volatilityWindow = 21

// RenderRiskChart renders a PNG line chart of closing price with an
// annualized rolling-volatility overlay on the secondary axis.
// Returns raw PNG bytes.
func RenderRiskChart(series *models.PriceSeries) ([]byte, error) {
	closes := series.Closes()
	if len(closes) < volatilityWindow+2 {
		return nil, fmt.Errorf("need at least %d data points, got %d", volatilityWindow+2, len(closes))
	}

	returns := signals.DailyReturns(closes)
	rolling := signals.RollingStdDev(returns, volatilityWindow)

	// The overlay starts once a full window of returns exists; align both
	// series on the same dates.
	offset := len(closes) - len(rolling)
	xValues := make([]time.Time, len(rolling))
	priceY := make([]float64, len(rolling))
	volY := make([]float64, len(rolling))

	for i := range rolling {
		bar := series.Bars[offset+i]
		xValues[i] = bar.Date
		priceY[i] = bar.Close
		volY[i] = rolling[i] * math.Sqrt(252) * 100
	}

	priceSeries := chart.TimeSeries{
		Name: series.Ticker + " Close",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.0,
		},
		XValues: xValues,
		YValues: priceY,
	}

	volSeries := chart.TimeSeries{
		Name: "Rolling Volatility (ann. %)",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("dc2626"), // red-600
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		YAxis:   chart.YAxisSecondary,
		XValues: xValues,
		YValues: volY,
	}

	graph := chart.Chart{
		Title:  series.Ticker + " Risk Profile",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		YAxisSecondary: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			priceSeries,
			volSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
