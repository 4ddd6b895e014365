// Package models defines data structures for Advisor
package models

import "time"

// ReportMetrics is the categorized extraction result for one document.
// Nil/empty slices and maps mean the category had no matches — the expected
// case for most documents, not an error.
type ReportMetrics struct {
	Revenue        []float64          `json:"revenue,omitempty"` // millions
	Margins        []TypedValue       `json:"margins,omitempty"`
	GrowthRates    []TypedValue       `json:"growth_rates,omitempty"`
	Ratios         []TypedValue       `json:"ratios,omitempty"`
	Dates          []string           `json:"dates,omitempty"`
	CurrencyValues []float64          `json:"currency_values,omitempty"`
	Percentages    []float64          `json:"percentages,omitempty"`
	CompanyInfo    map[string]string  `json:"company_info,omitempty"`
	MarketData     map[string]float64 `json:"market_data,omitempty"`
	Tables         []Table            `json:"tables,omitempty"`
}

// IsEmpty reports whether no category produced a match.
func (m *ReportMetrics) IsEmpty() bool {
	return len(m.Revenue) == 0 && len(m.Margins) == 0 && len(m.GrowthRates) == 0 &&
		len(m.Ratios) == 0 && len(m.Dates) == 0 && len(m.CurrencyValues) == 0 &&
		len(m.Percentages) == 0 && len(m.CompanyInfo) == 0 && len(m.MarketData) == 0 &&
		len(m.Tables) == 0
}

// TypedValue is one (type-label, numeric value) extraction.
type TypedValue struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// Table is a heuristically detected tabular block. Best-effort — the
// whitespace-run heuristic over arbitrary text gives no stronger guarantee.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ReportAnalysis is the stored analysis for one attached document,
// keyed by document reference. Accumulates across a session's lifetime.
type ReportAnalysis struct {
	ID        string         `json:"id"`
	Reference string         `json:"reference"`
	Metrics   *ReportMetrics `json:"metrics"`
	Narrative string         `json:"narrative"`
	Timestamp time.Time      `json:"timestamp"`
}
