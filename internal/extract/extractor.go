// Package extract converts unstructured financial document text into
// categorized structured facts using a fixed catalogue of pattern rules.
// Extraction never fails on malformed text — a category with no matches is
// simply omitted from the result.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bobmcallan/advisor/internal/models"
)

// All rules match case-insensitively against the full text. Match order
// within a category follows position in the source text.

var revenueRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)revenue.*?\$?([\d,]+\.?\d*)\s*(million|billion|M|B)?`),
	regexp.MustCompile(`(?i)sales.*?\$?([\d,]+\.?\d*)\s*(million|billion|M|B)?`),
	regexp.MustCompile(`(?i)turnover.*?\$?([\d,]+\.?\d*)\s*(million|billion|M|B)?`),
}

var marginRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(gross|operating|net|profit|ebitda)\s+margin.*?(\d+\.?\d*)%`),
	regexp.MustCompile(`(?i)margin of (\d+\.?\d*)%`),
}

var growthRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(revenue|earnings|income|sales|profit)\s+growth.*?(\d+\.?\d*)%`),
	regexp.MustCompile(`(?i)grew by (\d+\.?\d*)%`),
	regexp.MustCompile(`(?i)increased by (\d+\.?\d*)%`),
}

var ratioRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(p/e|price[/-]earnings).*?(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)(p/b|price[/-]book).*?(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)(d/e|debt[/-]equity).*?(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)(roi|return on investment).*?(\d+\.?\d*)%`),
	regexp.MustCompile(`(?i)(roa|return on assets).*?(\d+\.?\d*)%`),
	regexp.MustCompile(`(?i)(roe|return on equity).*?(\d+\.?\d*)%`),
}

var dateRules = []*regexp.Regexp{
	regexp.MustCompile(`\b(19|20)\d{2}\b`),
	regexp.MustCompile(`(?i)\b(Q[1-4]|Quarter [1-4])\b`),
	regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? (19|20)\d{2}\b`),
}

var currencyRules = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*(\d+(?:,\d{3})*(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{1,2})?)\s*dollars`),
	regexp.MustCompile(`(?i)USD\s*(\d+(?:,\d{3})*(?:\.\d{1,2})?)`),
}

var percentageRule = regexp.MustCompile(`(\d+\.?\d*)\s*%`)

// companyInfoRules carry an explicit key per rule.
var companyInfoRules = []struct {
	key  string
	rule *regexp.Regexp
}{
	{"company_name", regexp.MustCompile(`(?i)company name:?\s*([A-Za-z0-9\s,\.]+)(?:\n|$)`)},
	{"ticker", regexp.MustCompile(`(?i)ticker:?\s*([A-Za-z\.]+)(?:\n|$)`)},
	{"industry", regexp.MustCompile(`(?i)industry:?\s*([A-Za-z\s]+)(?:\n|$)`)},
	{"sector", regexp.MustCompile(`(?i)sector:?\s*([A-Za-z\s]+)(?:\n|$)`)},
}

var marketDataRules = []struct {
	key     string
	hasUnit bool
	rule    *regexp.Regexp
}{
	{"market_cap", true, regexp.MustCompile(`(?i)market cap.*?\$?([\d,]+\.?\d*)\s*(million|billion|M|B)?`)},
	{"share_price", false, regexp.MustCompile(`(?i)share price.*?\$?([\d,]+\.?\d*)`)},
	{"volume", false, regexp.MustCompile(`(?i)volume.*?([\d,]+)`)},
}

// Extract applies the full rule catalogue to document text. Categories
// with zero matches are left empty — the expected case for most documents.
func Extract(text string) *models.ReportMetrics {
	metrics := &models.ReportMetrics{}

	metrics.Revenue = extractAmounts(text, revenueRules)
	metrics.Margins = extractTyped(text, marginRules, "margin")
	metrics.GrowthRates = extractTyped(text, growthRules, "growth")
	metrics.Ratios = extractTyped(text, ratioRules, "")
	metrics.Dates = extractDates(text)
	metrics.CurrencyValues = extractCurrency(text)
	metrics.Percentages = extractPercentages(text)
	metrics.CompanyInfo = extractCompanyInfo(text)
	metrics.MarketData = extractMarketData(text)
	metrics.Tables = ExtractTables(text)

	return metrics
}

type positioned struct {
	pos   int
	value float64
	label string
	text  string
}

// byPosition orders matches by their position in the source text.
func byPosition(matches []positioned) []positioned {
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })
	return matches
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// applyUnit normalizes an amount to millions: billion/B multiplies by 1000.
func applyUnit(value float64, unit string) float64 {
	u := strings.ToLower(unit)
	if strings.HasPrefix(u, "b") {
		return value * 1000
	}
	return value
}

func extractAmounts(text string, rules []*regexp.Regexp) []float64 {
	var matches []positioned
	for _, rule := range rules {
		for _, m := range rule.FindAllStringSubmatchIndex(text, -1) {
			value, ok := parseNumber(group(text, m, 1))
			if !ok {
				continue
			}
			matches = append(matches, positioned{pos: m[0], value: applyUnit(value, group(text, m, 2))})
		}
	}

	var out []float64
	for _, m := range byPosition(matches) {
		out = append(out, m.value)
	}
	return out
}

func extractTyped(text string, rules []*regexp.Regexp, fallbackLabel string) []models.TypedValue {
	var matches []positioned
	for _, rule := range rules {
		for _, m := range rule.FindAllStringSubmatchIndex(text, -1) {
			// The value is the last capture group, the label (if any) the first.
			groups := (len(m) - 2) / 2
			value, ok := parseNumber(group(text, m, groups))
			if !ok {
				continue
			}
			label := fallbackLabel
			if groups > 1 {
				label = strings.ToLower(group(text, m, 1))
			}
			matches = append(matches, positioned{pos: m[0], value: value, label: label})
		}
	}

	var out []models.TypedValue
	for _, m := range byPosition(matches) {
		out = append(out, models.TypedValue{Type: m.label, Value: m.value})
	}
	return out
}

func extractDates(text string) []string {
	var matches []positioned
	for _, rule := range dateRules {
		for _, m := range rule.FindAllStringIndex(text, -1) {
			matches = append(matches, positioned{pos: m[0], text: text[m[0]:m[1]]})
		}
	}

	var out []string
	for _, m := range byPosition(matches) {
		out = append(out, m.text)
	}
	return out
}

func extractCurrency(text string) []float64 {
	var matches []positioned
	for _, rule := range currencyRules {
		for _, m := range rule.FindAllStringSubmatchIndex(text, -1) {
			if value, ok := parseNumber(group(text, m, 1)); ok {
				matches = append(matches, positioned{pos: m[0], value: value})
			}
		}
	}

	var out []float64
	for _, m := range byPosition(matches) {
		out = append(out, m.value)
	}
	return out
}

func extractPercentages(text string) []float64 {
	var out []float64
	for _, m := range percentageRule.FindAllStringSubmatch(text, -1) {
		if value, ok := parseNumber(m[1]); ok {
			out = append(out, value)
		}
	}
	return out
}

func extractCompanyInfo(text string) map[string]string {
	info := make(map[string]string)
	for _, r := range companyInfoRules {
		if m := r.rule.FindStringSubmatch(text); m != nil {
			info[r.key] = strings.TrimSpace(m[1])
		}
	}
	if len(info) == 0 {
		return nil
	}
	return info
}

func extractMarketData(text string) map[string]float64 {
	data := make(map[string]float64)
	for _, r := range marketDataRules {
		m := r.rule.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		value, ok := parseNumber(group(text, m, 1))
		if !ok {
			continue
		}
		if r.hasUnit {
			value = applyUnit(value, group(text, m, 2))
		}
		data[r.key] = value
	}
	if len(data) == 0 {
		return nil
	}
	return data
}

// group extracts the nth capture group from submatch indexes, or "".
func group(text string, m []int, n int) string {
	if 2*n+1 >= len(m) || m[2*n] < 0 {
		return ""
	}
	return text[m[2*n]:m[2*n+1]]
}
