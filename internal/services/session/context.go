package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bobmcallan/advisor/internal/models"
	"github.com/bobmcallan/advisor/internal/signals"
)

// advisorPrompt frames every completion request. Context blocks are
// assembled in a fixed order so identical session state always produces an
// identical prompt.
const advisorPrompt = `You are a portfolio advisor assistant. Answer the user's question using
only the context below. Be specific, cite the numbers you use, and say so
plainly when the context does not cover the question.

%s
User question: %s`

// buildContext renders session state into the prompt context. Order is
// fixed: portfolio overview, sector exposure, risk profile, then report
// blocks in attach order. Callers hold the session lock.
func buildContext(s *models.ChatSession) string {
	var sb strings.Builder

	if a := s.CurrentAnalysis; a != nil {
		writePortfolioOverview(&sb, a)
		writeSortedMap(&sb, "Sector exposure (%)", a.SectorExposure)
		writeSortedMap(&sb, "Risk profile", a.RiskProfile)
	}

	for _, ref := range s.ReportOrder {
		writeReportBlock(&sb, s.ReportAnalyses[ref])
	}

	if sb.Len() == 0 {
		return "No portfolio or reports have been supplied yet.\n"
	}
	return sb.String()
}

func writePortfolioOverview(sb *strings.Builder, a *models.PortfolioAnalysis) {
	sb.WriteString("Portfolio: ")
	sb.WriteString(strings.Join(a.Tickers, ", "))
	sb.WriteString("\n")

	keys := make([]string, 0, len(a.PortfolioMetrics))
	for k := range a.PortfolioMetrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, "- %s: %.2f\n", k, a.PortfolioMetrics[k])
	}

	if assessment, ok := portfolioAssessment(a); ok {
		fmt.Fprintf(sb, "- overall_risk: %.1f (%s)\n", assessment.Score, assessment.Category)
	}
	sb.WriteString("\n")
}

// portfolioAssessment scores the portfolio from its aggregate volatility
// and worst drawdown. Both inputs must be present.
func portfolioAssessment(a *models.PortfolioAnalysis) (models.RiskAssessment, bool) {
	vol, okVol := a.PortfolioMetrics[models.PortfolioVolatility]
	dd, okDD := a.PortfolioMetrics[models.PortfolioMaxDrawdown]
	if !okVol || !okDD {
		return models.RiskAssessment{}, false
	}
	score := signals.PortfolioRiskScore(vol, dd)
	return models.RiskAssessment{Score: score, Category: signals.Categorize(score)}, true
}

func writeSortedMap(sb *strings.Builder, title string, m map[string]float64) {
	if len(m) == 0 {
		return
	}
	sb.WriteString(title)
	sb.WriteString(":\n")

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, "- %s: %.2f\n", k, m[k])
	}
	sb.WriteString("\n")
}

func writeReportBlock(sb *strings.Builder, r *models.ReportAnalysis) {
	if r == nil {
		return
	}
	fmt.Fprintf(sb, "Report %q:\n", r.Reference)

	m := r.Metrics
	if m == nil || m.IsEmpty() {
		sb.WriteString("- no extractable facts\n\n")
		return
	}
	if len(m.Revenue) > 0 {
		fmt.Fprintf(sb, "- revenue (millions): %s\n", joinFloats(m.Revenue))
	}
	for _, tv := range m.Margins {
		fmt.Fprintf(sb, "- %s margin: %.2f%%\n", tv.Type, tv.Value)
	}
	for _, tv := range m.GrowthRates {
		fmt.Fprintf(sb, "- %s growth: %.2f%%\n", tv.Type, tv.Value)
	}
	for _, tv := range m.Ratios {
		fmt.Fprintf(sb, "- %s: %.2f\n", tv.Type, tv.Value)
	}

	infoKeys := make([]string, 0, len(m.CompanyInfo))
	for k := range m.CompanyInfo {
		infoKeys = append(infoKeys, k)
	}
	sort.Strings(infoKeys)
	for _, k := range infoKeys {
		fmt.Fprintf(sb, "- %s: %s\n", k, m.CompanyInfo[k])
	}

	marketKeys := make([]string, 0, len(m.MarketData))
	for k := range m.MarketData {
		marketKeys = append(marketKeys, k)
	}
	sort.Strings(marketKeys)
	for _, k := range marketKeys {
		fmt.Fprintf(sb, "- %s: %.2f\n", k, m.MarketData[k])
	}

	if len(m.Tables) > 0 {
		fmt.Fprintf(sb, "- tables detected: %d\n", len(m.Tables))
	}
	sb.WriteString("\n")
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.1f", v)
	}
	return strings.Join(parts, ", ")
}

// fallbackReply assembles a deterministic answer from local metrics when
// the completion provider is unavailable. Callers hold the session lock.
func fallbackReply(s *models.ChatSession) string {
	var sb strings.Builder
	sb.WriteString("The analysis assistant is currently unavailable; here is a summary from local metrics.\n\n")
	sb.WriteString(buildContext(s))
	return strings.TrimRight(sb.String(), "\n")
}
