// Package strategy generates investment strategies from portfolio state and
// scores tickers against them.
package strategy

import (
	"regexp"
	"strings"

	"github.com/bobmcallan/advisor/internal/models"
)

var strategyHeadingRe = regexp.MustCompile(`(?m)^\s*\**Strategy \d+`)

// ParseStrategies parses generated narrative text into strategies. The
// grammar is line-based: the text splits into sections on "Strategy N"
// headings, and within a section labeled lines carry the fields. A
// section without a Name line is discarded. When no section parses, the
// result is the Unparsed variant carrying the raw text.
func ParseStrategies(response string) *models.StrategySet {
	sections := strategyHeadingRe.Split(response, -1)
	if len(sections) < 2 {
		return &models.StrategySet{Unparsed: true, Raw: response}
	}

	var strategies []models.Strategy
	for _, section := range sections[1:] {
		if s, ok := parseSection(section); ok {
			strategies = append(strategies, s)
		}
	}

	if len(strategies) == 0 {
		return &models.StrategySet{Unparsed: true, Raw: response}
	}
	return &models.StrategySet{Strategies: strategies}
}

func parseSection(section string) (models.Strategy, bool) {
	var s models.Strategy

	for _, line := range strings.Split(strings.TrimSpace(section), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Name:"):
			s.Name = labelValue(line, "Name:")
		case strings.HasPrefix(line, "Commentary:"):
			s.Commentary = labelValue(line, "Commentary:")
		case strings.HasPrefix(line, "Strengths:"):
			s.SWOT.Strengths = labelValue(line, "Strengths:")
		case strings.HasPrefix(line, "Weaknesses:"):
			s.SWOT.Weaknesses = labelValue(line, "Weaknesses:")
		case strings.HasPrefix(line, "Opportunities:"):
			s.SWOT.Opportunities = labelValue(line, "Opportunities:")
		case strings.HasPrefix(line, "Threats:"):
			s.SWOT.Threats = labelValue(line, "Threats:")
		case strings.HasPrefix(line, "Sectors:"):
			s.Sectors = splitSectors(labelValue(line, "Sectors:"))
		}
	}

	return s, s.Name != ""
}

func labelValue(line, label string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, label))
}

func splitSectors(value string) []string {
	var sectors []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sectors = append(sectors, trimmed)
		}
	}
	return sectors
}
