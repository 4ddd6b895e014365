package extract

import (
	"strings"

	"github.com/bobmcallan/advisor/internal/models"
)

// ExtractTables detects tabular blocks heuristically: a contiguous run of
// lines containing a pipe delimiter, a tab delimiter, or at least three
// whitespace-separated tokens is treated as one table. The first line of a
// run is the header. Best-effort only — the whitespace heuristic over
// arbitrary text carries no stronger guarantee.
func ExtractTables(text string) []models.Table {
	var tables []models.Table
	var current []string

	flush := func() {
		if len(current) > 0 {
			tables = append(tables, parseTable(current))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if looksTabular(line) {
			current = append(current, line)
		} else {
			flush()
		}
	}
	flush()

	return tables
}

func looksTabular(line string) bool {
	if strings.Contains(line, "|") || strings.Contains(line, "\t") {
		return true
	}
	return len(strings.Fields(line)) >= 3
}

// parseTable splits a run of lines into header and rows.
// Delimiter precedence: pipe > tab > whitespace.
func parseTable(lines []string) models.Table {
	first := lines[0]
	var split func(string) []string
	switch {
	case strings.Contains(first, "|"):
		split = func(s string) []string { return splitTrim(s, "|") }
	case strings.Contains(first, "\t"):
		split = func(s string) []string { return splitTrim(s, "\t") }
	default:
		split = strings.Fields
	}

	table := models.Table{Headers: split(first)}
	for _, line := range lines[1:] {
		if row := split(line); len(row) > 0 {
			table.Rows = append(table.Rows, row)
		}
	}
	return table
}

// splitTrim splits on a delimiter, trims cells, and drops empties.
func splitTrim(s, delim string) []string {
	var cells []string
	for _, cell := range strings.Split(s, delim) {
		if trimmed := strings.TrimSpace(cell); trimmed != "" {
			cells = append(cells, trimmed)
		}
	}
	return cells
}
