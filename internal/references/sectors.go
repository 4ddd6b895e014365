// Package references holds fixed reference tables for sector membership
// and sector-name normalization.
package references

import "strings"

// SectorOrder fixes the iteration order of SectorTickers. A ticker that
// appears in multiple sectors is attributed to the first listed sector only.
var SectorOrder = []string{
	"Technology", "EV", "Healthcare", "Finance", "Energy", "AI",
	"Semiconductors", "Cloud", "E-commerce", "Social Media", "Biotech",
	"Green Energy",
}

// SectorTickers maps each recognized sector to its member tickers.
var SectorTickers = map[string][]string{
	"Technology":     {"AAPL", "MSFT", "NVDA", "AMD", "GOOGL", "META", "INTC", "CRM", "ADBE", "ORCL"},
	"EV":             {"TSLA", "RIVN", "NIO", "GM", "F", "LCID", "XPEV", "LI", "FSR"},
	"Healthcare":     {"JNJ", "PFE", "UNH", "ABBV", "MRK", "LLY", "TMO", "ABT", "BMY", "AMGN"},
	"Finance":        {"JPM", "BAC", "V", "MA", "GS", "MS", "BLK", "SCHW", "AXP", "C"},
	"Energy":         {"XOM", "CVX", "COP", "SLB", "EOG", "PXD", "PSX", "VLO", "MPC", "OXY"},
	"AI":             {"NVDA", "GOOGL", "META", "MSFT", "AMD", "IBM", "PLTR", "CRM", "SNOW", "AI"},
	"Semiconductors": {"NVDA", "AMD", "INTC", "TSM", "QCOM", "AMAT", "ASML", "MU", "LRCX", "ADI"},
	"Cloud":          {"MSFT", "AMZN", "GOOGL", "CRM", "SNOW", "NET", "DDOG", "CRWD", "ZS", "PANW"},
	"E-commerce":     {"AMZN", "SHOP", "MELI", "CPNG", "JD", "PDD", "ETSY", "EBAY", "W", "BABA"},
	"Social Media":   {"META", "SNAP", "PINS", "TWTR", "GOOGL", "MTCH", "BMBL", "HOOD", "U", "RBLX"},
	"Biotech":        {"AMGN", "GILD", "REGN", "VRTX", "BIIB", "MRNA", "BNTX", "SGEN", "INCY", "ALNY"},
	"Green Energy":   {"ENPH", "SEDG", "FSLR", "RUN", "SPWR", "NEE", "BE", "PLUG", "STEM", "CHPT"},
}

// sectorAliases maps informal sector names to SectorTickers keys.
var sectorAliases = map[string]string{
	"artificial intelligence": "AI",
	"electric vehicles":       "EV",
	"ev":                      "EV",
	"tech":                    "Technology",
	"financial":               "Finance",
	"banking":                 "Finance",
	"renewable":               "Green Energy",
	"solar":                   "Green Energy",
	"chip":                    "Semiconductors",
	"chips":                   "Semiconductors",
	"ecommerce":               "E-commerce",
	"social":                  "Social Media",
}

// NormalizeSectorName maps an informal sector name to a SectorTickers key.
// Unrecognized names are title-cased so map lookups fail cleanly rather
// than silently matching a different sector.
func NormalizeSectorName(sector string) string {
	key := strings.ToLower(strings.TrimSpace(sector))
	if mapped, ok := sectorAliases[key]; ok {
		return mapped
	}
	return titleCase(key)
}

// SectorForTicker returns the first listed sector containing the ticker,
// or "" when the ticker is unmapped.
func SectorForTicker(ticker string) string {
	for _, sector := range SectorOrder {
		for _, t := range SectorTickers[sector] {
			if t == ticker {
				return sector
			}
		}
	}
	return ""
}

// TickersForSectors returns the union of member tickers across the given
// (already normalized) sector names, in sector order.
func TickersForSectors(sectors []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, sector := range sectors {
		for _, t := range SectorTickers[sector] {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
