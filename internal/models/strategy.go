// Package models defines data structures for Advisor
package models

// SWOT holds the four fixed narrative sections of a strategy analysis.
type SWOT struct {
	Strengths     string `json:"strengths"`
	Weaknesses    string `json:"weaknesses"`
	Opportunities string `json:"opportunities"`
	Threats       string `json:"threats"`
}

// Recommendation is one buy/sell suggestion with its primary signal.
type Recommendation struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// Strategy is one parsed investment strategy from generated narrative text.
type Strategy struct {
	Name       string           `json:"name"`
	Commentary string           `json:"commentary"`
	SWOT       SWOT             `json:"swot"`
	Sectors    []string         `json:"sectors"`
	Buy        []Recommendation `json:"buy,omitempty"`
	Sell       []Recommendation `json:"sell,omitempty"`
}

// StrategySet is the result of strategy generation. When the narrative did
// not match the expected grammar, Strategies is empty, Unparsed is true and
// Raw carries the original response — never a silently partial result.
type StrategySet struct {
	Strategies []Strategy `json:"strategies"`
	Unparsed   bool       `json:"unparsed,omitempty"`
	Raw        string     `json:"raw,omitempty"`
}
