// Package models defines data structures for Advisor
package models

import (
	"sync"
	"time"
)

// ChatTurn is one exchange in a session's history.
type ChatTurn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession holds per-user conversational state. In-memory only — no
// durability across restarts. All operations against one session are
// serialized through Mu; the session manager holds it for the duration of
// each ProcessMessage/AttachReport/SupplyPortfolio call.
type ChatSession struct {
	Mu sync.Mutex `json:"-"`

	ID               string                     `json:"id"`
	CurrentPortfolio []string                   `json:"current_portfolio"`
	CurrentAnalysis  *PortfolioAnalysis         `json:"current_analysis,omitempty"`
	ReportAnalyses   map[string]*ReportAnalysis `json:"report_analyses"`
	ReportOrder      []string                   `json:"report_order"` // attach order for deterministic context assembly
	History          []ChatTurn                 `json:"history"`
	CreatedAt        time.Time                  `json:"created_at"`
	LastActive       time.Time                  `json:"last_active"`
}

// NewChatSession creates an empty session for an id.
func NewChatSession(id string) *ChatSession {
	return &ChatSession{
		ID:             id,
		ReportAnalyses: make(map[string]*ReportAnalysis),
		CreatedAt:      time.Now(),
		LastActive:     time.Now(),
	}
}

// AppendTurn adds a turn to the append-only history.
func (s *ChatSession) AppendTurn(role, text string) {
	s.History = append(s.History, ChatTurn{Role: role, Text: text, Timestamp: time.Now()})
	s.LastActive = time.Now()
}

// AddReport stores a report analysis, replacing any prior analysis with the
// same document reference (dedup-by-reference).
func (s *ChatSession) AddReport(analysis *ReportAnalysis) {
	if _, exists := s.ReportAnalyses[analysis.Reference]; !exists {
		s.ReportOrder = append(s.ReportOrder, analysis.Reference)
	}
	s.ReportAnalyses[analysis.Reference] = analysis
}

// AssistantReply is the session manager's response to one message.
type AssistantReply struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	Fallback  bool      `json:"fallback"` // true when assembled from local metrics only
	NoInput   bool      `json:"no_input"` // true when neither text nor document was supplied
	Timestamp time.Time `json:"timestamp"`
}
