// Package session manages conversational sessions: portfolio state, report
// accumulation, and message handling with completion fallback.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
	"github.com/bobmcallan/advisor/internal/models"
)

const noInputReply = "Please provide a question or attach a document to analyze."

// Manager implements SessionService. Each operation takes the session's
// exclusive lock for its full duration, so concurrent calls against one
// session serialize while distinct sessions proceed independently.
type Manager struct {
	store      interfaces.SessionStore
	analysis   interfaces.AnalysisService
	completion interfaces.CompletionClient
	logger     *common.Logger
}

// NewManager creates a session manager.
func NewManager(store interfaces.SessionStore, analysis interfaces.AnalysisService, completion interfaces.CompletionClient, logger *common.Logger) *Manager {
	return &Manager{
		store:      store,
		analysis:   analysis,
		completion: completion,
		logger:     logger,
	}
}

// GetOrCreate returns the session for an id, creating it on first use.
func (m *Manager) GetOrCreate(sessionID string) *models.ChatSession {
	return m.store.GetOrCreate(sessionID)
}

// SupplyPortfolio replaces the session's portfolio wholesale and runs a
// fresh analysis. The prior portfolio and analysis are discarded even when
// some tickers fail; reports are kept.
func (m *Manager) SupplyPortfolio(ctx context.Context, sessionID string, tickers []string) (*models.PortfolioAnalysis, error) {
	s := m.store.GetOrCreate(sessionID)
	s.Mu.Lock()
	defer s.Mu.Unlock()

	return m.replacePortfolio(ctx, s, tickers)
}

// replacePortfolio runs the analysis and swaps the session's portfolio
// state. The caller holds the session lock.
func (m *Manager) replacePortfolio(ctx context.Context, s *models.ChatSession, tickers []string) (*models.PortfolioAnalysis, error) {
	analysis, err := m.analysis.AnalyzePortfolio(ctx, tickers)
	if err != nil {
		return nil, err
	}

	s.CurrentPortfolio = tickers
	s.CurrentAnalysis = analysis
	s.LastActive = time.Now()

	m.logger.Info().
		Str("session_id", s.ID).
		Int("tickers", len(tickers)).
		Msg("Portfolio replaced")
	return analysis, nil
}

// AttachReport extracts facts from a report and accumulates them on the
// session. Supply either document bytes (PDF) or raw text, not both. A
// reference already attached is replaced, not duplicated.
func (m *Manager) AttachReport(ctx context.Context, sessionID, reference string, document []byte, text string) (*models.ReportAnalysis, error) {
	if len(document) > 0 && text != "" {
		return nil, &models.ContractError{Reason: "supply either a document or text, not both"}
	}
	if len(document) == 0 && text == "" {
		return nil, fmt.Errorf("attach report: %w", models.ErrMissingInput)
	}

	if len(document) > 0 {
		extracted, err := extractPDFText(document)
		if err != nil {
			return nil, err
		}
		text = extracted
	}

	s := m.store.GetOrCreate(sessionID)
	s.Mu.Lock()
	defer s.Mu.Unlock()

	return m.attachReport(ctx, s, reference, text), nil
}

// attachReport extracts facts from report text and accumulates them on the
// session. The caller holds the session lock.
func (m *Manager) attachReport(ctx context.Context, s *models.ChatSession, reference, text string) *models.ReportAnalysis {
	analysis := analyzeReport(reference, text)
	analysis.Narrative = m.narrative(ctx, analysis)
	s.AddReport(analysis)
	s.LastActive = time.Now()

	m.logger.Info().
		Str("session_id", s.ID).
		Str("reference", reference).
		Bool("empty", analysis.Metrics.IsEmpty()).
		Msg("Report attached")
	return analysis
}

// ProcessMessage handles one chat turn. Exactly one of message and document
// may be supplied: both is a contract violation, neither yields a
// well-defined no-input reply. A non-empty tickers list replaces the
// session's portfolio before the turn is handled, under the same lock
// hold. Completion failure falls back to a deterministic answer assembled
// from local metrics.
func (m *Manager) ProcessMessage(ctx context.Context, sessionID, message string, document []byte, tickers []string) (*models.AssistantReply, error) {
	if message != "" && len(document) > 0 {
		return nil, &models.ContractError{Reason: "supply either a message or a document, not both"}
	}

	s := m.store.GetOrCreate(sessionID)
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if len(tickers) > 0 {
		if _, err := m.replacePortfolio(ctx, s, tickers); err != nil {
			return nil, err
		}
	}

	if message == "" && len(document) == 0 {
		return &models.AssistantReply{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Text:      noInputReply,
			NoInput:   true,
			Timestamp: time.Now(),
		}, nil
	}

	if len(document) > 0 {
		return m.processDocument(ctx, s, document)
	}

	s.AppendTurn("user", message)

	prompt := fmt.Sprintf(advisorPrompt, buildContext(s), message)
	text, err := m.completion.Complete(ctx, prompt)
	fallback := false
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			m.logger.Warn().Str("session_id", sessionID).Err(err).Msg("Completion failed, using local fallback")
		}
		text = fallbackReply(s)
		fallback = true
	}

	s.AppendTurn("assistant", text)

	return &models.AssistantReply{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Text:      text,
		Fallback:  fallback,
		Timestamp: time.Now(),
	}, nil
}

// processDocument attaches a document sent through chat under a generated
// reference and replies with its extracted facts. The caller holds the
// session lock, so the attach and its reply land in history as one unit.
func (m *Manager) processDocument(ctx context.Context, s *models.ChatSession, document []byte) (*models.AssistantReply, error) {
	extracted, err := extractPDFText(document)
	if err != nil {
		return nil, err
	}

	reference := "upload-" + uuid.New().String()[:8]
	analysis := m.attachReport(ctx, s, reference, extracted)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Document attached as %q.\n\n", reference)
	writeReportBlock(&sb, analysis)
	text := strings.TrimRight(sb.String(), "\n")
	s.AppendTurn("assistant", text)

	return &models.AssistantReply{
		ID:        uuid.New().String(),
		SessionID: s.ID,
		Text:      text,
		Timestamp: time.Now(),
	}, nil
}

// narrative asks the completion provider to summarize extracted facts.
// Failure is tolerated: the report still attaches without a narrative.
func (m *Manager) narrative(ctx context.Context, analysis *models.ReportAnalysis) string {
	if !m.completion.IsAvailable() || analysis.Metrics.IsEmpty() {
		return ""
	}

	var sb strings.Builder
	writeReportBlock(&sb, analysis)
	prompt := fmt.Sprintf("Summarize the following extracted report facts in two sentences for an investor.\n\n%s", sb.String())

	text, err := m.completion.Complete(ctx, prompt)
	if err != nil {
		m.logger.Warn().Str("reference", analysis.Reference).Err(err).Msg("Narrative generation failed")
		return ""
	}
	return strings.TrimSpace(text)
}

// Reset deletes the session outright; the next operation starts fresh.
func (m *Manager) Reset(sessionID string) {
	m.store.Delete(sessionID)
	m.logger.Info().Str("session_id", sessionID).Msg("Session reset")
}

var _ interfaces.SessionService = (*Manager)(nil)
