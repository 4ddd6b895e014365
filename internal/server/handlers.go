package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/extract"
	"github.com/bobmcallan/advisor/internal/models"
	"github.com/bobmcallan/advisor/internal/signals"
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"version":  common.GetVersion(),
		"sessions": s.app.Sessions.Count(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetFullVersion(),
	})
}

// routeRisk handles GET /api/risk/{ticker} and GET /api/risk/{ticker}/chart.
func (s *Server) routeRisk(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/risk/")
	ticker, suffix, _ := strings.Cut(rest, "/")
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	switch suffix {
	case "":
		s.handleRisk(w, r, ticker)
	case "chart":
		s.handleRiskChart(w, r, ticker)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request, ticker string) {
	set, err := s.app.Analysis.AnalyzeTicker(r.Context(), ticker)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	resp := map[string]interface{}{
		"ticker":  ticker,
		"metrics": set.Values,
	}
	if score, ok := set.Get(models.MetricRiskScore); ok {
		resp["assessment"] = models.RiskAssessment{Score: score, Category: signals.Categorize(score)}
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRiskChart(w http.ResponseWriter, r *http.Request, ticker string) {
	png, err := s.app.Analysis.RenderRiskChart(r.Context(), ticker)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// extractRequest is the body for POST /api/reports/extract.
type extractRequest struct {
	Text string `json:"text"`
}

// handleExtract handles POST /api/reports/extract: stateless extraction of
// report facts from raw text.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req extractRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Text == "" {
		WriteError(w, http.StatusBadRequest, "Text is required")
		return
	}
	WriteJSON(w, http.StatusOK, extract.Extract(req.Text))
}

// chatRequest is the body for POST /api/chat. Document is base64-encoded
// PDF bytes; supply either a message or a document, not both. A non-empty
// tickers list replaces the session's portfolio before the turn is handled.
type chatRequest struct {
	SessionID string   `json:"session_id"`
	Message   string   `json:"message,omitempty"`
	Document  []byte   `json:"document,omitempty"`
	Tickers   []string `json:"tickers,omitempty"`
}

// handleChat handles POST /api/chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req chatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		WriteError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	reply, err := s.app.Session.ProcessMessage(r.Context(), req.SessionID, req.Message, req.Document, normalizeTickers(req.Tickers))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, reply)
}

// portfolioRequest is the body for POST /api/chat/portfolio.
type portfolioRequest struct {
	SessionID string   `json:"session_id"`
	Tickers   []string `json:"tickers"`
}

// handleSupplyPortfolio handles POST /api/chat/portfolio: wholesale
// replacement of the session's portfolio.
func (s *Server) handleSupplyPortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req portfolioRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		WriteError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	analysis, err := s.app.Session.SupplyPortfolio(r.Context(), req.SessionID, normalizeTickers(req.Tickers))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, analysis)
}

// reportRequest is the body for POST /api/chat/report.
type reportRequest struct {
	SessionID string `json:"session_id"`
	Reference string `json:"reference"`
	Text      string `json:"text,omitempty"`
	Document  []byte `json:"document,omitempty"`
}

// handleAttachReport handles POST /api/chat/report.
func (s *Server) handleAttachReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req reportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.SessionID == "" || req.Reference == "" {
		WriteError(w, http.StatusBadRequest, "Session ID and reference are required")
		return
	}

	analysis, err := s.app.Session.AttachReport(r.Context(), req.SessionID, req.Reference, req.Document, req.Text)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, analysis)
}

// resetRequest is the body for POST /api/chat/reset.
type resetRequest struct {
	SessionID string `json:"session_id"`
}

// handleChatReset handles POST /api/chat/reset.
func (s *Server) handleChatReset(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req resetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		WriteError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	s.app.Session.Reset(req.SessionID)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// strategiesRequest is the body for POST /api/strategies and
// /api/strategies/swot. Supply a session id with a portfolio already
// analyzed, or tickers to analyze on the spot.
type strategiesRequest struct {
	SessionID string   `json:"session_id,omitempty"`
	Tickers   []string `json:"tickers,omitempty"`
}

// handleStrategies handles POST /api/strategies.
func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	set, ok := s.generateStrategies(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, set)
}

// handleSWOT handles POST /api/strategies/swot: the SWOT sections of the
// generated strategies keyed by strategy name.
func (s *Server) handleSWOT(w http.ResponseWriter, r *http.Request) {
	set, ok := s.generateStrategies(w, r)
	if !ok {
		return
	}
	if set.Unparsed {
		WriteJSON(w, http.StatusOK, set)
		return
	}

	swot := make(map[string]models.SWOT, len(set.Strategies))
	for _, st := range set.Strategies {
		swot[st.Name] = st.SWOT
	}
	WriteJSON(w, http.StatusOK, swot)
}

func (s *Server) generateStrategies(w http.ResponseWriter, r *http.Request) (*models.StrategySet, bool) {
	if !RequireMethod(w, r, http.MethodPost) {
		return nil, false
	}
	var req strategiesRequest
	if !DecodeJSON(w, r, &req) {
		return nil, false
	}

	analysis, err := s.resolveAnalysis(r.Context(), &req)
	if err != nil {
		WriteDomainError(w, err)
		return nil, false
	}
	if analysis == nil {
		WriteError(w, http.StatusBadRequest, "Supply a session with a portfolio or a list of tickers")
		return nil, false
	}

	set, err := s.app.Strategies.GenerateStrategies(r.Context(), analysis)
	if err != nil {
		WriteDomainError(w, err)
		return nil, false
	}
	return set, true
}

func (s *Server) resolveAnalysis(ctx context.Context, req *strategiesRequest) (*models.PortfolioAnalysis, error) {
	if req.SessionID != "" {
		session := s.app.Session.GetOrCreate(req.SessionID)
		session.Mu.Lock()
		analysis := session.CurrentAnalysis
		session.Mu.Unlock()
		if analysis != nil {
			return analysis, nil
		}
	}
	if len(req.Tickers) > 0 {
		return s.app.Analysis.AnalyzePortfolio(ctx, normalizeTickers(req.Tickers))
	}
	return nil, nil
}

func normalizeTickers(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if trimmed := strings.ToUpper(strings.TrimSpace(t)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
