package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/advisor/internal/app"
	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/models"
	"github.com/bobmcallan/advisor/internal/services/session"
	"github.com/bobmcallan/advisor/internal/services/strategy"
	"github.com/bobmcallan/advisor/internal/storage"
)

type stubAnalysis struct{}

func (stubAnalysis) AnalyzeTicker(ctx context.Context, ticker string) (*models.IndicatorSet, error) {
	if ticker == "BROKEN" {
		return nil, &models.InsufficientDataError{Ticker: ticker, Required: 2, Actual: 1}
	}
	set := models.NewIndicatorSet(ticker)
	set.Set(models.MetricVolatility, 22.5)
	set.Set(models.MetricRiskScore, 38.0)
	return set, nil
}

func (s stubAnalysis) AnalyzePortfolio(ctx context.Context, tickers []string) (*models.PortfolioAnalysis, error) {
	a := models.NewEmptyAnalysis(tickers)
	for _, t := range tickers {
		set, err := s.AnalyzeTicker(ctx, t)
		if err != nil {
			continue
		}
		a.StockMetrics[t] = set
	}
	a.PortfolioMetrics[models.PortfolioVolatility] = 22.5
	a.PortfolioMetrics[models.PortfolioMaxDrawdown] = -8
	return a, nil
}

func (stubAnalysis) RenderRiskChart(ctx context.Context, ticker string) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

type stubCompletion struct {
	text string
	err  error
}

func (s stubCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func (stubCompletion) IsAvailable() bool { return true }

func newTestServer(completion stubCompletion) *Server {
	logger := common.NewSilentLogger()
	sessions := storage.NewMemorySessionStore(logger)
	analysis := stubAnalysis{}

	a := &app.App{
		Config:     common.NewDefaultConfig(),
		Logger:     logger,
		Sessions:   sessions,
		Analysis:   analysis,
		Session:    session.NewManager(sessions, analysis, completion, logger),
		Strategies: strategy.NewService(analysis, completion, logger),
	}
	return NewServer(a)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(stubCompletion{})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestHandleRisk(t *testing.T) {
	srv := newTestServer(stubCompletion{})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/risk/aapl", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Ticker     string                `json:"ticker"`
		Metrics    map[string]float64    `json:"metrics"`
		Assessment models.RiskAssessment `json:"assessment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AAPL", resp.Ticker)
	assert.Equal(t, 22.5, resp.Metrics[models.MetricVolatility])
	assert.Equal(t, models.RiskMedium, resp.Assessment.Category)
}

func TestHandleRiskInsufficientData(t *testing.T) {
	srv := newTestServer(stubCompletion{})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/risk/BROKEN", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleRiskChart(t *testing.T) {
	srv := newTestServer(stubCompletion{})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/risk/AAPL/chart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestHandleRiskWrongMethod(t *testing.T) {
	srv := newTestServer(stubCompletion{})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/risk/AAPL", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleExtract(t *testing.T) {
	srv := newTestServer(stubCompletion{})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/reports/extract",
		map[string]string{"text": "Revenue reached $1.5 billion in Q4"})
	require.Equal(t, http.StatusOK, rec.Code)

	var metrics models.ReportMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.Equal(t, []float64{1500}, metrics.Revenue)
}

func TestHandleExtractMissingText(t *testing.T) {
	srv := newTestServer(stubCompletion{})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/reports/extract", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatFlow(t *testing.T) {
	srv := newTestServer(stubCompletion{text: "Looks fine."})
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/chat/portfolio",
		map[string]interface{}{"session_id": "u1", "tickers": []string{"aapl", "msft"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis models.PortfolioAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, []string{"AAPL", "MSFT"}, analysis.Tickers)

	rec = doJSON(t, h, http.MethodPost, "/api/chat",
		map[string]string{"session_id": "u1", "message": "how risky?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var reply models.AssistantReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "Looks fine.", reply.Text)
	assert.False(t, reply.Fallback)

	rec = doJSON(t, h, http.MethodPost, "/api/chat/reset", map[string]string{"session_id": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestChatWithInlinePortfolio(t *testing.T) {
	srv := newTestServer(stubCompletion{err: errors.New("down")})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/chat",
		map[string]interface{}{"session_id": "u1", "message": "how risky?", "tickers": []string{"aapl", "msft"}})
	require.Equal(t, http.StatusOK, rec.Code)

	// One call supplies the portfolio and asks the question.
	var reply models.AssistantReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Contains(t, reply.Text, "Portfolio: AAPL, MSFT")
}

func TestChatFallbackWhenCompletionDown(t *testing.T) {
	srv := newTestServer(stubCompletion{err: errors.New("down")})
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/chat/portfolio",
		map[string]interface{}{"session_id": "u1", "tickers": []string{"AAPL"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/chat",
		map[string]string{"session_id": "u1", "message": "summary"})
	require.Equal(t, http.StatusOK, rec.Code)

	var reply models.AssistantReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.True(t, reply.Fallback)
	assert.Contains(t, reply.Text, "Portfolio: AAPL")
}

func TestChatContractViolation(t *testing.T) {
	srv := newTestServer(stubCompletion{})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/chat",
		map[string]interface{}{"session_id": "u1", "message": "hi", "document": []byte("pdf")})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatMissingSessionID(t *testing.T) {
	srv := newTestServer(stubCompletion{})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/chat", map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttachReportEndpoint(t *testing.T) {
	srv := newTestServer(stubCompletion{})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/chat/report",
		map[string]string{"session_id": "u1", "reference": "q3.txt", "text": "Gross margin was 42.5%"})
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis models.ReportAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, "q3.txt", analysis.Reference)
	require.Len(t, analysis.Metrics.Margins, 1)
	assert.Equal(t, 42.5, analysis.Metrics.Margins[0].Value)
}

func TestStrategiesFromTickers(t *testing.T) {
	response := "Strategy 1:\nName: Test Strategy\nCommentary: A test.\nStrengths: s\nWeaknesses: w\nOpportunities: o\nThreats: t\nSectors: Healthcare\n"
	srv := newTestServer(stubCompletion{text: response})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/strategies",
		map[string]interface{}{"tickers": []string{"AAPL"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var set models.StrategySet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	require.Len(t, set.Strategies, 1)
	assert.Equal(t, "Test Strategy", set.Strategies[0].Name)
}

func TestSWOTEndpoint(t *testing.T) {
	response := "Strategy 1:\nName: Test Strategy\nCommentary: A test.\nStrengths: strong\nWeaknesses: weak\nOpportunities: open\nThreats: threat\nSectors: Healthcare\n"
	srv := newTestServer(stubCompletion{text: response})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/strategies/swot",
		map[string]interface{}{"tickers": []string{"AAPL"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var swot map[string]models.SWOT
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &swot))
	assert.Equal(t, "strong", swot["Test Strategy"].Strengths)
}

func TestStrategiesNoInput(t *testing.T) {
	srv := newTestServer(stubCompletion{})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/strategies", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
