// Package esg provides a client for an ESG scores provider.
//
// Coverage is partial: many tickers have no published scores. The client
// reports that through ESGScores.Known=false rather than an error, so
// callers can fall back to neutral handling without retrying.
package esg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/models"
)

const (
	DefaultBaseURL   = "https://esgapi.example.com/v1"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client fetches ESG sub-scores for a ticker.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new ESG client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type scoresResponse struct {
	TotalESG       float64 `json:"total_esg"`
	Environment    float64 `json:"environment_score"`
	Social         float64 `json:"social_score"`
	Governance     float64 `json:"governance_score"`
	GovernanceRisk float64 `json:"governance_risk"`
	ClimateRisk    float64 `json:"climate_risk"`
}

// GetESGScores retrieves ESG sub-scores for a ticker. A 404 means the
// provider has no coverage for that ticker and yields Known=false.
func (c *Client) GetESGScores(ctx context.Context, ticker string) (*models.ESGScores, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/scores/%s?%s", c.baseURL, url.PathEscape(ticker), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("ticker", ticker).Msg("ESG API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.UpstreamError{Provider: "esg", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &models.ESGScores{Ticker: ticker, Known: false, RetrievedAt: time.Now()}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &models.UpstreamError{
			Provider: "esg",
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var scores scoresResponse
	if err := json.NewDecoder(resp.Body).Decode(&scores); err != nil {
		return nil, &models.UpstreamError{Provider: "esg", Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return &models.ESGScores{
		Ticker:         ticker,
		Known:          true,
		TotalESG:       scores.TotalESG,
		Environment:    scores.Environment,
		Social:         scores.Social,
		Governance:     scores.Governance,
		GovernanceRisk: scores.GovernanceRisk,
		ClimateRisk:    scores.ClimateRisk,
		RetrievedAt:    time.Now(),
	}, nil
}
