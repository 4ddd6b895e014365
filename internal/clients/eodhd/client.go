// Package eodhd provides a client for the EODHD market data API.
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/models"
)

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// Client fetches end-of-day prices and fundamentals from EODHD.
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

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EODHD client
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

// APIError represents a non-200 response from the API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// eodBarResponse represents one row of the EOD endpoint response.
type eodBarResponse struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
	Volume        int64   `json:"volume"`
}

// GetPriceHistory retrieves daily price bars covering the trailing number
// of calendar days. The returned series is validated and date-ordered.
func (c *Client) GetPriceHistory(ctx context.Context, ticker string, days int) (*models.PriceSeries, error) {
	from := time.Now().AddDate(0, 0, -days)

	params := url.Values{}
	params.Set("period", "d")
	params.Set("order", "a")
	params.Set("from", from.Format("2006-01-02"))

	var bars []eodBarResponse
	if err := c.get(ctx, fmt.Sprintf("/eod/%s", ticker), params, &bars); err != nil {
		return nil, &models.UpstreamError{Provider: "eodhd", Err: err}
	}

	series := &models.PriceSeries{
		Ticker: ticker,
		Bars:   make([]models.PriceBar, 0, len(bars)),
	}
	for _, bar := range bars {
		date, err := time.Parse("2006-01-02", bar.Date)
		if err != nil {
			continue
		}
		closePrice := bar.Close
		if bar.AdjustedClose > 0 {
			closePrice = bar.AdjustedClose
		}
		series.Bars = append(series.Bars, models.PriceBar{
			Date:   date,
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  closePrice,
			Volume: bar.Volume,
		})
	}

	validated, err := series.Validate()
	if err != nil {
		return nil, err
	}
	return validated, nil
}

// fundamentalsResponse mirrors the subset of the fundamentals payload we use.
type fundamentalsResponse struct {
	General struct {
		Name     string `json:"Name"`
		Sector   string `json:"Sector"`
		Industry string `json:"Industry"`
		WebURL   string `json:"WebURL"`
	} `json:"General"`
	Highlights struct {
		MarketCapitalization flexFloat64 `json:"MarketCapitalization"`
		PERatio              flexFloat64 `json:"PERatio"`
	} `json:"Highlights"`
	Technicals struct {
		Beta flexFloat64 `json:"Beta"`
	} `json:"Technicals"`
}

// GetFundamentals retrieves company fundamentals for a ticker.
func (c *Client) GetFundamentals(ctx context.Context, ticker string) (*models.Fundamentals, error) {
	var resp fundamentalsResponse
	if err := c.get(ctx, fmt.Sprintf("/fundamentals/%s", ticker), nil, &resp); err != nil {
		return nil, &models.UpstreamError{Provider: "eodhd", Err: err}
	}

	return &models.Fundamentals{
		Ticker:    ticker,
		Name:      resp.General.Name,
		Sector:    resp.General.Sector,
		Industry:  resp.General.Industry,
		WebURL:    resp.General.WebURL,
		MarketCap: float64(resp.Highlights.MarketCapitalization),
		PE:        float64(resp.Highlights.PERatio),
		Beta:      float64(resp.Technicals.Beta),
	}, nil
}
