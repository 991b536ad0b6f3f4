package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/config"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

// Client is the live Provider implementation. It speaks to a fundamentals
// API exposing statements as period-indexed metric tables:
//
//	GET {base}/v1/fundamentals/{ticker}/{income|balance|cashflow}
//	GET {base}/v1/quote/{ticker}
//
// Requests are retried on transient failures and throttled to the
// provider's published rate limit. The limiter is per-client state only;
// concurrent runs for different tickers stay otherwise isolated.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient builds a provider client from configuration.
func NewClient(cfg config.ProviderConfig, logger *zap.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 3 * time.Second
	retryClient.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	retryClient.Logger = nil

	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 2
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		httpClient: retryClient.StandardClient(),
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:     logger,
	}
}

// statementPayload mirrors the provider's table JSON.
type statementPayload struct {
	Periods []models.Period                      `json:"periods"`
	Rows    map[string]map[models.Period]float64 `json:"rows"`
}

// quotePayload mirrors the provider's quote JSON.
type quotePayload struct {
	MarketCap         float64 `json:"market_cap"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	Beta              float64 `json:"beta"`
	CurrentPrice      float64 `json:"current_price"`
}

// Statements fetches the three statements for a ticker.
func (c *Client) Statements(ctx context.Context, ticker string) (*StatementSet, error) {
	set := &StatementSet{}
	for _, stmt := range []struct {
		path  string
		table *StatementTable
	}{
		{"income", &set.Income},
		{"balance", &set.Balance},
		{"cashflow", &set.CashFlow},
	} {
		url := fmt.Sprintf("%s/v1/fundamentals/%s/%s", c.baseURL, ticker, stmt.path)
		var payload statementPayload
		if err := c.getJSON(ctx, url, &payload); err != nil {
			return nil, models.WrapFailure(models.KindDataUnavailable, err, "failed to fetch %s statement for %s", stmt.path, ticker)
		}
		stmt.table.Periods = payload.Periods
		stmt.table.Rows = payload.Rows
	}

	if len(set.Income.Periods) == 0 {
		return nil, models.NewFailure(models.KindDataUnavailable, "provider returned no periods for %s", ticker)
	}
	return set, nil
}

// Snapshot fetches current market data for a ticker. A missing beta defaults
// to 1.0, the market average.
func (c *Client) Snapshot(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	url := fmt.Sprintf("%s/v1/quote/%s", c.baseURL, ticker)
	var payload quotePayload
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, models.WrapFailure(models.KindDataUnavailable, err, "failed to fetch quote for %s", ticker)
	}

	snap := &models.MarketSnapshot{
		MarketCap:         payload.MarketCap,
		SharesOutstanding: payload.SharesOutstanding,
		Beta:              payload.Beta,
		CurrentPrice:      payload.CurrentPrice,
	}
	if snap.Beta == 0 {
		snap.Beta = 1.0
	}
	return snap, nil
}

// getJSON performs a rate-limited GET and decodes the body into out. Bodies
// that fail strict decoding are passed through json-repair first; some
// fundamentals providers emit trailing commas and unquoted keys.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching provider data", zap.String("url", url))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read provider response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		repaired, repairErr := jsonrepair.RepairJSON(string(body))
		if repairErr != nil {
			return fmt.Errorf("failed to parse provider response: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), out); err != nil {
			return fmt.Errorf("failed to parse repaired provider response: %w", err)
		}
		c.logger.Warn("provider response required JSON repair", zap.String("url", url))
	}
	return nil
}
