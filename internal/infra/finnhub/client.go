package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"paper_trade/internal/domain"
	"paper_trade/internal/infra"

	"github.com/shopspring/decimal"
)

// Client is the Finnhub REST quote client. It is the simulator's only
// price source; every failure surfaces as a recoverable error, never a
// process fault.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *infra.Metrics
	backoff    func(retryCount int) time.Duration
}

// NewClient creates a Finnhub client against the given base URL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: infra.GlobalMetrics,
		backoff: infra.CalculateBackoff,
	}
}

// GetQuote fetches the current quote for a symbol with retry.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	var resp quoteResponse
	endpoint := c.baseURL + "/quote?symbol=" + url.QueryEscape(symbol)

	start := time.Now()
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		c.metrics.RecordQuoteFailure()
		return nil, domain.NewQuoteError("quote", symbol, err)
	}
	c.metrics.RecordQuoteFetch(time.Since(start).Nanoseconds())

	// Unknown symbols come back as an all-zero quote with status 200.
	if resp.Current <= 0 {
		c.metrics.RecordQuoteFailure()
		return nil, domain.NewFatalQuoteError("quote", symbol,
			fmt.Errorf("no price data for symbol"))
	}

	return &domain.Quote{
		Symbol:    symbol,
		Current:   decimal.NewFromFloat(resp.Current),
		High:      decimal.NewFromFloat(resp.High),
		Low:       decimal.NewFromFloat(resp.Low),
		PrevClose: decimal.NewFromFloat(resp.PrevClose),
		FetchedAt: time.Now(),
	}, nil
}

// GetPrice fetches only the current price for a symbol.
func (c *Client) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	quote, err := c.GetQuote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return quote.Current, nil
}

// GetProfile fetches the company profile for a symbol.
func (c *Client) GetProfile(ctx context.Context, symbol string) (*domain.CompanyProfile, error) {
	var resp profileResponse
	endpoint := c.baseURL + "/stock/profile2?symbol=" + url.QueryEscape(symbol)

	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, domain.NewQuoteError("profile", symbol, err)
	}

	if resp.Name == "" {
		return nil, domain.NewFatalQuoteError("profile", symbol,
			fmt.Errorf("no profile data for symbol"))
	}

	return &domain.CompanyProfile{
		Symbol:   symbol,
		Name:     resp.Name,
		Exchange: resp.Exchange,
		Currency: resp.Currency,
		LogoURL:  resp.Logo,
	}, nil
}

// getJSON performs a GET with up to 3 attempts and exponential backoff.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	var lastErr error
	for i := 0; i < 3; i++ {
		if i > 0 {
			delay := c.backoff(i - 1)
			slog.Debug("Retrying Finnhub request", slog.Int("attempt", i), slog.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := c.doGet(ctx, endpoint, out)
		if err == nil {
			return nil
		}
		lastErr = err
		slog.Warn("Finnhub request attempt failed", slog.Int("attempt", i+1), slog.Any("error", err))
	}
	return lastErr
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Finnhub-Token", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, out)
}
