// Package market provides an HTTP client for the remote quote, profile, and
// earnings-calendar endpoints of a token-authenticated market-data API.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StatusError reports a non-success HTTP status from the market API,
// identifying the failing symbol and endpoint.
type StatusError struct {
	Symbol     string
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("market: %s %s: HTTP %d", e.Endpoint, e.Symbol, e.StatusCode)
}

// Client calls the market-data API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetQuote fetches the current quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol, token string) (*Quote, error) {
	var q Quote
	params := url.Values{"symbol": {symbol}, "token": {token}}
	if err := c.getJSON(ctx, "/quote", symbol, params, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// GetProfile fetches the company profile for a symbol.
func (c *Client) GetProfile(ctx context.Context, symbol, token string) (*Profile, error) {
	var p Profile
	params := url.Values{"symbol": {symbol}, "token": {token}}
	if err := c.getJSON(ctx, "/stock/profile2", symbol, params, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetEarnings fetches the earnings calendar for a symbol within [from, to].
// Dates are calendar-date strings (YYYY-MM-DD).
func (c *Client) GetEarnings(ctx context.Context, symbol, token, from, to string) (*EarningsCalendar, error) {
	var cal EarningsCalendar
	params := url.Values{
		"symbol": {symbol},
		"from":   {from},
		"to":     {to},
		"token":  {token},
	}
	if err := c.getJSON(ctx, "/calendar/earnings", symbol, params, &cal); err != nil {
		return nil, err
	}
	return &cal, nil
}

// getJSON issues a GET request and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, endpoint, symbol string, params url.Values, out any) error {
	u := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("market: %s %s: %w", endpoint, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Symbol: symbol, Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("market: decoding %s %s: %w", endpoint, symbol, err)
	}
	return nil
}
