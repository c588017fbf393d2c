// Package kabudash provides a Go SDK for the kabudash-server API.
package kabudash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SummaryOptions are the optional query parameters for summary requests.
// Zero values are omitted and the server defaults apply.
type SummaryOptions struct {
	Period         string
	Interval       string
	NewsWindowDays int
	MaxItems       int
	StrictTitle    *bool
	MinScore       *int
}

func (o SummaryOptions) query() url.Values {
	q := url.Values{}
	if o.Period != "" {
		q.Set("period", o.Period)
	}
	if o.Interval != "" {
		q.Set("interval", o.Interval)
	}
	if o.NewsWindowDays > 0 {
		q.Set("days", strconv.Itoa(o.NewsWindowDays))
	}
	if o.MaxItems > 0 {
		q.Set("max", strconv.Itoa(o.MaxItems))
	}
	if o.StrictTitle != nil {
		q.Set("strict", strconv.FormatBool(*o.StrictTitle))
	}
	if o.MinScore != nil {
		q.Set("minScore", strconv.Itoa(*o.MinScore))
	}
	return q
}

// NewsResult is the response of the news endpoint.
type NewsResult struct {
	Ticker string     `json:"ticker"`
	Items  []NewsItem `json:"items"`
}

// DividendsResult is the response of the dividends endpoint.
type DividendsResult struct {
	Ticker   string          `json:"ticker"`
	Dividend DividendSummary `json:"dividend"`
}

// AliasesResult is the alias table with its origin ("remote", "local",
// or "none").
type AliasesResult struct {
	Source  string        `json:"source"`
	Records []AliasRecord `json:"records"`
}

// ReplaceResult reports the outcome of a wholesale alias replace.
type ReplaceResult struct {
	Rows   int  `json:"rows"`
	Pushed bool `json:"pushed"`
}

// SyncResult reports a completed pull or push.
type SyncResult struct {
	Status string `json:"status"`
}

// Client provides a Go SDK for interacting with the kabudash-server API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new kabudash API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetSummary retrieves the full dashboard summary for a ticker.
func (c *Client) GetSummary(ctx context.Context, ticker string, opts SummaryOptions) (Summary, error) {
	var out Summary
	err := c.get(ctx, "/api/summary/"+url.PathEscape(ticker), opts.query(), &out)
	return out, err
}

// GetNews retrieves only the ranked news for a ticker.
func (c *Client) GetNews(ctx context.Context, ticker string, opts SummaryOptions) (NewsResult, error) {
	var out NewsResult
	err := c.get(ctx, "/api/news/"+url.PathEscape(ticker), opts.query(), &out)
	return out, err
}

// GetDividends retrieves only the dividend estimate for a ticker.
func (c *Client) GetDividends(ctx context.Context, ticker string) (DividendsResult, error) {
	var out DividendsResult
	err := c.get(ctx, "/api/dividends/"+url.PathEscape(ticker), nil, &out)
	return out, err
}

// GetAliases retrieves the alias table, optionally filtered by a substring
// over tickers and aliases.
func (c *Client) GetAliases(ctx context.Context, filter string) (AliasesResult, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("q", filter)
	}
	var out AliasesResult
	err := c.get(ctx, "/api/aliases", q, &out)
	return out, err
}

// ReplaceAliases swaps the server's alias table for the given rows.
func (c *Client) ReplaceAliases(ctx context.Context, records []AliasRecord) (ReplaceResult, error) {
	body, err := json.Marshal(records)
	if err != nil {
		return ReplaceResult{}, err
	}
	var out ReplaceResult
	err = c.do(ctx, "PUT", "/api/aliases", bytes.NewReader(body), &out)
	return out, err
}

// PullAliases replaces the server's local alias table with the remote sheet.
func (c *Client) PullAliases(ctx context.Context) (SyncResult, error) {
	var out SyncResult
	err := c.do(ctx, "POST", "/api/aliases/sync/pull", nil, &out)
	return out, err
}

// PushAliases uploads the server's local alias table to the remote sheet.
func (c *Client) PushAliases(ctx context.Context) (SyncResult, error) {
	var out SyncResult
	err := c.do(ctx, "POST", "/api/aliases/sync/push", nil, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return c.do(ctx, "GET", path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
