// Package news builds the feed search expression for a ticker's alias set,
// fetches candidate items from Google News RSS, and scores, filters, and
// ranks them by relevance.
package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"kabudash/internal/domain"
	"kabudash/internal/util"
)

// DefaultBaseURL is the Google News RSS search endpoint.
const DefaultBaseURL = "https://news.google.com/rss/search"

// Client fetches candidate news items from Google News RSS, scoped to the
// Japanese edition the dashboard targets.
type Client struct {
	BaseURL string // defaults to DefaultBaseURL
	Lang    string // hl param, defaults to "ja"
	Country string // gl param, defaults to "JP"
	Edition string // ceid param, defaults to "JP:ja"

	// Limiter, when set, throttles outgoing feed requests.
	Limiter *util.RateLimiter

	httpClient *http.Client
}

// NewClient creates a feed client for the given endpoint. An empty baseURL
// selects the public Google News endpoint.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type rssResponse struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

// Search submits the query to the feed and returns at most limit raw items
// in feed order. PubDate strings are passed through untouched; ranking
// treats them as opaque sortable tokens.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.RawNewsItem, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	lang, country, edition := c.Lang, c.Country, c.Edition
	if lang == "" {
		lang = "ja"
	}
	if country == "" {
		country = "JP"
	}
	if edition == "" {
		edition = "JP:ja"
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", lang)
	params.Set("gl", country)
	params.Set("ceid", edition)

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed status %d", resp.StatusCode)
	}

	var rss rssResponse
	if err := xml.NewDecoder(resp.Body).Decode(&rss); err != nil {
		return nil, err
	}

	items := rss.Channel.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	out := make([]domain.RawNewsItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.RawNewsItem{
			Title:     it.Title,
			Link:      it.Link,
			Published: it.PubDate,
		})
	}
	return out, nil
}
