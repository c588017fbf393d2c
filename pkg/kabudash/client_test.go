package kabudash

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kabudash/internal/domain"
)

// TestSummaryWireCompat decodes a server-side summary payload into the SDK
// types, field by field. The SDK deliberately mirrors the domain types
// rather than importing them, so external modules can name the results;
// this pins the two shapes to the same wire format.
func TestSummaryWireCompat(t *testing.T) {
	ttm := 55.0
	yield := 2.75
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(domain.Summary{
			Ticker:      "5108.T",
			DisplayName: "ブリヂストン",
			Aliases:     []string{"5108.T", "5108", "ブリヂストン"},
			Bars: []domain.Bar{{
				Ticker:    "5108.T",
				Timestamp: time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC),
				Open:      1990,
				Close:     2000,
				Volume:    1200,
			}},
			FirstClose: 1900,
			LastClose:  2000,
			ChangePct:  5.263157894736835,
			Dividend: domain.DividendSummary{
				Method:      domain.DividendMethodTTM,
				TTMTotal:    &ttm,
				TTMYieldPct: &yield,
				Recent: []domain.DividendEvent{
					{Date: time.Date(2025, 6, 27, 0, 0, 0, 0, time.UTC), Amount: 30},
				},
			},
			News: []domain.NewsItem{{Title: "ブリヂストン、決算発表", Link: "https://example.com/1", Published: "2025-08-28", Score: 4}},
		})
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).GetSummary(context.Background(), "5108.T", SummaryOptions{})
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if got.Ticker != "5108.T" || got.DisplayName != "ブリヂストン" || len(got.Aliases) != 3 {
		t.Errorf("header fields = %+v", got)
	}
	if len(got.Bars) != 1 || !got.Bars[0].Timestamp.Equal(time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC)) || got.Bars[0].Volume != 1200 {
		t.Errorf("bars = %+v", got.Bars)
	}
	if got.FirstClose != 1900 || got.LastClose != 2000 {
		t.Errorf("closes = %v, %v", got.FirstClose, got.LastClose)
	}
	if got.Dividend.Method != DividendMethodTTM {
		t.Errorf("dividend method = %q", got.Dividend.Method)
	}
	if got.Dividend.TTMTotal == nil || *got.Dividend.TTMTotal != 55 {
		t.Errorf("ttm total = %+v", got.Dividend.TTMTotal)
	}
	if got.Dividend.TTMYieldPct == nil || *got.Dividend.TTMYieldPct != 2.75 {
		t.Errorf("ttm yield = %+v", got.Dividend.TTMYieldPct)
	}
	if len(got.Dividend.Recent) != 1 || got.Dividend.Recent[0].Amount != 30 {
		t.Errorf("recent = %+v", got.Dividend.Recent)
	}
	if len(got.News) != 1 || got.News[0].Score != 4 || got.News[0].Published != "2025-08-28" {
		t.Errorf("news = %+v", got.News)
	}
}

func TestGetSummary(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(Summary{Ticker: "5108.T", DisplayName: "ブリヂストン"})
	}))
	defer srv.Close()

	strict := false
	c := NewClient(srv.URL)
	sum, err := c.GetSummary(context.Background(), "5108.T", SummaryOptions{
		Period:      "1y",
		StrictTitle: &strict,
	})
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if sum.DisplayName != "ブリヂストン" {
		t.Errorf("DisplayName = %q", sum.DisplayName)
	}
	if gotPath != "/api/summary/5108.T" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "period=1y&strict=false" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestGetNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(NewsResult{
			Ticker: "5108.T",
			Items:  []NewsItem{{Title: "決算発表", Score: 3}},
		})
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).GetNews(context.Background(), "5108.T", SummaryOptions{})
	if err != nil {
		t.Fatalf("GetNews: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Score != 3 {
		t.Errorf("GetNews = %+v", got)
	}
}

func TestReplaceAliases(t *testing.T) {
	var gotMethod string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
		json.NewEncoder(w).Encode(ReplaceResult{Rows: 1, Pushed: true})
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).ReplaceAliases(context.Background(), []AliasRecord{
		{Ticker: "5020.T", Alias: "ENEOS"},
	})
	if err != nil {
		t.Fatalf("ReplaceAliases: %v", err)
	}
	if gotMethod != "PUT" {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	var sent []AliasRecord
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if len(sent) != 1 || sent[0].Alias != "ENEOS" {
		t.Errorf("sent = %v", sent)
	}
	if got.Rows != 1 || !got.Pushed {
		t.Errorf("ReplaceAliases = %+v", got)
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "remote sheet is empty, keeping local table"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).PullAliases(context.Background())
	if err == nil {
		t.Fatal("PullAliases should surface the API error")
	}
	if want := "remote sheet is empty"; !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want substring %q", err, want)
	}
}
