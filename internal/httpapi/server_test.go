package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"kabudash/internal/aliasstore"
	"kabudash/internal/domain"
	"kabudash/internal/summary"
)

type fakeSummarizer struct {
	lastTicker string
	lastOpts   summary.Options
	result     domain.Summary
	err        error
}

func (f *fakeSummarizer) Summarize(_ context.Context, ticker string, opts summary.Options) (domain.Summary, error) {
	f.lastTicker = ticker
	f.lastOpts = opts
	if f.err != nil {
		return domain.Summary{}, f.err
	}
	out := f.result
	out.Ticker = ticker
	return out, nil
}

func newTestSyncer(t *testing.T) *aliasstore.Syncer {
	t.Helper()
	local, err := aliasstore.NewSQLiteStore(filepath.Join(t.TempDir(), "aliases.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { local.Close() })
	return aliasstore.NewSyncer(local, nil, nil)
}

func TestHandleSummary(t *testing.T) {
	fake := &fakeSummarizer{result: domain.Summary{
		DisplayName: "ブリヂストン",
		Aliases:     []string{"5108.T", "5108", "ブリヂストン"},
	}}
	srv := httptest.NewServer(NewServer(fake, newTestSyncer(t), nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/summary/5108.T?period=1y&days=7&strict=false&minScore=1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var got domain.Summary
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if got.DisplayName != "ブリヂストン" {
		t.Errorf("DisplayName = %q", got.DisplayName)
	}

	if fake.lastTicker != "5108.T" {
		t.Errorf("ticker = %q", fake.lastTicker)
	}
	if fake.lastOpts.Period != "1y" || fake.lastOpts.NewsWindowDays != 7 {
		t.Errorf("opts = %+v", fake.lastOpts)
	}
	if fake.lastOpts.StrictTitle == nil || *fake.lastOpts.StrictTitle {
		t.Errorf("strict override not parsed: %+v", fake.lastOpts.StrictTitle)
	}
	if fake.lastOpts.MinScore == nil || *fake.lastOpts.MinScore != 1 {
		t.Errorf("minScore override not parsed: %+v", fake.lastOpts.MinScore)
	}
}

func TestHandleSummaryBadTicker(t *testing.T) {
	fake := &fakeSummarizer{err: fmt.Errorf("empty ticker")}
	srv := httptest.NewServer(NewServer(fake, nil, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/summary/%20")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleNews(t *testing.T) {
	fake := &fakeSummarizer{result: domain.Summary{
		News: []domain.NewsItem{{Title: "決算発表", Link: "https://example.com", Score: 3}},
	}}
	srv := httptest.NewServer(NewServer(fake, nil, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/news/5108.T")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var got NewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if got.Ticker != "5108.T" || len(got.Items) != 1 || got.Items[0].Score != 3 {
		t.Errorf("NewsResponse = %+v", got)
	}
}

func TestHandleNewsEmptyIsArray(t *testing.T) {
	srv := httptest.NewServer(NewServer(&fakeSummarizer{}, nil, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/news/5108.T")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if string(raw["items"]) != "[]" {
		t.Errorf("items = %s, want []", raw["items"])
	}
}

func TestHandleDividends(t *testing.T) {
	ttm := 105.0
	fake := &fakeSummarizer{result: domain.Summary{
		Dividend: domain.DividendSummary{
			TTMTotal: &ttm,
			Method:   domain.DividendMethodTTM,
		},
	}}
	srv := httptest.NewServer(NewServer(fake, nil, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/dividends/5108.T")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var got DividendsResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if got.Dividend.Method != domain.DividendMethodTTM || got.Dividend.TTMTotal == nil {
		t.Errorf("DividendsResponse = %+v", got)
	}
}

func TestAliasRoundTrip(t *testing.T) {
	srv := httptest.NewServer(NewServer(&fakeSummarizer{}, newTestSyncer(t), nil).Handler())
	defer srv.Close()

	body := `[{"ticker":"5020.T","alias":"ENEOS"},{"ticker":"7611.T","alias":"日高屋"}]`
	req, _ := http.NewRequest("PUT", srv.URL+"/api/aliases", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d", resp.StatusCode)
	}
	var putResp ReplaceAliasesResponse
	if err := json.NewDecoder(resp.Body).Decode(&putResp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if putResp.Rows != 2 || putResp.Pushed {
		t.Errorf("ReplaceAliasesResponse = %+v", putResp)
	}

	getResp, err := http.Get(srv.URL + "/api/aliases")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer getResp.Body.Close()
	var got AliasesResponse
	if err := json.NewDecoder(getResp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if got.Source != "local" || len(got.Records) != 2 {
		t.Errorf("AliasesResponse = %+v", got)
	}
}

func TestAliasFilter(t *testing.T) {
	syncer := newTestSyncer(t)
	srv := httptest.NewServer(NewServer(&fakeSummarizer{}, syncer, nil).Handler())
	defer srv.Close()

	if _, err := syncer.ReplaceLocal(context.Background(), []domain.AliasRecord{
		{Ticker: "5020.T", Alias: "ENEOS"},
		{Ticker: "7611.T", Alias: "日高屋"},
	}); err != nil {
		t.Fatalf("ReplaceLocal: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/aliases?q=日高")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	var got AliasesResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(got.Records) != 1 || got.Records[0].Ticker != "7611.T" {
		t.Errorf("filtered = %+v", got.Records)
	}

	// The filter folds width and case the same way the table does.
	resp2, err := http.Get(srv.URL + "/api/aliases?q=" + "eneos")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp2.Body.Close()
	var got2 AliasesResponse
	if err := json.NewDecoder(resp2.Body).Decode(&got2); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(got2.Records) != 1 || got2.Records[0].Ticker != "5020.T" {
		t.Errorf("filtered = %+v", got2.Records)
	}
}

func TestAliasReplaceInvalidPayload(t *testing.T) {
	srv := httptest.NewServer(NewServer(&fakeSummarizer{}, newTestSyncer(t), nil).Handler())
	defer srv.Close()

	req, _ := http.NewRequest("PUT", srv.URL+"/api/aliases", strings.NewReader("not json"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAliasEndpointsUnconfigured(t *testing.T) {
	srv := httptest.NewServer(NewServer(&fakeSummarizer{}, nil, nil).Handler())
	defer srv.Close()

	for _, c := range []struct{ method, path string }{
		{"GET", "/api/aliases"},
		{"PUT", "/api/aliases"},
		{"POST", "/api/aliases/sync/pull"},
		{"POST", "/api/aliases/sync/push"},
		{"POST", "/api/aliases/reload"},
	} {
		req, _ := http.NewRequest(c.method, srv.URL+c.path, strings.NewReader("[]"))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", c.method, c.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("%s %s status = %d, want 503", c.method, c.path, resp.StatusCode)
		}
	}
}

func TestSyncPullWithoutRemote(t *testing.T) {
	srv := httptest.NewServer(NewServer(&fakeSummarizer{}, newTestSyncer(t), nil).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/aliases/sync/pull", "", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := httptest.NewServer(NewServer(&fakeSummarizer{}, nil, nil).Handler())
	defer srv.Close()

	req, _ := http.NewRequest("OPTIONS", srv.URL+"/api/summary/5108.T", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
