// Package httpapi serves the dashboard JSON API: ticker summaries, ranked
// news, dividend estimates, and alias-table management.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"kabudash/internal/aliasstore"
	"kabudash/internal/domain"
	"kabudash/internal/jptext"
	"kabudash/internal/summary"
)

// Summarizer is the slice of the summary service the API needs.
type Summarizer interface {
	Summarize(ctx context.Context, ticker string, opts summary.Options) (domain.Summary, error)
}

// Server serves the dashboard HTTP API.
type Server struct {
	summaries Summarizer
	aliases   *aliasstore.Syncer
	log       *slog.Logger
}

// NewServer creates a dashboard API server. aliases may be nil; the alias
// endpoints then report the store as unconfigured.
func NewServer(summaries Summarizer, aliases *aliasstore.Syncer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{summaries: summaries, aliases: aliases, log: log}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/summary/{ticker}", s.handleSummary)
	mux.HandleFunc("GET /api/news/{ticker}", s.handleNews)
	mux.HandleFunc("GET /api/dividends/{ticker}", s.handleDividends)
	mux.HandleFunc("GET /api/aliases", s.handleGetAliases)
	mux.HandleFunc("PUT /api/aliases", s.handleReplaceAliases)
	mux.HandleFunc("POST /api/aliases/sync/pull", s.handleSyncPull)
	mux.HandleFunc("POST /api/aliases/sync/push", s.handleSyncPush)
	mux.HandleFunc("POST /api/aliases/reload", s.handleReload)
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// parseSummaryOptions extracts period/interval/news overrides from query
// params. Absent or unparsable params fall back to the service defaults.
func parseSummaryOptions(r *http.Request) summary.Options {
	q := r.URL.Query()
	opts := summary.Options{
		Period:   q.Get("period"),
		Interval: q.Get("interval"),
	}
	if n, err := strconv.Atoi(q.Get("days")); err == nil {
		opts.NewsWindowDays = n
	}
	if n, err := strconv.Atoi(q.Get("max")); err == nil {
		opts.MaxItems = n
	}
	if b, err := strconv.ParseBool(q.Get("strict")); err == nil {
		opts.StrictTitle = &b
	}
	if n, err := strconv.Atoi(q.Get("minScore")); err == nil {
		opts.MinScore = &n
	}
	return opts
}

func (s *Server) summarize(w http.ResponseWriter, r *http.Request) (domain.Summary, bool) {
	ticker := r.PathValue("ticker")
	sum, err := s.summaries.Summarize(r.Context(), ticker, parseSummaryOptions(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.Summary{}, false
	}
	return sum, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, ok := s.summarize(w, r)
	if !ok {
		return
	}
	writeJSON(w, sum)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	sum, ok := s.summarize(w, r)
	if !ok {
		return
	}
	items := sum.News
	if items == nil {
		items = []domain.NewsItem{}
	}
	writeJSON(w, NewsResponse{Ticker: sum.Ticker, Items: items})
}

func (s *Server) handleDividends(w http.ResponseWriter, r *http.Request) {
	sum, ok := s.summarize(w, r)
	if !ok {
		return
	}
	writeJSON(w, DividendsResponse{Ticker: sum.Ticker, Dividend: sum.Dividend})
}

func (s *Server) handleGetAliases(w http.ResponseWriter, r *http.Request) {
	if s.aliases == nil {
		writeError(w, http.StatusServiceUnavailable, "alias store not configured")
		return
	}

	records, source := s.aliases.Load(r.Context())

	// Optional substring filter over ticker and alias, NFKC-folded the
	// same way the table itself is.
	if q := jptext.Normalize(r.URL.Query().Get("q")); q != "" {
		q = strings.ToLower(q)
		filtered := make([]domain.AliasRecord, 0, len(records))
		for _, rec := range records {
			if strings.Contains(strings.ToLower(rec.Ticker), q) ||
				strings.Contains(strings.ToLower(rec.Alias), q) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	if records == nil {
		records = []domain.AliasRecord{}
	}
	writeJSON(w, AliasesResponse{Source: string(source), Records: records})
}

func (s *Server) handleReplaceAliases(w http.ResponseWriter, r *http.Request) {
	if s.aliases == nil {
		writeError(w, http.StatusServiceUnavailable, "alias store not configured")
		return
	}

	var records []domain.AliasRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeError(w, http.StatusBadRequest, "invalid alias payload: "+err.Error())
		return
	}

	cleaned := aliasstore.Clean(records)
	pushed, err := s.aliases.ReplaceLocal(r.Context(), cleaned)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, ReplaceAliasesResponse{Rows: len(cleaned), Pushed: pushed})
}

func (s *Server) handleSyncPull(w http.ResponseWriter, r *http.Request) {
	if s.aliases == nil {
		writeError(w, http.StatusServiceUnavailable, "alias store not configured")
		return
	}
	if err := s.aliases.PullRemote(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, SyncResponse{Status: "pulled"})
}

func (s *Server) handleSyncPush(w http.ResponseWriter, r *http.Request) {
	if s.aliases == nil {
		writeError(w, http.StatusServiceUnavailable, "alias store not configured")
		return
	}
	if err := s.aliases.PushLocal(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, SyncResponse{Status: "pushed"})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.aliases == nil {
		writeError(w, http.StatusServiceUnavailable, "alias store not configured")
		return
	}
	records, source := s.aliases.Load(r.Context())
	s.log.Info("alias table reloaded", "source", source, "rows", len(records))
	writeJSON(w, ReloadResponse{Source: string(source), Rows: len(records)})
}
