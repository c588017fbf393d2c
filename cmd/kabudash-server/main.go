package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"kabudash/internal/alias"
	"kabudash/internal/aliasstore"
	"kabudash/internal/config"
	"kabudash/internal/dividend"
	"kabudash/internal/httpapi"
	"kabudash/internal/news"
	"kabudash/internal/provider"
	"kabudash/internal/refresh"
	"kabudash/internal/store"
	"kabudash/internal/summary"
	"kabudash/internal/util"
)

func main() {
	// Load config.
	cfgPath := "config/kabudash.yaml"
	if p := os.Getenv("KABUDASH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// Setup logging.
	logger := util.NewLogger(cfg.Logging.Level)
	util.SetDefault(logger)

	dataDir := cfg.Storage.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	sqlitePath := cfg.Storage.SQLitePath
	if sqlitePath == "" {
		sqlitePath = filepath.Join(dataDir, "kabudash.db")
	}
	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		log.Fatalf("creating data dir: %v", err)
	}

	// Alias storage and sync.
	local, err := aliasstore.NewSQLiteStore(sqlitePath)
	if err != nil {
		log.Fatalf("opening alias store: %v", err)
	}
	defer local.Close()

	var remote *aliasstore.RemoteSheet
	if cfg.Sheet.FetchURL != "" || cfg.Sheet.PushURL != "" {
		remote = aliasstore.NewRemoteSheet(cfg.Sheet.FetchURL, cfg.Sheet.PushURL)
	}
	syncer := aliasstore.NewSyncer(local, remote, logger)

	// Price provider.
	var prices provider.PriceProvider
	switch cfg.Provider.Kind {
	case "alpaca":
		prices = provider.NewAlpacaProvider(
			cfg.Provider.Alpaca.APIKey,
			cfg.Provider.Alpaca.APISecret,
			cfg.Provider.Alpaca.DataURL,
			cfg.Provider.Alpaca.BaseURL,
		)
	default:
		prices = provider.NewYahooProvider(cfg.Provider.Yahoo.BaseURL)
	}
	if ttl := cfg.Provider.CacheTTLSeconds; ttl > 0 {
		prices = provider.NewCachedPrices(prices, time.Duration(ttl)*time.Second, nil)
	}

	// News feed.
	feed := news.NewClient(cfg.News.BaseURL)
	if cfg.News.RateLimitPerMin > 0 {
		feed.Limiter = util.NewRateLimiter(cfg.News.RateLimitPerMin)
	}

	// Manual alias overrides: config entries extend the built-in table.
	overrides := alias.DefaultOverrides()
	for ticker, aliases := range cfg.Aliases {
		overrides[ticker] = aliases
	}

	barCache := store.NewParquetStore(dataDir)

	svc := summary.NewService(summary.Config{
		Prices:   prices,
		NewsFeed: feed,
		Aliases:  syncer,
		BarCache: barCache,
		Resolver: alias.NewResolver(overrides),
		Dividend: dividend.Options{
			TTMDays:   cfg.Dividend.TTMDays,
			RecentCap: cfg.Dividend.RecentCap,
		},
		Defaults: summary.Options{
			NewsWindowDays: cfg.News.WindowDays,
			MaxItems:       cfg.News.MaxItems,
			StrictTitle:    cfg.News.StrictTitle,
			MinScore:       cfg.News.MinScore,
		},
		ExcludeTerms: cfg.News.ExcludeTerms,
		Logger:       logger,
	})

	api := httpapi.NewServer(svc, syncer, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Seed the local table from the remote sheet on startup, best effort.
	if remote.Configured() {
		if err := syncer.PullRemote(ctx); err != nil {
			logger.Warn("initial alias sync failed", "error", err)
		}
	}

	// Scheduled jobs: alias re-sync and bar-cache refresh.
	c := cron.New()
	if cfg.Sheet.SyncCron != "" && remote.Configured() {
		if _, err := c.AddFunc(cfg.Sheet.SyncCron, func() {
			if err := syncer.PullRemote(context.Background()); err != nil {
				logger.Warn("scheduled alias sync failed", "error", err)
			}
		}); err != nil {
			log.Fatalf("invalid sync_cron %q: %v", cfg.Sheet.SyncCron, err)
		}
		logger.Info("alias sync scheduled", "cron", cfg.Sheet.SyncCron)
	}
	if cfg.Refresh.Cron != "" {
		refresher := refresh.New(refresh.Config{
			Prices:          prices,
			Cache:           barCache,
			Aliases:         syncer,
			Period:          cfg.Refresh.Period,
			MaxWorkers:      cfg.Refresh.MaxWorkers,
			RateLimitPerMin: cfg.Refresh.RateLimitPerMin,
			Logger:          logger,
		})
		if _, err := c.AddFunc(cfg.Refresh.Cron, func() {
			if err := refresher.Run(context.Background()); err != nil {
				logger.Warn("scheduled refresh failed", "error", err)
			}
		}); err != nil {
			log.Fatalf("invalid refresh cron %q: %v", cfg.Refresh.Cron, err)
		}
		logger.Info("bar refresh scheduled", "cron", cfg.Refresh.Cron)
	}
	c.Start()
	defer c.Stop()

	// Start HTTP server.
	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, port),
		Handler: api.Handler(),
	}

	go func() {
		logger.Info("kabudash server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down kabudash server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
