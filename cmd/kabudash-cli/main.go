// kabudash-cli prints a one-shot terminal summary for a ticker: price
// change over the selected period, the dividend estimate, and the top
// ranked headlines.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"kabudash/internal/alias"
	"kabudash/internal/aliasstore"
	"kabudash/internal/dividend"
	"kabudash/internal/domain"
	"kabudash/internal/news"
	"kabudash/internal/provider"
	"kabudash/internal/summary"
)

func main() {
	var (
		period   = flag.String("period", summary.DefaultPeriod, "history period: 1mo, 3mo, 6mo, 1y")
		interval = flag.String("interval", summary.DefaultInterval, "bar interval: 1d, 1wk, 1mo")
		days     = flag.Int("days", summary.DefaultNewsWindowDays, "news recency window in days")
		maxItems = flag.Int("max", news.DefaultMaxItems, "maximum ranked headlines")
		strict   = flag.Bool("strict", true, "drop headlines scoring below min-score")
		minScore = flag.Int("min-score", summary.DefaultMinScore, "minimum title score in strict mode")
		dbPath   = flag.String("db", "", "alias table SQLite path (optional)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kabudash-cli [options] TICKER\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	ticker := flag.Arg(0)

	// Keep progress logs off the report output.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var syncer *aliasstore.Syncer
	if *dbPath != "" {
		local, err := aliasstore.NewSQLiteStore(*dbPath)
		if err != nil {
			log.Fatalf("opening alias store: %v", err)
		}
		defer local.Close()
		syncer = aliasstore.NewSyncer(local, nil, logger)
	}

	svc := summary.NewService(summary.Config{
		Prices:   provider.NewYahooProvider(""),
		NewsFeed: news.NewClient(""),
		Aliases:  syncer,
		Resolver: alias.NewResolver(alias.DefaultOverrides()),
		Dividend: dividend.Options{},
		Logger:   logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	sum, err := svc.Summarize(ctx, ticker, summary.Options{
		Period:         *period,
		Interval:       *interval,
		NewsWindowDays: *days,
		MaxItems:       *maxItems,
		StrictTitle:    strict,
		MinScore:       minScore,
	})
	if err != nil {
		log.Fatalf("summarize: %v", err)
	}

	printSummary(sum, *period)
}

func printSummary(sum domain.Summary, period string) {
	fmt.Printf("%s (%s)\n", sum.DisplayName, sum.Ticker)

	if len(sum.Bars) > 0 {
		fmt.Printf("%s: %.1f -> %.1f (%+.2f%%, %d bars)\n",
			period, sum.FirstClose, sum.LastClose, sum.ChangePct, len(sum.Bars))
	} else {
		fmt.Printf("%s: no price data\n", period)
	}

	switch sum.Dividend.Method {
	case domain.DividendMethodTTM:
		fmt.Printf("dividend (TTM): %.2f", *sum.Dividend.TTMTotal)
		if sum.Dividend.TTMYieldPct != nil {
			fmt.Printf(" (%.2f%%)", *sum.Dividend.TTMYieldPct)
		}
		fmt.Println()
	case domain.DividendMethodFallbackLast2:
		fmt.Printf("dividend (last 2 payments): %.2f", *sum.Dividend.FallbackTotal)
		if sum.Dividend.FallbackYieldPct != nil {
			fmt.Printf(" (%.2f%%)", *sum.Dividend.FallbackYieldPct)
		}
		fmt.Println()
	default:
		fmt.Println("dividend: no data")
	}

	if len(sum.News) == 0 {
		fmt.Println("news: no qualifying headlines")
		return
	}
	fmt.Println("news:")
	for _, item := range sum.News {
		fmt.Printf("  [%d] %s\n      %s\n", item.Score, item.Title, item.Link)
	}
}
