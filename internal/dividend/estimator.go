// Package dividend estimates a trailing-twelve-month dividend total and
// yield for a ticker, with a last-two-payments fallback for issuers whose
// payment dates jitter outside the trailing window.
package dividend

import (
	"sort"
	"time"

	"kabudash/internal/domain"
)

// DefaultTTMDays is the trailing lookback window. 400 days rather than 365
// absorbs payment-date jitter for annual payers.
const DefaultTTMDays = 400

// DefaultRecentCap bounds the informational recent-events list.
const DefaultRecentCap = 8

// Options tunes the estimation. The zero value selects the defaults and
// the wall clock.
type Options struct {
	TTMDays   int
	RecentCap int
	Now       func() time.Time // injectable clock for tests
}

// Estimate computes a DividendSummary from a raw dividend-event series and
// a reference price. Non-positive events are discarded; timestamps are made
// zone-naive without shifting the clock value. When the trailing-window sum
// is zero, the two most recent payments are summed instead. Yields are
// computed only when lastClose > 0. Estimate performs no I/O and never
// fails: malformed or absent data yields an empty summary with method
// "none".
func Estimate(raw []domain.DividendEvent, lastClose float64, opts Options) domain.DividendSummary {
	ttmDays := opts.TTMDays
	if ttmDays <= 0 {
		ttmDays = DefaultTTMDays
	}
	recentCap := opts.RecentCap
	if recentCap <= 0 {
		recentCap = DefaultRecentCap
	}
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	out := domain.DividendSummary{Method: domain.DividendMethodNone}

	events := make([]domain.DividendEvent, 0, len(raw))
	for _, e := range raw {
		if e.Amount > 0 {
			events = append(events, domain.DividendEvent{Date: naive(e.Date), Amount: e.Amount})
		}
	}
	if len(events) == 0 {
		return out
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})

	now := naive(nowFn())
	cutoff := now.AddDate(0, 0, -ttmDays)

	ttmSum := 0.0
	for _, e := range events {
		if !e.Date.Before(cutoff) {
			ttmSum += e.Amount
		}
	}

	if ttmSum > 0 {
		out.Method = domain.DividendMethodTTM
		out.TTMTotal = &ttmSum
	} else {
		n := len(events)
		if n > 2 {
			n = 2
		}
		fallbackSum := 0.0
		for _, e := range events[:n] {
			fallbackSum += e.Amount
		}
		if fallbackSum > 0 {
			out.Method = domain.DividendMethodFallbackLast2
			out.FallbackTotal = &fallbackSum
		}
	}

	if lastClose > 0 {
		if out.TTMTotal != nil {
			y := *out.TTMTotal / lastClose * 100
			out.TTMYieldPct = &y
		}
		if out.FallbackTotal != nil {
			y := *out.FallbackTotal / lastClose * 100
			out.FallbackYieldPct = &y
		}
	}

	recent := events
	if len(recent) > recentCap {
		recent = recent[:recentCap]
	}
	out.Recent = recent

	return out
}

// naive strips the zone from t, keeping the clock value.
func naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
