package dividend

import (
	"math"
	"reflect"
	"testing"
	"time"

	"kabudash/internal/domain"
)

var testNow = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func daysAgo(d int) time.Time { return testNow.AddDate(0, 0, -d) }

// ptrVal renders an optional float for failure messages.
func ptrVal(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func TestEstimateTTM(t *testing.T) {
	events := []domain.DividendEvent{
		{Date: daysAgo(100), Amount: 30},
		{Date: daysAgo(280), Amount: 25},
		{Date: daysAgo(500), Amount: 20}, // outside the window
	}
	got := Estimate(events, 2000, Options{Now: fixedNow})

	if got.Method != domain.DividendMethodTTM {
		t.Fatalf("method = %s, want ttm", got.Method)
	}
	if got.TTMTotal == nil || *got.TTMTotal != 55 {
		t.Fatalf("ttm total = %v, want 55", ptrVal(got.TTMTotal))
	}
	if got.TTMYieldPct == nil || math.Abs(*got.TTMYieldPct-55.0/2000*100) > 1e-12 {
		t.Errorf("ttm yield = %v, want %v", ptrVal(got.TTMYieldPct), 55.0/2000*100)
	}
	if got.FallbackTotal != nil || got.FallbackYieldPct != nil {
		t.Errorf("fallback fields should be empty when method is ttm")
	}
}

func TestEstimateFallbackLastTwo(t *testing.T) {
	// Nothing inside the 400-day window, two older payments.
	events := []domain.DividendEvent{
		{Date: daysAgo(410), Amount: 18},
		{Date: daysAgo(420), Amount: 17},
		{Date: daysAgo(800), Amount: 10}, // third payment must not be summed
	}
	got := Estimate(events, 1000, Options{Now: fixedNow})

	if got.Method != domain.DividendMethodFallbackLast2 {
		t.Fatalf("method = %s, want fallback_last2", got.Method)
	}
	if got.FallbackTotal == nil || *got.FallbackTotal != 35 {
		t.Fatalf("fallback total = %v, want 35", ptrVal(got.FallbackTotal))
	}
	// Compare with a tolerance: total/price*100 evaluates in float64 at
	// runtime and does not land exactly on the folded constant 3.5.
	if got.FallbackYieldPct == nil || math.Abs(*got.FallbackYieldPct-3.5) > 1e-12 {
		t.Errorf("fallback yield = %v, want 3.5", ptrVal(got.FallbackYieldPct))
	}
	if got.TTMTotal != nil {
		t.Errorf("ttm total should be empty, got %v", *got.TTMTotal)
	}
}

func TestEstimateFallbackSinglePayment(t *testing.T) {
	events := []domain.DividendEvent{{Date: daysAgo(500), Amount: 12}}
	got := Estimate(events, 0, Options{Now: fixedNow})

	if got.Method != domain.DividendMethodFallbackLast2 {
		t.Fatalf("method = %s, want fallback_last2", got.Method)
	}
	if got.FallbackTotal == nil || *got.FallbackTotal != 12 {
		t.Errorf("fallback total = %v, want 12", ptrVal(got.FallbackTotal))
	}
}

func TestEstimateZeroLastCloseOmitsYields(t *testing.T) {
	events := []domain.DividendEvent{{Date: daysAgo(30), Amount: 10}}
	got := Estimate(events, 0, Options{Now: fixedNow})

	if got.TTMTotal == nil || *got.TTMTotal != 10 {
		t.Fatalf("ttm total = %v, want 10", ptrVal(got.TTMTotal))
	}
	if got.TTMYieldPct != nil {
		t.Errorf("yield should be empty with lastClose = 0, got %v", *got.TTMYieldPct)
	}
}

func TestEstimateEmptyAndNonPositive(t *testing.T) {
	for _, events := range [][]domain.DividendEvent{
		nil,
		{},
		{{Date: daysAgo(10), Amount: 0}, {Date: daysAgo(20), Amount: -5}},
	} {
		got := Estimate(events, 100, Options{Now: fixedNow})
		if got.Method != domain.DividendMethodNone {
			t.Errorf("method = %s, want none for %v", got.Method, events)
		}
		if got.TTMTotal != nil || got.FallbackTotal != nil || len(got.Recent) != 0 {
			t.Errorf("summary should be empty for %v: %+v", events, got)
		}
	}
}

func TestEstimateRecentEvents(t *testing.T) {
	var events []domain.DividendEvent
	for i := 1; i <= 12; i++ {
		events = append(events, domain.DividendEvent{Date: daysAgo(i * 30), Amount: float64(i)})
	}
	got := Estimate(events, 100, Options{Now: fixedNow})

	if len(got.Recent) != DefaultRecentCap {
		t.Fatalf("recent has %d events, want %d", len(got.Recent), DefaultRecentCap)
	}
	for i := 0; i < len(got.Recent)-1; i++ {
		if got.Recent[i].Date.Before(got.Recent[i+1].Date) {
			t.Errorf("recent not descending at %d", i)
		}
	}
	// Most recent first: the 30-days-ago payment of amount 1.
	if got.Recent[0].Amount != 1 {
		t.Errorf("recent[0].Amount = %v, want 1", got.Recent[0].Amount)
	}
}

func TestEstimateStripsZoneWithoutShifting(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	// 23:00 JST on the cutoff boundary day: stripping the offset keeps the
	// clock value, so the event stays inside a window measured in naive time.
	events := []domain.DividendEvent{
		{Date: time.Date(2024, 7, 29, 23, 0, 0, 0, jst), Amount: 5},
	}
	got := Estimate(events, 100, Options{Now: fixedNow})
	if got.Method != domain.DividendMethodTTM {
		t.Fatalf("method = %s, want ttm", got.Method)
	}
	if !got.Recent[0].Date.Equal(time.Date(2024, 7, 29, 23, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v, want clock value preserved in UTC", got.Recent[0].Date)
	}
}

func TestEstimateIdempotent(t *testing.T) {
	events := []domain.DividendEvent{
		{Date: daysAgo(100), Amount: 30},
		{Date: daysAgo(420), Amount: 25},
	}
	a := Estimate(events, 2000, Options{Now: fixedNow})
	b := Estimate(events, 2000, Options{Now: fixedNow})
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Estimate not idempotent: %+v vs %+v", a, b)
	}
}
