package stats

import (
	"time"

	"github.com/keyscope/keyscope/internal/usage"
)

// DefaultRateWindowMinutes is used when callers pass a zero or
// negative window.
const DefaultRateWindowMinutes = 30

// RateSummary carries per-minute rates over a trailing window.
type RateSummary struct {
	RPM           float64 `json:"rpm"`
	TPM           float64 `json:"tpm"`
	WindowMinutes int     `json:"window_minutes"`
	RequestCount  int     `json:"request_count"`
	TokenCount    int64   `json:"token_count"`
}

// RateCalculator derives request and token rates. The clock is
// injectable for tests.
type RateCalculator struct {
	now func() time.Time
}

func NewRateCalculator() *RateCalculator {
	return &RateCalculator{now: time.Now}
}

// RecentRates filters events to the trailing window and divides the
// request and token sums by the window length. Results are never
// negative; zero matching events yield zero rates.
func (r *RateCalculator) RecentRates(windowMinutes int, events []usage.Event) RateSummary {
	if windowMinutes <= 0 {
		windowMinutes = DefaultRateWindowMinutes
	}
	now := r.now()
	cutoff := now.Add(-time.Duration(windowMinutes) * time.Minute)

	requestCount := 0
	var tokenCount int64
	for _, ev := range events {
		if ev.Timestamp.Before(cutoff) || ev.Timestamp.After(now) {
			continue
		}
		requestCount++
		tokenCount += ev.Tokens.Total
	}

	return RateSummary{
		RPM:           float64(requestCount) / float64(windowMinutes),
		TPM:           float64(tokenCount) / float64(windowMinutes),
		WindowMinutes: windowMinutes,
		RequestCount:  requestCount,
		TokenCount:    tokenCount,
	}
}
