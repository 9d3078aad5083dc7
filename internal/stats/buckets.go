// Package stats folds normalized usage events into render-ready
// summaries: sliding-window status buckets, per-identity counters and
// trailing-window rates. Every function is a pure pass over an
// immutable event slice; nothing here is maintained incrementally.
package stats

import (
	"time"

	"github.com/keyscope/keyscope/internal/identity"
	"github.com/keyscope/keyscope/internal/usage"
)

// Fixed status window: 20 buckets of 10 minutes, newest last.
const (
	BucketCount = 20
	BucketSize  = 10 * time.Minute

	statusWindow = BucketCount * BucketSize
)

// BucketState classifies one time slice.
type BucketState string

const (
	BucketIdle    BucketState = "idle"
	BucketSuccess BucketState = "success"
	BucketFailure BucketState = "failure"
	BucketMixed   BucketState = "mixed"
)

// StatusBarData is the render-ready health summary for one channel (or
// for everything, when unfiltered). Buckets always has BucketCount
// entries. SuccessRate is 100 for an untouched channel so an idle
// credential never reads as unhealthy.
type StatusBarData struct {
	Buckets      []BucketState `json:"buckets"`
	SuccessRate  float64       `json:"success_rate"`
	TotalSuccess int           `json:"total_success"`
	TotalFailure int           `json:"total_failure"`
}

// StatusFilter restricts bucketing to an exact source identity and/or
// an exact auth index; zero values mean no filter.
type StatusFilter struct {
	Source    identity.Identity
	AuthIndex string
}

// Bucketer classifies events into the fixed status window. The clock
// is injectable for tests.
type Bucketer struct {
	now func() time.Time
}

func NewBucketer() *Bucketer {
	return &Bucketer{now: time.Now}
}

// BucketStatus folds the filtered events into per-bucket states.
// Events outside (now-window, now) are excluded, which also covers
// clock-skewed events from the future and events stamped exactly now.
func (b *Bucketer) BucketStatus(events []usage.Event, filter StatusFilter) StatusBarData {
	now := b.now()

	type bucketCounts struct {
		success int
		failure int
	}
	counts := make([]bucketCounts, BucketCount)
	totalSuccess := 0
	totalFailure := 0

	for _, ev := range events {
		if !filter.Source.IsZero() && ev.Source != filter.Source {
			continue
		}
		if filter.AuthIndex != "" && ev.AuthIndex != filter.AuthIndex {
			continue
		}
		age := now.Sub(ev.Timestamp)
		if age <= 0 || age > statusWindow {
			continue
		}
		idx := BucketCount - 1 - int(age/BucketSize)
		if idx < 0 || idx >= BucketCount {
			continue
		}
		if ev.Failed {
			counts[idx].failure++
			totalFailure++
		} else {
			counts[idx].success++
			totalSuccess++
		}
	}

	buckets := make([]BucketState, BucketCount)
	for i, c := range counts {
		switch {
		case c.success == 0 && c.failure == 0:
			buckets[i] = BucketIdle
		case c.failure == 0:
			buckets[i] = BucketSuccess
		case c.success == 0:
			buckets[i] = BucketFailure
		default:
			buckets[i] = BucketMixed
		}
	}

	rate := 100.0
	if total := totalSuccess + totalFailure; total > 0 {
		rate = 100 * float64(totalSuccess) / float64(total)
	}
	return StatusBarData{
		Buckets:      buckets,
		SuccessRate:  rate,
		TotalSuccess: totalSuccess,
		TotalFailure: totalFailure,
	}
}
