package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/keyscope/keyscope/internal/identity"
	"github.com/keyscope/keyscope/internal/pricing"
	"github.com/keyscope/keyscope/internal/usage"
)

// Walks the whole path from a raw payload document to bucketed status,
// per-identity counters and billed cost, the way the CLI does it.
func TestPipeline_PayloadToStats(t *testing.T) {
	now := time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)
	secret := "sk-aaaaaaaaaaaaaaaaaaaaaaaa"

	doc := fmt.Sprintf(`{
		"apis": {
			"chat": {
				"models": {
					"gpt-x": {
						"details": [
							{"timestamp": %q, "source": %q, "auth_index": 3,
							 "input_tokens": 100, "output_tokens": 50},
							{"timestamp": %q, "source": %q, "auth_index": 3,
							 "failed": true, "input_tokens": 20},
							{"timestamp": %q, "source": %q, "auth_index": "3",
							 "input_tokens": 200, "output_tokens": 100, "cached_tokens": 40}
						]
					}
				}
			}
		}
	}`,
		now.Add(-5*time.Minute).Format(time.RFC3339), secret,
		now.Add(-3*time.Minute).Format(time.RFC3339), secret,
		now.Add(-time.Minute).Format(time.RFC3339), secret,
	)

	var payload usage.Payload
	if err := json.Unmarshal([]byte(doc), &payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}

	norm := identity.NewNormalizer(nil, nil)
	events := usage.NewCollector(norm).Collect(payload)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	// All three details carry the same raw secret, so they collapse to
	// one fingerprinted identity and the raw value is gone.
	wantSource := norm.Normalize(secret)
	if wantSource.Kind() != identity.KindSecret {
		t.Fatalf("expected secret-kind identity, got %q", wantSource)
	}
	for _, ev := range events {
		if ev.Source != wantSource {
			t.Fatalf("expected shared identity %q, got %q", wantSource, ev.Source)
		}
		if strings.Contains(string(ev.Source), secret) {
			t.Fatal("raw secret leaked into event identity")
		}
		if ev.AuthIndex != "3" {
			t.Fatalf("expected auth index 3, got %q", ev.AuthIndex)
		}
	}

	keyStats := Aggregate(events)
	if got := keyStats.BySource[wantSource]; got != (Counts{Success: 2, Failure: 1}) {
		t.Fatalf("expected 2/1 by source, got %+v", got)
	}
	if got := keyStats.ByAuthIndex["3"]; got != (Counts{Success: 2, Failure: 1}) {
		t.Fatalf("expected 2/1 by auth index, got %+v", got)
	}

	data := fixedBucketer(now).BucketStatus(events, StatusFilter{Source: wantSource})
	if got := data.Buckets[BucketCount-1]; got != BucketMixed {
		t.Fatalf("expected newest bucket mixed, got %q", got)
	}
	wantRate := 100 * 2.0 / 3.0
	if math.Abs(data.SuccessRate-wantRate) > 0.001 {
		t.Fatalf("expected success rate ~%.3f, got %.3f", wantRate, data.SuccessRate)
	}

	rc := NewRateCalculator()
	rc.now = func() time.Time { return now }
	rates := rc.RecentRates(30, events)
	if rates.RequestCount != 3 {
		t.Fatalf("expected 3 requests in window, got %d", rates.RequestCount)
	}
	// 150 + 20 + 340 derived totals over 30 minutes.
	if math.Abs(rates.TPM-510.0/30) > 1e-9 {
		t.Fatalf("unexpected tpm %v", rates.TPM)
	}

	prices := pricing.Table{"gpt-x": {Prompt: 3, Completion: 15, Cache: 0.3}}
	// Prompt tokens 100+20+160, completion 50+0+100, cached 40.
	wantCost := 280.0/1e6*3 + 150.0/1e6*15 + 40.0/1e6*0.3
	if got := pricing.TotalCost(events, prices); math.Abs(got-wantCost) > 1e-12 {
		t.Fatalf("TotalCost = %v, want %v", got, wantCost)
	}
}
