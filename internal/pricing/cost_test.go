package pricing

import (
	"math"
	"testing"

	"github.com/keyscope/keyscope/internal/usage"
)

var testPrices = Table{
	"gpt-x": {Prompt: 3, Completion: 15, Cache: 0.3},
}

func TestEventCost_CachedTokensNotDoubleBilled(t *testing.T) {
	ev := usage.Event{
		Model:  "gpt-x",
		Tokens: usage.TokenCounts{Input: 100, Cached: 40},
	}

	// 60 prompt tokens at 3/1M plus 40 cached tokens at 0.3/1M.
	want := 60.0/1e6*3 + 40.0/1e6*0.3
	if got := EventCost(ev, testPrices); math.Abs(got-want) > 1e-12 {
		t.Fatalf("EventCost = %v, want %v", got, want)
	}
}

func TestEventCost_AllTokenClasses(t *testing.T) {
	ev := usage.Event{
		Model:  "gpt-x",
		Tokens: usage.TokenCounts{Input: 1_000_000, Output: 1_000_000, Cached: 0},
	}
	if got := EventCost(ev, testPrices); math.Abs(got-18) > 1e-9 {
		t.Fatalf("expected 18 USD for 1M prompt + 1M completion, got %v", got)
	}
}

func TestEventCost_UnknownModelIsFree(t *testing.T) {
	ev := usage.Event{
		Model:  "mystery-model",
		Tokens: usage.TokenCounts{Input: 1_000_000},
	}
	if got := EventCost(ev, testPrices); got != 0 {
		t.Fatalf("expected zero cost for unpriced model, got %v", got)
	}
}

func TestEventCost_CachedExceedingInput(t *testing.T) {
	ev := usage.Event{
		Model:  "gpt-x",
		Tokens: usage.TokenCounts{Input: 10, Cached: 50},
	}
	want := 50.0 / 1e6 * 0.3 // prompt clamps to zero, cache still billed
	if got := EventCost(ev, testPrices); math.Abs(got-want) > 1e-12 {
		t.Fatalf("EventCost = %v, want %v", got, want)
	}
}

func TestEventCost_NeverNegativeOrNonFinite(t *testing.T) {
	cases := []struct {
		name   string
		prices Table
	}{
		{"negative prices", Table{"gpt-x": {Prompt: -3, Completion: -15, Cache: -1}}},
		{"nan price", Table{"gpt-x": {Prompt: math.NaN()}}},
		{"inf price", Table{"gpt-x": {Completion: math.Inf(1)}}},
	}
	ev := usage.Event{
		Model:  "gpt-x",
		Tokens: usage.TokenCounts{Input: 100, Output: 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EventCost(ev, tc.prices)
			if got < 0 || math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("expected clamped cost, got %v", got)
			}
		})
	}
}

func TestTotalCost(t *testing.T) {
	events := []usage.Event{
		{Model: "gpt-x", Tokens: usage.TokenCounts{Input: 1_000_000}},
		{Model: "gpt-x", Tokens: usage.TokenCounts{Output: 1_000_000}},
		{Model: "unpriced", Tokens: usage.TokenCounts{Input: 1_000_000}},
	}
	if got := TotalCost(events, testPrices); math.Abs(got-18) > 1e-9 {
		t.Fatalf("TotalCost = %v, want 18", got)
	}
}
