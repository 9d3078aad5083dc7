package pricing

import (
	"math"

	"github.com/keyscope/keyscope/internal/usage"
)

const tokensPerPriceUnit = 1_000_000

// EventCost derives the monetary cost of one event from its token
// counts and the price table. Cached tokens are billed at the cache
// rate and subtracted from prompt tokens so they are never
// double-billed. Negative or non-finite results clamp to 0.
func EventCost(ev usage.Event, prices Table) float64 {
	price, ok := prices[ev.Model]
	if !ok {
		return 0
	}

	cached := float64(ev.Tokens.Cached)
	prompt := float64(ev.Tokens.Input) - cached
	if prompt < 0 {
		prompt = 0
	}
	completion := float64(ev.Tokens.Output)

	cost := prompt/tokensPerPriceUnit*price.Prompt +
		cached/tokensPerPriceUnit*price.Cache +
		completion/tokensPerPriceUnit*price.Completion
	if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0
	}
	return cost
}

// TotalCost sums EventCost over an event list.
func TotalCost(events []usage.Event, prices Table) float64 {
	total := 0.0
	for _, ev := range events {
		total += EventCost(ev, prices)
	}
	return total
}
