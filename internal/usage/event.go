package usage

import (
	"time"

	"github.com/keyscope/keyscope/internal/identity"
)

// TokenCounts is the canonical token record after alias resolution.
// Cached merges the two legacy cached-token aliases via max; Total is
// derived when upstream omits it and is never negative.
type TokenCounts struct {
	Input     int64 `json:"input_tokens"`
	Output    int64 `json:"output_tokens"`
	Reasoning int64 `json:"reasoning_tokens"`
	Cached    int64 `json:"cached_tokens"`
	Total     int64 `json:"total_tokens"`
}

// Event is one normalized usage event. The raw source string is gone
// by construction: only its Identity survives collection.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	Source    identity.Identity `json:"source"`
	AuthIndex string            `json:"auth_index,omitempty"`
	Model     string            `json:"model"`
	Failed    bool              `json:"failed"`
	Tokens    TokenCounts       `json:"tokens"`
}

func normalizeTokens(d RawDetail) TokenCounts {
	cached := d.CachedTokens
	if d.CacheTokens > cached {
		cached = d.CacheTokens
	}
	tc := TokenCounts{
		Input:     clampTokens(d.InputTokens),
		Output:    clampTokens(d.OutputTokens),
		Reasoning: clampTokens(d.ReasoningTokens),
		Cached:    clampTokens(cached),
	}
	if d.TotalTokens != nil {
		tc.Total = clampTokens(*d.TotalTokens)
		return tc
	}
	tc.Total = tc.Input + tc.Output + tc.Reasoning + tc.Cached
	return tc
}

func clampTokens(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
