// Package usage flattens the console's nested usage payload into a
// normalized, strongly-typed event list that the aggregation layers
// consume without defensive checks.
package usage

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Payload is the raw usage document as fetched by the external service
// client: API endpoint -> model -> request details.
type Payload struct {
	APIs map[string]Endpoint `json:"apis"`
}

type Endpoint struct {
	Models map[string]ModelUsage `json:"models"`
}

type ModelUsage struct {
	Details []RawDetail `json:"details"`
}

// RawDetail is one logged request as upstream serializes it. Token
// fields carry legacy aliases (cached_tokens vs cache_tokens) and the
// auth index arrives as either a number or a string; both are resolved
// here, once, before any aggregation logic runs.
type RawDetail struct {
	Timestamp       string          `json:"timestamp"`
	Source          string          `json:"source"`
	AuthIndex       json.RawMessage `json:"auth_index,omitempty"`
	Failed          bool            `json:"failed"`
	InputTokens     int64           `json:"input_tokens"`
	OutputTokens    int64           `json:"output_tokens"`
	ReasoningTokens int64           `json:"reasoning_tokens"`
	CachedTokens    int64           `json:"cached_tokens"`
	CacheTokens     int64           `json:"cache_tokens"`
	TotalTokens     *int64          `json:"total_tokens,omitempty"`
}

// authIndexString resolves the duck-typed auth_index field: numbers
// become their decimal string form, strings are trimmed, anything else
// (or blank) is excluded as "".
func authIndexString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		if asNumber == float64(int64(asNumber)) {
			return strconv.FormatInt(int64(asNumber), 10)
		}
		return strconv.FormatFloat(asNumber, 'f', -1, 64)
	}
	return ""
}
