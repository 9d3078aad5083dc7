// Package pricing owns the model price table and the cost derivation
// for normalized usage events. Prices live in a local SQLite store;
// the cost math itself is pure.
package pricing

// ModelPrice is USD per 1,000,000 tokens, split by token class.
type ModelPrice struct {
	Prompt     float64 `json:"prompt"`
	Completion float64 `json:"completion"`
	Cache      float64 `json:"cache"`
}

// Table maps model names to prices. A missing model means zero cost,
// never an error.
type Table map[string]ModelPrice
