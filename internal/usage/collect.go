package usage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/keyscope/keyscope/internal/identity"
)

// Collector flattens a Payload into normalized events. It owns no
// state beyond the injected normalizer; every call recomputes from the
// full payload.
type Collector struct {
	normalizer *identity.Normalizer
}

// NewCollector builds a Collector. A nil normalizer uses the default
// cache and masker.
func NewCollector(n *identity.Normalizer) *Collector {
	if n == nil {
		n = identity.NewNormalizer(nil, nil)
	}
	return &Collector{normalizer: n}
}

// Collect walks endpoint -> model -> details, drops entries without a
// parseable timestamp, normalizes each source through the identity
// layer and tags events with the enclosing model name. Output order is
// not guaranteed; consumers that need chronology sort explicitly.
func (c *Collector) Collect(p Payload) []Event {
	var out []Event
	for _, endpoint := range p.APIs {
		for modelName, model := range endpoint.Models {
			for _, detail := range model.Details {
				ts, ok := ParseTimestamp(detail.Timestamp)
				if !ok {
					continue
				}
				out = append(out, Event{
					Timestamp: ts,
					Source:    c.normalizer.Normalize(detail.Source),
					AuthIndex: authIndexString(detail.AuthIndex),
					Model:     modelName,
					Failed:    detail.Failed,
					Tokens:    normalizeTokens(detail),
				})
			}
		}
	}
	return out
}

// LoadPayload reads and decodes a usage payload document from disk.
func LoadPayload(path string) (Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("usage: reading payload: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("usage: parsing payload %s: %w", path, err)
	}
	return p, nil
}
