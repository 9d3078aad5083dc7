package stats

import (
	"github.com/samber/lo"

	"github.com/keyscope/keyscope/internal/identity"
)

// ConfigUsage joins one stored provider configuration to the telemetry
// identity it was found under. Matched is the zero Identity when no
// candidate had any recorded usage.
type ConfigUsage struct {
	Config  identity.ProviderKeyConfig `json:"config"`
	Matched identity.Identity          `json:"matched,omitempty"`
	Counts  Counts                     `json:"counts"`
}

// JoinConfigs resolves each configuration against the aggregated
// tables using its candidate identities (label, fingerprint, masked),
// taking the first candidate with recorded usage. Candidates are not
// summed: a raw-keyed identity and its masked twin stay separate, and
// a configuration matches at most one of them in practice.
func JoinConfigs(norm *identity.Normalizer, cfgs []identity.ProviderKeyConfig, stats KeyStats) []ConfigUsage {
	return lo.Map(cfgs, func(cfg identity.ProviderKeyConfig, _ int) ConfigUsage {
		joined := ConfigUsage{Config: cfg}
		for _, candidate := range norm.Candidates(cfg) {
			if c := stats.BySource[candidate]; c.Total() > 0 {
				joined.Matched = candidate
				joined.Counts = c
				break
			}
		}
		return joined
	})
}
