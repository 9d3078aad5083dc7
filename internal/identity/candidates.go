package identity

import (
	"strings"

	"github.com/samber/lo"
)

// ProviderKeyConfig is a stored provider configuration as the console
// sees it: the credential itself plus an optional human-assigned
// prefix/label. Both fields are optional.
type ProviderKeyConfig struct {
	APIKey string `json:"api_key,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

// Candidates enumerates every Identity the configuration could appear
// as in telemetry: its label as logged verbatim, its raw key after
// fingerprinting, and its key as an already-masked display form. The
// result is deduplicated and stable for iteration.
func (n *Normalizer) Candidates(cfg ProviderKeyConfig) []Identity {
	out := make([]Identity, 0, 3)
	if prefix := strings.TrimSpace(cfg.Prefix); prefix != "" {
		out = append(out, Identity("t:"+prefix))
	}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		out = append(out,
			Identity("k:"+n.cache.Fingerprint(key)),
			Identity("m:"+n.masker(key)),
		)
	}
	return lo.Uniq(out)
}
