package stats

import (
	"path/filepath"
	"strings"

	"github.com/keyscope/keyscope/internal/identity"
	"github.com/keyscope/keyscope/internal/usage"
)

// Counts is a success/failure pair.
type Counts struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

func (c Counts) Total() int {
	return c.Success + c.Failure
}

// KeyStats holds the two parallel count tables built from one full
// event list: by source identity and by auth index. It is an immutable
// snapshot, rebuilt on demand.
type KeyStats struct {
	BySource    map[identity.Identity]Counts `json:"by_source"`
	ByAuthIndex map[string]Counts            `json:"by_auth_index"`
}

// Aggregate folds the event list in a single pass. An event
// contributes to either table, both, or neither, depending on which of
// its identity fields are present.
func Aggregate(events []usage.Event) KeyStats {
	stats := KeyStats{
		BySource:    make(map[identity.Identity]Counts),
		ByAuthIndex: make(map[string]Counts),
	}
	for _, ev := range events {
		if !ev.Source.IsZero() {
			c := stats.BySource[ev.Source]
			bump(&c, ev.Failed)
			stats.BySource[ev.Source] = c
		}
		if idx := strings.TrimSpace(ev.AuthIndex); idx != "" {
			c := stats.ByAuthIndex[idx]
			bump(&c, ev.Failed)
			stats.ByAuthIndex[idx] = c
		}
	}
	return stats
}

func bump(c *Counts, failed bool) {
	if failed {
		c.Failure++
	} else {
		c.Success++
	}
}

// LookupRecordStats resolves a stored record to its counts. Identity
// can be recorded under an auth index in some flows and under a
// filename-derived identity in others, so the lookup falls back: auth
// index, then the normalized record name, then the name without its
// extension, else zeros.
func LookupRecordStats(stats KeyStats, norm *identity.Normalizer, authIndexKey, recordName string) Counts {
	if key := strings.TrimSpace(authIndexKey); key != "" {
		if c, ok := stats.ByAuthIndex[key]; ok {
			return c
		}
	}
	if c := stats.BySource[norm.Normalize(recordName)]; c.Total() > 0 {
		return c
	}
	bare := strings.TrimSuffix(recordName, filepath.Ext(recordName))
	if c := stats.BySource[norm.Normalize(bare)]; c.Total() > 0 {
		return c
	}
	return Counts{}
}
