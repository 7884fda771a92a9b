package worldclock

import (
	"fmt"
	"sort"
	"time"
)

// Clusters maps an offset string to the zones having that offset at one
// instant. Each zone list is sorted.
//
// Clusters are only valid for the instant they were built for.
type Clusters map[string][]string

// BuildClusters computes the offset of every zone in ids at t and groups
// the zones by offset. Every zone ends up in exactly one cluster; repeated
// identifiers are counted once.
func BuildClusters(calc Calculator, ids []string, t time.Time) (Clusters, error) {
	clusters := make(Clusters)
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		res, err := calc.OffsetAt(id, t)
		if err != nil {
			return nil, fmt.Errorf("cluster %s: %w", id, err)
		}
		clusters[res.Offset] = append(clusters[res.Offset], id)
	}
	for _, zones := range clusters {
		sort.Strings(zones)
	}
	return clusters, nil
}

// Members returns the zones with the given offset.
func (c Clusters) Members(offset string) []string {
	return c[offset]
}
