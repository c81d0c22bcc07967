package flows

import (
	"sort"
	"strings"

	"topomap/internal/domain"
)

/*
Flow Aggregator - collapses resource-level edges into service-level flows

Hundreds of individual resource edges between two service categories render
as one arrow, keyed by the ordered (sourceType, targetType) pair. What must
survive aggregation is the security signal: has traffic of this class been
seen actually occurring (observed), or is it merely allowed by policy?

Dropped edges:
  - either endpoint missing from the node index (malformed input)
  - source type equals target type (self-loop at service level)
  - either endpoint classified as a container (VPC, Subnet)

IsObserved is monotonic: once any contributing edge carries an observed
marker the flag stays set no matter how many allowed-only edges follow.
*/

// observedMarkers flag a relationship label as evidence of real traffic.
// Substring match on free-text labels is a provisional heuristic until the
// discovery backend exposes a structured field.
var observedMarkers = []string{"ACTUAL", "RUNTIME", "OBSERVED"}

// IsObservedLabel reports whether a relationship-type label carries an
// observed-traffic marker.
func IsObservedLabel(label string) bool {
	for _, m := range observedMarkers {
		if strings.Contains(label, m) {
			return true
		}
	}
	return false
}

// Aggregate deduplicates relationships into service-level flows. The node
// index maps asset ids to their classified ServiceType. Output is ordered by
// flow key so identical inputs yield identical output.
func Aggregate(edges []domain.Relationship, nodeIndex map[string]domain.ServiceType) []domain.Flow {
	byKey := make(map[domain.FlowKey]domain.Flow)

	for _, edge := range edges {
		sourceType, ok := nodeIndex[edge.Source]
		if !ok {
			continue
		}
		targetType, ok := nodeIndex[edge.Target]
		if !ok {
			continue
		}
		if sourceType == targetType {
			continue
		}
		if sourceType.IsContainer() || targetType.IsContainer() {
			continue
		}

		key := domain.FlowKey{Source: sourceType, Target: targetType}
		observed := IsObservedLabel(edge.Type)

		existing, exists := byKey[key]
		if !exists {
			byKey[key] = domain.Flow{
				Source:      sourceType,
				Target:      targetType,
				IsObserved:  observed,
				TrafficType: edge.Type,
			}
			continue
		}
		// Merging never clears the observed flag; an observed edge upgrades
		// the flow and its label reflects that evidence.
		if observed {
			existing.IsObserved = true
			existing.TrafficType = edge.Type
			byKey[key] = existing
		}
	}

	result := make([]domain.Flow, 0, len(byKey))
	for _, f := range byKey {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Source != result[j].Source {
			return result[i].Source < result[j].Source
		}
		return result[i].Target < result[j].Target
	})
	return result
}
