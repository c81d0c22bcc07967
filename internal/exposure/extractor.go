package exposure

import (
	"fmt"
	"sort"
	"strings"

	"topomap/internal/classify"
	"topomap/internal/domain"
)

/*
Exposure Path Extractor - traces internet-facing entry points

The Internet pseudo-entry exists only if the snapshot contains evidence for
it: an edge whose source id is the Internet node or whose label marks it as
internet-sourced. No evidence, no entry, no paths.

Ingress is modeled as always mediated by a boundary control, so only edges
landing on a SecurityGroup-classified target produce a path; internet edges
to other types are ignored at this stage. Each qualifying edge yields one
path annotated with the controls encountered:

  - the port/protocol opened by the ingress rule (generic wording when the
    edge carries no port metadata, the path is never omitted for it)
  - a usage/confidence annotation from the target's tags when present
  - an unused-rules flag when the target's metadata indicates its ingress
    rules have seen no matching traffic

Any internet-reachable boundary control is rated Critical. The model does
not grade multi-hop reachability beyond the first hop.
*/

// Tag keys the discovery backend attaches to boundary controls.
const (
	tagUsage       = "usage"
	tagConfidence  = "confidence"
	tagUnusedRules = "unused_rules"
)

const genericIngressControl = "ingress open to 0.0.0.0/0 (ports unspecified)"

// ExtractPaths enumerates exposure paths from the Internet entry point.
// Returns an empty list when no internet-sourced edge exists.
func ExtractPaths(nodes []domain.AssetNode, edges []domain.Relationship, groups []domain.ServiceGroup) []domain.ExposurePath {
	internetPresent := false
	for _, edge := range edges {
		if edge.IsInternetSource() {
			internetPresent = true
			break
		}
	}
	if !internetPresent {
		return nil
	}

	index := classify.BuildIndex(nodes)
	byID := make(map[string]domain.AssetNode, len(nodes))
	for _, node := range nodes {
		byID[node.ID] = node
	}
	groupPresent := make(map[domain.ServiceType]bool, len(groups))
	for _, g := range groups {
		groupPresent[g.Type] = true
	}

	var paths []domain.ExposurePath
	for _, edge := range edges {
		if !edge.IsInternetSource() {
			continue
		}
		targetType, ok := index[edge.Target]
		if !ok {
			continue
		}
		// Ingress is always mediated by a boundary control; internet edges
		// to anything else carry no standalone exposure semantics here.
		if targetType != domain.ServiceTypeSecurityGroup {
			continue
		}
		// A target with no resolvable group is skipped, not an error.
		if !groupPresent[targetType] {
			continue
		}

		paths = append(paths, domain.ExposurePath{
			Nodes:    []string{domain.InternetNodeID, edge.Target},
			Controls: describeControls(edge, byID[edge.Target]),
			Risk:     domain.RiskCritical,
		})
	}

	// Ranked output: all first-hop paths are Critical, so rank by target id
	// for a stable presentation order.
	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Nodes[len(paths[i].Nodes)-1] < paths[j].Nodes[len(paths[j].Nodes)-1]
	})
	return paths
}

// describeControls builds the human-readable control annotations for one
// Internet -> boundary-control edge.
func describeControls(edge domain.Relationship, target domain.AssetNode) []string {
	controls := []string{describeIngress(edge)}

	if usage := targetAnnotation(target); usage != "" {
		controls = append(controls, usage)
	}
	if strings.EqualFold(target.Tags[tagUnusedRules], "true") {
		controls = append(controls, "rules currently unused")
	}
	return controls
}

func describeIngress(edge domain.Relationship) string {
	if edge.Port == "" {
		return genericIngressControl
	}
	if edge.Protocol != "" {
		return fmt.Sprintf("port %s/%s open to 0.0.0.0/0", edge.Port, edge.Protocol)
	}
	return fmt.Sprintf("port %s open to 0.0.0.0/0", edge.Port)
}

func targetAnnotation(target domain.AssetNode) string {
	if usage, ok := target.Tags[tagUsage]; ok && usage != "" {
		return fmt.Sprintf("usage: %s", usage)
	}
	if confidence, ok := target.Tags[tagConfidence]; ok && confidence != "" {
		return fmt.Sprintf("confidence: %s", confidence)
	}
	return ""
}
