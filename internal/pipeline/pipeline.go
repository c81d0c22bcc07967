package pipeline

import (
	"time"

	"topomap/internal/classify"
	"topomap/internal/domain"
	"topomap/internal/exposure"
	"topomap/internal/flows"
	"topomap/internal/logging"
	"topomap/internal/zoning"
)

// Run derives a complete topology from one raw snapshot: classification,
// zoning and layout, flow aggregation, exposure path extraction. Synchronous
// and free of shared state; every call produces a fresh immutable Topology.
// There is no fatal error class: malformed elements shrink the result, they
// never abort it.
func Run(graph domain.RawGraph, source string) *domain.Topology {
	start := time.Now()

	groups := zoning.BuildGroups(graph.Nodes)
	index := classify.BuildIndex(graph.Nodes)
	aggregated := flows.Aggregate(graph.Edges, index)
	paths := exposure.ExtractPaths(graph.Nodes, graph.Edges, groups)

	topo := &domain.Topology{
		Groups:      groups,
		Flows:       aggregated,
		Paths:       paths,
		Source:      source,
		NodeCount:   len(graph.Nodes),
		EdgeCount:   len(graph.Edges),
		GeneratedAt: time.Now().UTC(),
	}

	logging.GetMetrics().RecordRun(source, time.Since(start), len(graph.Nodes), len(graph.Edges), len(paths))
	logging.LogDebug("pipeline run complete", map[string]interface{}{
		"operation": "pipeline_run",
		"source":    source,
		"metrics": map[string]interface{}{
			"nodes":  len(graph.Nodes),
			"edges":  len(graph.Edges),
			"groups": len(groups),
			"flows":  len(aggregated),
			"paths":  len(paths),
		},
	})
	return topo
}
