package discovery

import (
	"context"
	"fmt"

	"topomap/internal/domain"
	"topomap/internal/logging"
)

/*
Live AWS Discovery - builds a raw resource graph straight from the SDK

An alternative to the discovery backend: enumerates the account's compute,
data, identity and network-boundary resources into AssetNodes and derives
Relationships from what the control plane knows statically:

  instance -> security group   ALLOWED_ONLY      (attachment permits traffic)
  Internet -> security group   INTERNET_INGRESS  (0.0.0.0/0 ingress rule,
                                                  port/protocol attached)
  lambda   -> iam role         ASSUMES
  instance -> subnet -> vpc    MEMBER_OF         (container membership)

The control plane cannot attest observed traffic, so live-discovered flows
are allowed-only by construction; observed markers come from backends that
correlate flow logs. A failing service listing drops that service from the
snapshot and moves on; only a snapshot with zero nodes is an error to the
caller (which then substitutes the demo dataset).
*/

// Collect enumerates the environment into one raw graph snapshot.
func (c *Clients) Collect(ctx context.Context) (domain.RawGraph, error) {
	var graph domain.RawGraph

	collectors := []struct {
		name string
		run  func(context.Context, *domain.RawGraph) error
	}{
		{"ec2", c.collectNetwork},
		{"lambda", c.collectLambda},
		{"rds", c.collectRDS},
		{"dynamodb", c.collectDynamoDB},
		{"s3", c.collectS3},
		{"iam", c.collectIAMRoles},
		{"apigateway", c.collectAPIs},
	}

	for _, collector := range collectors {
		if err := collector.run(ctx, &graph); err != nil {
			logging.LogWarn("service discovery failed, skipping", map[string]interface{}{
				"operation": "discover",
				"source":    collector.name,
				"error":     err.Error(),
			})
		}
	}

	if len(graph.Nodes) == 0 {
		return graph, fmt.Errorf("discovery found no resources in account %s", c.AccountID)
	}

	logging.LogInfo("live discovery complete", map[string]interface{}{
		"operation": "discover",
		"metrics": map[string]interface{}{
			"nodes": len(graph.Nodes),
			"edges": len(graph.Edges),
		},
	})
	return graph, nil
}
