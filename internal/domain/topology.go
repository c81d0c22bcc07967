package domain

import "time"

// NetworkZone is where a service sits relative to the trust boundary.
type NetworkZone string

const (
	ZoneInternal NetworkZone = "INTERNAL"
	ZoneExternal NetworkZone = "EXTERNAL"
)

// SubnetTier is the coarse placement of a service inside (or outside) the
// network boundary. Tier is a pure function of ServiceType.
type SubnetTier string

const (
	TierPublic             SubnetTier = "PUBLIC"
	TierPrivateApplication SubnetTier = "PRIVATE_APP"
	TierPrivateData        SubnetTier = "PRIVATE_DATA"
	TierExternal           SubnetTier = "EXTERNAL"
)

// RiskLevel is the qualitative severity assigned to an exposure path.
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskLow      RiskLevel = "LOW"
)

// ServiceGroup aggregates every asset of one ServiceType present in a
// snapshot: one group per type, container types excluded. X and Y are the
// deterministic layout coordinates computed for the rendering consumer.
type ServiceGroup struct {
	Type        ServiceType `json:"type"`
	DisplayName string      `json:"display_name"`
	Count       int         `json:"count"`
	Zone        NetworkZone `json:"zone"`
	Tier        SubnetTier  `json:"tier"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
}

// FlowKey identifies a deduplicated service-level flow by its ordered
// endpoint types.
type FlowKey struct {
	Source ServiceType `json:"source"`
	Target ServiceType `json:"target"`
}

// Flow is the deduplicated service-level edge between two service categories.
// IsObserved distinguishes traffic with runtime evidence from traffic that is
// merely allowed by policy; once set it is never cleared by later edges.
type Flow struct {
	Source      ServiceType `json:"source"`
	Target      ServiceType `json:"target"`
	IsObserved  bool        `json:"is_observed"`
	TrafficType string      `json:"traffic_type,omitempty"`
}

// Key returns the dedupe key for this flow.
func (f Flow) Key() FlowKey {
	return FlowKey{Source: f.Source, Target: f.Target}
}

// ExposurePath is one chain from the Internet pseudo-entry to a reached
// asset, annotated with the boundary controls encountered on the way.
type ExposurePath struct {
	Nodes    []string  `json:"nodes"`
	Controls []string  `json:"controls"`
	Risk     RiskLevel `json:"risk"`
}

// Topology is the derived snapshot handed to the rendering consumer. It is
// recomputed wholesale on every pipeline run and never mutated afterwards.
type Topology struct {
	Groups      []ServiceGroup `json:"service_groups"`
	Flows       []Flow         `json:"flows"`
	Paths       []ExposurePath `json:"exposure_paths"`
	Source      string         `json:"source"`
	NodeCount   int            `json:"node_count"`
	EdgeCount   int            `json:"edge_count"`
	GeneratedAt time.Time      `json:"generated_at"`
}
