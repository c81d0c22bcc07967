package domain

import "strings"

// InternetNodeID is the identifier of the synthesized public entry point.
// It never appears as a discovered asset; it exists only as an edge endpoint.
const InternetNodeID = "Internet"

// AssetNode is one discovered cloud resource as delivered by the discovery
// backend. Only ID is guaranteed; every other field may be absent or
// inconsistent with the resource's real type.
type AssetNode struct {
	ID   string            `json:"id"`
	Name string            `json:"name,omitempty"`
	Type string            `json:"type,omitempty"`
	ARN  string            `json:"arn,omitempty"`
	Tags map[string]string `json:"tags,omitempty"`
}

// Relationship is one directed edge between two asset identifiers.
// Type is a free-text label (e.g. "INVOKES", "ACTUAL_TRAFFIC", "ALLOWED_ONLY").
// Port and Protocol are optional ingress details carried by boundary edges.
type Relationship struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type,omitempty"`
	Port     string `json:"port,omitempty"`
	Protocol string `json:"protocol,omitempty"`
}

// RawGraph is one immutable snapshot of the discovered environment.
// Snapshots are replaced wholesale on refresh, never patched.
type RawGraph struct {
	Nodes []AssetNode    `json:"nodes"`
	Edges []Relationship `json:"edges"`
}

// internetMarkers are relationship labels that mark an edge as
// internet-sourced even when the source id is not the Internet pseudo-node.
var internetMarkers = []string{"INTERNET_INGRESS", "FROM_INTERNET"}

// IsInternetSource reports whether this edge originates at the public entry
// point, either by an explicit Internet source id or by an internet-sourced
// relationship label.
func (r Relationship) IsInternetSource() bool {
	if r.Source == InternetNodeID {
		return true
	}
	for _, m := range internetMarkers {
		if strings.Contains(r.Type, m) {
			return true
		}
	}
	return false
}
