package zoning

import (
	"reflect"
	"testing"

	"topomap/internal/domain"
)

func TestZoneTier_Purity(t *testing.T) {
	// Zone and tier are pure functions of ServiceType: repeated calls agree,
	// and every type maps to exactly one zone and one tier.
	for _, st := range domain.AllServiceTypes {
		zone1, zone2 := ZoneOf(st), ZoneOf(st)
		tier1, tier2 := TierOf(st), TierOf(st)
		if zone1 != zone2 {
			t.Errorf("ZoneOf(%s) not stable: %s vs %s", st, zone1, zone2)
		}
		if tier1 != tier2 {
			t.Errorf("TierOf(%s) not stable: %s vs %s", st, tier1, tier2)
		}
		if (zone1 == domain.ZoneExternal) != (tier1 == domain.TierExternal) {
			t.Errorf("%s: zone %s inconsistent with tier %s", st, zone1, tier1)
		}
	}
}

func TestTierMembership(t *testing.T) {
	cases := []struct {
		st   domain.ServiceType
		want domain.SubnetTier
	}{
		{domain.ServiceTypeAPIGateway, domain.TierPublic},
		{domain.ServiceTypeALB, domain.TierPublic},
		{domain.ServiceTypeInternetGateway, domain.TierPublic},
		{domain.ServiceTypeLambda, domain.TierPrivateApplication},
		{domain.ServiceTypeEC2, domain.TierPrivateApplication},
		{domain.ServiceTypeSecurityGroup, domain.TierPrivateApplication},
		{domain.ServiceTypeRDS, domain.TierPrivateData},
		{domain.ServiceTypeDynamoDB, domain.TierPrivateData},
		{domain.ServiceTypeElastiCache, domain.TierPrivateData},
		{domain.ServiceTypeS3, domain.TierExternal},
		{domain.ServiceTypeIAM, domain.TierExternal},
		{domain.ServiceTypeCloudWatch, domain.TierExternal},
		{domain.ServiceTypeCloudTrail, domain.TierExternal},
		{domain.ServiceTypeDefault, domain.TierPrivateApplication},
	}

	for _, tc := range cases {
		if got := TierOf(tc.st); got != tc.want {
			t.Errorf("TierOf(%s) = %s, want %s", tc.st, got, tc.want)
		}
	}
}

func TestBuildGroups_Conservation(t *testing.T) {
	// Sum of group counts plus excluded container nodes must equal the
	// number of input nodes.
	nodes := []domain.AssetNode{
		{ID: "api-gw", Type: "APIGateway"},
		{ID: "fn-1", Type: "LambdaFunction"},
		{ID: "fn-2", Type: "Lambda"},
		{ID: "rds-main", Type: "RDS"},
		{ID: "vpc-123"},
		{ID: "subnet-456"},
		{ID: "mystery"},
	}

	groups := BuildGroups(nodes)

	total := 0
	for _, g := range groups {
		if g.Type.IsContainer() {
			t.Errorf("container type %s must not be aggregated", g.Type)
		}
		total += g.Count
	}
	containers := 2 // vpc-123, subnet-456
	if total+containers != len(nodes) {
		t.Errorf("conservation violated: %d grouped + %d containers != %d nodes",
			total, containers, len(nodes))
	}

	// The unclassified node must surface as its own group, not vanish.
	found := false
	for _, g := range groups {
		if g.Type == domain.ServiceTypeDefault && g.Count == 1 {
			found = true
		}
	}
	if !found {
		t.Error("expected an Unclassified group with count 1")
	}
}

func TestBuildGroups_EmptySnapshot(t *testing.T) {
	if groups := BuildGroups(nil); len(groups) != 0 {
		t.Errorf("expected no groups for empty snapshot, got %d", len(groups))
	}
}

func TestBuildGroups_DeterministicUnderReordering(t *testing.T) {
	nodes := []domain.AssetNode{
		{ID: "api-gw", Type: "APIGateway"},
		{ID: "fn-1", Type: "Lambda"},
		{ID: "rds-main", Type: "RDS"},
		{ID: "bucket-1", Type: "S3Bucket"},
		{ID: "sg-1", Type: "SecurityGroup"},
	}
	reversed := make([]domain.AssetNode, len(nodes))
	for i, n := range nodes {
		reversed[len(nodes)-1-i] = n
	}

	a := BuildGroups(nodes)
	b := BuildGroups(reversed)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("layout not deterministic under input reordering:\n%+v\nvs\n%+v", a, b)
	}
}

func TestLayout_Bands(t *testing.T) {
	nodes := []domain.AssetNode{
		{ID: "api-gw", Type: "APIGateway"},
		{ID: "lb-1", Type: "ALB"},
		{ID: "fn-1", Type: "Lambda"},
		{ID: "rds-main", Type: "RDS"},
		{ID: "bucket-1", Type: "S3"},
		{ID: "trail-1", Type: "CloudTrail"},
	}

	groups := BuildGroups(nodes)

	var publicYs, externalXs []float64
	for _, g := range groups {
		switch {
		case g.Tier == domain.TierPublic:
			publicYs = append(publicYs, g.Y)
		case g.Zone == domain.ZoneExternal:
			externalXs = append(externalXs, g.X)
		}
	}

	// All public-tier groups share one horizontal band.
	for _, y := range publicYs {
		if y != publicYs[0] {
			t.Errorf("public tier not on a single band: %v", publicYs)
		}
	}
	// All external groups share one column outside the boundary.
	for _, x := range externalXs {
		if x != externalColumnX {
			t.Errorf("external group not in the external column: %v", externalXs)
		}
	}

	// External groups must not overlap: distinct Y per group.
	seen := make(map[float64]bool)
	for _, g := range groups {
		if g.Zone != domain.ZoneExternal {
			continue
		}
		if seen[g.Y] {
			t.Errorf("external groups overlap at y=%v", g.Y)
		}
		seen[g.Y] = true
	}
}
