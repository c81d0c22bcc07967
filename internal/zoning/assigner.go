package zoning

import (
	"sort"

	"topomap/internal/classify"
	"topomap/internal/domain"
)

/*
Zone & Tier Assigner - places service types relative to the trust boundary

Zone and tier are pure functions of ServiceType: two assets of the same type
can never land in different zones within one snapshot. Regional services that
live outside the VPC boundary entirely (S3, IAM, CloudWatch, CloudTrail) go
to the External zone; everything else is Internal and gets a subnet tier:

  Public       - internet-facing entry points (API Gateway, ALB, IGW)
  PrivateData  - data stores (RDS, DynamoDB, ElastiCache)
  PrivateApp   - everything else that runs or mediates workloads

Unknown/Default assets deliberately stay Internal/PrivateApp so operators see
unclassified resources inside the boundary instead of losing them.
*/

// serviceTiers is the fixed tier membership table. Types absent from the
// table default to the private application tier.
var serviceTiers = map[domain.ServiceType]domain.SubnetTier{
	domain.ServiceTypeAPIGateway:      domain.TierPublic,
	domain.ServiceTypeALB:             domain.TierPublic,
	domain.ServiceTypeInternetGateway: domain.TierPublic,

	domain.ServiceTypeLambda:        domain.TierPrivateApplication,
	domain.ServiceTypeEC2:           domain.TierPrivateApplication,
	domain.ServiceTypeECS:           domain.TierPrivateApplication,
	domain.ServiceTypeSQS:           domain.TierPrivateApplication,
	domain.ServiceTypeSNS:           domain.TierPrivateApplication,
	domain.ServiceTypeSecurityGroup: domain.TierPrivateApplication,
	domain.ServiceTypeNAT:           domain.TierPrivateApplication,
	domain.ServiceTypeStepFunctions: domain.TierPrivateApplication,
	domain.ServiceTypeEventBridge:   domain.TierPrivateApplication,
	domain.ServiceTypeVPC:           domain.TierPrivateApplication,
	domain.ServiceTypeSubnet:        domain.TierPrivateApplication,
	domain.ServiceTypeDefault:       domain.TierPrivateApplication,

	domain.ServiceTypeRDS:         domain.TierPrivateData,
	domain.ServiceTypeDynamoDB:    domain.TierPrivateData,
	domain.ServiceTypeElastiCache: domain.TierPrivateData,

	domain.ServiceTypeS3:         domain.TierExternal,
	domain.ServiceTypeIAM:        domain.TierExternal,
	domain.ServiceTypeCloudWatch: domain.TierExternal,
	domain.ServiceTypeCloudTrail: domain.TierExternal,
}

// ZoneOf returns the network trust zone for a service type.
func ZoneOf(t domain.ServiceType) domain.NetworkZone {
	if TierOf(t) == domain.TierExternal {
		return domain.ZoneExternal
	}
	return domain.ZoneInternal
}

// TierOf returns the subnet tier for a service type.
func TierOf(t domain.ServiceType) domain.SubnetTier {
	if tier, ok := serviceTiers[t]; ok {
		return tier
	}
	return domain.TierPrivateApplication
}

// BuildGroups classifies every node, aggregates per ServiceType (container
// types excluded), assigns zone/tier, and computes layout coordinates.
// The result is ordered by ServiceType so identical inputs always yield
// identical output regardless of node ordering.
func BuildGroups(nodes []domain.AssetNode) []domain.ServiceGroup {
	counts := make(map[domain.ServiceType]int)
	for _, node := range nodes {
		if node.ID == "" {
			continue
		}
		t := classify.Classify(node)
		if t.IsContainer() {
			continue
		}
		counts[t]++
	}

	groups := make([]domain.ServiceGroup, 0, len(counts))
	for t, count := range counts {
		groups = append(groups, domain.ServiceGroup{
			Type:        t,
			DisplayName: t.DisplayName(),
			Count:       count,
			Zone:        ZoneOf(t),
			Tier:        TierOf(t),
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Type < groups[j].Type })

	Layout(groups)
	return groups
}
