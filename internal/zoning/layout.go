package zoning

import "topomap/internal/domain"

// Layout constants. The canvas is a fixed logical coordinate space; the
// rendering consumer scales it to its viewport.
const (
	boundaryCenterX = 500.0 // horizontal center of the trust boundary
	groupSpacingX   = 170.0 // horizontal distance between groups in a band

	externalColumnX  = 1080.0 // column for External-zone groups
	externalTopY     = 140.0
	externalSpacingY = 120.0
)

// tierBandY is the vertical offset of each internal tier band.
var tierBandY = map[domain.SubnetTier]float64{
	domain.TierPublic:             140.0,
	domain.TierPrivateApplication: 330.0,
	domain.TierPrivateData:        520.0,
}

// Layout assigns coordinates in place. Groups must already be in stable
// ServiceType order; the layout is then a pure function of the group set, so
// identical snapshots always render identically. Empty tiers occupy no space.
func Layout(groups []domain.ServiceGroup) {
	byTier := make(map[domain.SubnetTier][]int)
	var external []int
	for i, g := range groups {
		if g.Zone == domain.ZoneExternal {
			external = append(external, i)
			continue
		}
		byTier[g.Tier] = append(byTier[g.Tier], i)
	}

	for tier, members := range byTier {
		y := tierBandY[tier]
		n := float64(len(members))
		// Evenly spaced around the boundary center.
		left := boundaryCenterX - (n-1)*groupSpacingX/2
		for pos, idx := range members {
			groups[idx].X = left + float64(pos)*groupSpacingX
			groups[idx].Y = y
		}
	}

	// External-zone groups stack in a column outside the boundary.
	for pos, idx := range external {
		groups[idx].X = externalColumnX
		groups[idx].Y = externalTopY + float64(pos)*externalSpacingY
	}
}
