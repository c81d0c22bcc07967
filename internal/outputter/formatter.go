package outputter

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"topomap/internal/domain"
	"topomap/internal/logging"
)

// tierIcons and riskIcons decorate the terminal summary.
var tierIcons = map[domain.SubnetTier]string{
	domain.TierPublic:             "🌐",
	domain.TierPrivateApplication: "⚙️",
	domain.TierPrivateData:        "🗄️",
	domain.TierExternal:           "☁️",
}

var riskIcons = map[domain.RiskLevel]string{
	domain.RiskCritical: "🔴",
	domain.RiskHigh:     "🟠",
	domain.RiskMedium:   "🟡",
	domain.RiskLow:      "🟢",
}

// DisplayHeader prints a section divider
func DisplayHeader(title string) {
	if title != "" {
		fmt.Println("\n" + strings.Repeat("═", 79))
		fmt.Println(title)
	}
	fmt.Println(strings.Repeat("═", 79))
}

// DisplayTopology prints the derived topology as a terminal summary: service
// groups per tier, flows with their traffic provenance, and exposure paths.
func DisplayTopology(topo *domain.Topology) {
	DisplayHeader(fmt.Sprintf("🗺️  TOPOLOGY SNAPSHOT  (source: %s, %d nodes, %d edges)",
		topo.Source, topo.NodeCount, topo.EdgeCount))

	tierOrder := []domain.SubnetTier{
		domain.TierPublic,
		domain.TierPrivateApplication,
		domain.TierPrivateData,
		domain.TierExternal,
	}
	for _, tier := range tierOrder {
		printed := false
		for _, g := range topo.Groups {
			if g.Tier != tier {
				continue
			}
			if !printed {
				fmt.Printf("\n%s %s\n", tierIcons[tier], tierName(tier))
				printed = true
			}
			fmt.Printf("   %-16s x%-4d (%.0f, %.0f)\n", g.DisplayName, g.Count, g.X, g.Y)
		}
	}

	DisplayHeader("↔️  SERVICE FLOWS")
	if len(topo.Flows) == 0 {
		fmt.Println("   (none)")
	}
	for _, f := range topo.Flows {
		marker := "⚪ allowed "
		if f.IsObserved {
			marker = "🟣 observed"
		}
		fmt.Printf("   %s  %s → %s  [%s]\n", marker, f.Source.DisplayName(), f.Target.DisplayName(), f.TrafficType)
	}

	DisplayHeader("🚨 EXPOSURE PATHS")
	if len(topo.Paths) == 0 {
		fmt.Println("   ✅ No internet-reachable entry points found")
	}
	for i, p := range topo.Paths {
		fmt.Printf("\n   %s [%s] #%d: %s\n", riskIcons[p.Risk], p.Risk, i+1, FormatPathFlow(p))
		for _, control := range p.Controls {
			fmt.Printf("      └─ %s\n", control)
		}
	}
	fmt.Println()
}

// FormatPathFlow creates a compact path representation
func FormatPathFlow(p domain.ExposurePath) string {
	return strings.Join(p.Nodes, " → ")
}

func tierName(tier domain.SubnetTier) string {
	switch tier {
	case domain.TierPublic:
		return "PUBLIC TIER"
	case domain.TierPrivateApplication:
		return "PRIVATE APPLICATION TIER"
	case domain.TierPrivateData:
		return "PRIVATE DATA TIER"
	case domain.TierExternal:
		return "EXTERNAL ZONE"
	default:
		return string(tier)
	}
}

// report is the JSON document written for the rendering consumer: the full
// output contract plus run metrics.
type report struct {
	Topology *domain.Topology        `json:"topology"`
	Metrics  logging.MetricsSnapshot `json:"metrics"`
}

// WriteReport saves the topology and run metrics as indented JSON.
func WriteReport(topo *domain.Topology, path string) error {
	data, err := json.MarshalIndent(report{
		Topology: topo,
		Metrics:  logging.GetMetrics().Snapshot(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report to %s: %w", path, err)
	}
	fmt.Printf("💾 Report saved: %s\n", path)
	return nil
}
