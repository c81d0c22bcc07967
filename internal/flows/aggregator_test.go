package flows

import (
	"reflect"
	"testing"

	"topomap/internal/domain"
)

var testIndex = map[string]domain.ServiceType{
	"api-gw":         domain.ServiceTypeAPIGateway,
	"lambda-payment": domain.ServiceTypeLambda,
	"lambda-orders":  domain.ServiceTypeLambda,
	"rds-main":       domain.ServiceTypeRDS,
	"vpc-123":        domain.ServiceTypeVPC,
	"subnet-456":     domain.ServiceTypeSubnet,
}

func TestAggregate_DeduplicatesByTypePair(t *testing.T) {
	// Two Lambda functions both query the same RDS instance.
	// EXPECTED: a single Lambda->RDS flow.
	edges := []domain.Relationship{
		{Source: "lambda-payment", Target: "rds-main", Type: "QUERIES"},
		{Source: "lambda-orders", Target: "rds-main", Type: "QUERIES"},
	}

	result := Aggregate(edges, testIndex)

	if len(result) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(result))
	}
	f := result[0]
	if f.Source != domain.ServiceTypeLambda || f.Target != domain.ServiceTypeRDS {
		t.Errorf("unexpected flow key %s->%s", f.Source, f.Target)
	}
	if f.IsObserved {
		t.Error("QUERIES carries no observed marker, flow must be allowed-only")
	}
}

func TestAggregate_ObservedMarker(t *testing.T) {
	edges := []domain.Relationship{
		{Source: "api-gw", Target: "lambda-payment", Type: "ACTUAL_TRAFFIC"},
	}

	result := Aggregate(edges, testIndex)

	if len(result) != 1 || !result[0].IsObserved {
		t.Fatalf("expected one observed flow, got %+v", result)
	}
}

func TestAggregate_ObservedFlagIsMonotonic(t *testing.T) {
	// SCENARIO: an observed edge followed by allowed-only edges for the same
	// type pair.
	// EXPECTED: the flag stays set.
	edges := []domain.Relationship{
		{Source: "lambda-payment", Target: "rds-main", Type: "ACTUAL_TRAFFIC"},
		{Source: "lambda-orders", Target: "rds-main", Type: "ALLOWED_ONLY"},
		{Source: "lambda-payment", Target: "rds-main", Type: "QUERIES"},
	}

	result := Aggregate(edges, testIndex)

	if len(result) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(result))
	}
	if !result[0].IsObserved {
		t.Error("observed flag was cleared by later allowed-only edges")
	}
}

func TestAggregate_IdempotentUnderReordering(t *testing.T) {
	edges := []domain.Relationship{
		{Source: "api-gw", Target: "lambda-payment", Type: "INVOKES"},
		{Source: "lambda-payment", Target: "rds-main", Type: "ACTUAL_TRAFFIC"},
		{Source: "lambda-orders", Target: "rds-main", Type: "ALLOWED_ONLY"},
		{Source: "api-gw", Target: "rds-main", Type: "RUNTIME_QUERY"},
	}
	reversed := make([]domain.Relationship, len(edges))
	for i, e := range edges {
		reversed[len(edges)-1-i] = e
	}

	a := Aggregate(edges, testIndex)
	b := Aggregate(reversed, testIndex)

	if len(a) != len(b) {
		t.Fatalf("flow count differs under reordering: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Key() != b[i].Key() || a[i].IsObserved != b[i].IsObserved {
			t.Errorf("flow %d differs under reordering: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestAggregate_DropsSelfLoops(t *testing.T) {
	// Lambda->Lambda edges collapse to a self-loop at service level and are
	// dropped.
	edges := []domain.Relationship{
		{Source: "lambda-payment", Target: "lambda-orders", Type: "INVOKES"},
	}

	if result := Aggregate(edges, testIndex); len(result) != 0 {
		t.Errorf("expected no flows from self-type edges, got %+v", result)
	}
}

func TestAggregate_DropsContainerEndpoints(t *testing.T) {
	edges := []domain.Relationship{
		{Source: "lambda-payment", Target: "vpc-123", Type: "MEMBER_OF"},
		{Source: "subnet-456", Target: "rds-main", Type: "CONTAINS"},
	}

	if result := Aggregate(edges, testIndex); len(result) != 0 {
		t.Errorf("expected container edges to be dropped, got %+v", result)
	}
}

func TestAggregate_DropsUnresolvableEndpoints(t *testing.T) {
	edges := []domain.Relationship{
		{Source: "ghost", Target: "rds-main", Type: "QUERIES"},
		{Source: "lambda-payment", Target: "", Type: "QUERIES"},
	}

	if result := Aggregate(edges, testIndex); len(result) != 0 {
		t.Errorf("expected unresolvable edges to be dropped, got %+v", result)
	}
}

func TestAggregate_EmptyInputs(t *testing.T) {
	if result := Aggregate(nil, testIndex); len(result) != 0 {
		t.Errorf("expected no flows for nil edges, got %+v", result)
	}
	if result := Aggregate([]domain.Relationship{{Source: "a", Target: "b"}}, nil); len(result) != 0 {
		t.Errorf("expected no flows for nil index, got %+v", result)
	}
}

func TestAggregate_StableOutputOrder(t *testing.T) {
	edges := []domain.Relationship{
		{Source: "lambda-payment", Target: "rds-main", Type: "QUERIES"},
		{Source: "api-gw", Target: "lambda-payment", Type: "INVOKES"},
	}

	a := Aggregate(edges, testIndex)
	b := Aggregate(edges, testIndex)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("output order not stable: %+v vs %+v", a, b)
	}
	if a[0].Source != domain.ServiceTypeAPIGateway {
		t.Errorf("expected flows ordered by source type, got %+v", a)
	}
}
