package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"topomap/internal/domain"
)

func staticSource(graph domain.RawGraph) GraphSource {
	return GraphSourceFunc(func(ctx context.Context) (domain.RawGraph, error) {
		return graph, nil
	})
}

func TestRefresh_PublishesTopology(t *testing.T) {
	graph := domain.RawGraph{
		Nodes: []domain.AssetNode{
			{ID: "fn-1", Type: "Lambda"},
			{ID: "rds-1", Type: "RDS"},
		},
		Edges: []domain.Relationship{
			{Source: "fn-1", Target: "rds-1", Type: "QUERIES"},
		},
	}
	r := NewRefresher(staticSource(graph), "backend", time.Minute)

	if r.Current() != nil {
		t.Fatal("topology must be nil before the first refresh")
	}

	topo, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if topo.Source != "backend" {
		t.Errorf("source = %q, want backend", topo.Source)
	}
	if len(topo.Groups) != 2 || len(topo.Flows) != 1 {
		t.Errorf("got %d groups, %d flows", len(topo.Groups), len(topo.Flows))
	}
	if r.Current() != topo {
		t.Error("Current() must return the published topology")
	}
}

func TestRefresh_SubstitutesDemoOnFetchFailure(t *testing.T) {
	failing := GraphSourceFunc(func(ctx context.Context) (domain.RawGraph, error) {
		return domain.RawGraph{}, errors.New("backend unreachable")
	})
	r := NewRefresher(failing, "backend", time.Minute)

	topo, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("fetch failure must not surface as a refresh error: %v", err)
	}
	if topo.Source != "demo" {
		t.Errorf("source = %q, want demo", topo.Source)
	}
	if len(topo.Groups) == 0 {
		t.Error("demo substitution must yield a non-empty topology")
	}
}

func TestRefresh_SubstitutesDemoOnEmptyNodeList(t *testing.T) {
	r := NewRefresher(staticSource(domain.RawGraph{}), "backend", time.Minute)

	topo, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if topo.Source != "demo" {
		t.Errorf("source = %q, want demo", topo.Source)
	}
}

func TestRefresh_SerializesOverlappingTriggers(t *testing.T) {
	// SCENARIO: a second trigger fires while the first cycle is still
	// fetching.
	// EXPECTED: the second trigger is ignored; the source is hit once.
	release := make(chan struct{})
	var fetches int
	var mu sync.Mutex

	slow := GraphSourceFunc(func(ctx context.Context) (domain.RawGraph, error) {
		mu.Lock()
		fetches++
		mu.Unlock()
		<-release
		return domain.RawGraph{Nodes: []domain.AssetNode{{ID: "fn-1", Type: "Lambda"}}}, nil
	})
	r := NewRefresher(slow, "backend", time.Minute)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Refresh(context.Background())
	}()

	// Wait until the first cycle is inside the fetch, then trigger again.
	for {
		mu.Lock()
		started := fetches == 1
		mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if _, err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("ignored trigger must not error: %v", err)
	}

	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if fetches != 1 {
		t.Errorf("expected overlapping trigger to be ignored, source fetched %d times", fetches)
	}
}

func TestWatch_StopsOnContextCancel(t *testing.T) {
	r := NewRefresher(staticSource(domain.RawGraph{
		Nodes: []domain.AssetNode{{ID: "fn-1", Type: "Lambda"}},
	}), "backend", 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx) }()

	// Let at least one tick land, then cancel.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Watch returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not stop after cancellation")
	}

	if r.Current() == nil {
		t.Error("Watch must have published at least one topology")
	}
}
