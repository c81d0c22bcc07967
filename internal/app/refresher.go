package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"topomap/internal/domain"
	"topomap/internal/fetch"
	"topomap/internal/logging"
	"topomap/internal/pipeline"
)

/*
Refresher - owns the refresh lifecycle around the (stateless) pipeline

The pipeline itself is a pure function of one raw snapshot. Everything
stateful lives here, as caller policy:

  - periodic trigger plus explicit manual refresh
  - serialization: a trigger arriving while a cycle is in flight is ignored
  - stale-result discard: each cycle gets a generation number; a cycle only
    publishes if no newer cycle has published first
  - demo substitution: a failed fetch or an empty node list is replaced by
    the fixed demonstration dataset so the topology is never empty just
    because the backend blinked

Consumers read the published topology through Current(); each publish swaps
the pointer wholesale, so readers always see one consistent snapshot.
*/

// GraphSource produces one raw snapshot per call.
type GraphSource interface {
	Fetch(ctx context.Context) (domain.RawGraph, error)
}

// GraphSourceFunc adapts a function to the GraphSource interface.
type GraphSourceFunc func(ctx context.Context) (domain.RawGraph, error)

// Fetch implements GraphSource.
func (f GraphSourceFunc) Fetch(ctx context.Context) (domain.RawGraph, error) {
	return f(ctx)
}

// Refresher periodically derives a fresh topology from a raw-graph source.
type Refresher struct {
	source     GraphSource
	sourceName string
	interval   time.Duration

	inFlight atomic.Bool
	gen      atomic.Uint64

	mu           sync.RWMutex
	current      *domain.Topology
	publishedGen uint64
}

// NewRefresher wires a refresher around a source. The interval applies to
// Watch; manual Refresh calls are always allowed (subject to serialization).
func NewRefresher(source GraphSource, sourceName string, interval time.Duration) *Refresher {
	return &Refresher{
		source:     source,
		sourceName: sourceName,
		interval:   interval,
	}
}

// Current returns the latest published topology, or nil before the first
// successful refresh.
func (r *Refresher) Current() *domain.Topology {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Refresh runs one fetch-and-classify cycle. If a cycle is already in
// flight the trigger is ignored and the current topology is returned
// unchanged. The returned topology is the freshest published one.
func (r *Refresher) Refresh(ctx context.Context) (*domain.Topology, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		logging.LogDebug("refresh already in flight, ignoring trigger", map[string]interface{}{
			"operation": "refresh",
			"source":    r.sourceName,
		})
		return r.Current(), nil
	}
	defer r.inFlight.Store(false)

	generation := r.gen.Add(1)
	start := time.Now()

	graph, sourceName := r.fetchOrSubstitute(ctx)
	if err := ctx.Err(); err != nil {
		return r.Current(), err
	}

	topo := pipeline.Run(graph, sourceName)

	r.mu.Lock()
	if generation > r.publishedGen {
		r.current = topo
		r.publishedGen = generation
	} else {
		// A newer cycle published while this one was computing; its output
		// wins and ours is dropped rather than merged.
		topo = r.current
	}
	r.mu.Unlock()

	logging.LogRefresh(sourceName, time.Since(start), true, topo.NodeCount, len(topo.Paths), nil)
	return topo, nil
}

// Watch refreshes immediately and then on every interval tick until the
// context is cancelled.
func (r *Refresher) Watch(ctx context.Context) error {
	if _, err := r.Refresh(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.Refresh(ctx); err != nil {
				return err
			}
		}
	}
}

// fetchOrSubstitute applies the fallback policy: a fetch failure or an empty
// node list yields the demo dataset through the same input contract.
func (r *Refresher) fetchOrSubstitute(ctx context.Context) (domain.RawGraph, string) {
	graph, err := r.source.Fetch(ctx)
	if err != nil {
		logging.LogWarn("raw graph unavailable, substituting demo dataset", map[string]interface{}{
			"operation": "refresh",
			"source":    r.sourceName,
			"error":     err.Error(),
		})
		return fetch.DemoGraph(), "demo"
	}
	if len(graph.Nodes) == 0 {
		logging.LogWarn("raw graph empty, substituting demo dataset", map[string]interface{}{
			"operation": "refresh",
			"source":    r.sourceName,
		})
		return fetch.DemoGraph(), "demo"
	}
	return graph, r.sourceName
}
