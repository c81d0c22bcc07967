package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"topomap/internal/domain"
	"topomap/internal/logging"
)

/*
Graph Fetcher - pulls the raw resource graph from the discovery backend

The backend serves one JSON document per snapshot:

  {"nodes": [...], "relationships": [...]}

Some deployments name the edge array "edges" instead of "relationships";
both are accepted. Either array may be absent (treated as empty) and unknown
fields are ignored. Transient failures are retried with exponential backoff;
a fetch that still fails after retries is the caller's cue to substitute the
demo dataset, never a pipeline error.
*/

const (
	defaultTimeout  = 15 * time.Second
	defaultAttempts = 3
)

// Client fetches raw graph snapshots over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient returns a fetcher for the given graph endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Fetch retrieves and decodes one raw snapshot. Transient HTTP failures are
// retried with exponential backoff until the context is cancelled or the
// attempt budget runs out.
func (c *Client) Fetch(ctx context.Context) (domain.RawGraph, error) {
	var graph domain.RawGraph

	operation := func() error {
		g, err := c.fetchOnce(ctx)
		if err != nil {
			logging.LogWarn("graph fetch attempt failed", map[string]interface{}{
				"operation": "fetch",
				"resource":  c.endpoint,
				"error":     err.Error(),
			})
			return err
		}
		graph = g
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), defaultAttempts-1),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		logging.GetMetrics().RecordFetch("backend", false, err)
		return domain.RawGraph{}, fmt.Errorf("fetching graph from %s: %w", c.endpoint, err)
	}

	logging.GetMetrics().RecordFetch("backend", true, nil)
	return graph, nil
}

func (c *Client) fetchOnce(ctx context.Context) (domain.RawGraph, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return domain.RawGraph{}, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawGraph{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("backend returned status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return domain.RawGraph{}, backoff.Permanent(err)
		}
		return domain.RawGraph{}, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.RawGraph{}, err
	}
	return ParseGraph(body)
}

// graphDocument mirrors the backend wire format. Unknown fields are ignored
// by the decoder; absent arrays decode to nil and are treated as empty.
type graphDocument struct {
	Nodes         []domain.AssetNode    `json:"nodes"`
	Relationships []domain.Relationship `json:"relationships"`
	Edges         []domain.Relationship `json:"edges"`
}

// ParseGraph decodes one raw snapshot document. Malformed node or edge
// entries are dropped element-wise downstream; only an undecodable document
// is an error.
func ParseGraph(data []byte) (domain.RawGraph, error) {
	var doc graphDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.RawGraph{}, fmt.Errorf("decoding graph document: %w", err)
	}

	edges := doc.Relationships
	if len(edges) == 0 {
		edges = doc.Edges
	}
	return domain.RawGraph{Nodes: doc.Nodes, Edges: edges}, nil
}
