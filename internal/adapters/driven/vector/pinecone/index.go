// Package pinecone provides a vector index adapter using the Pinecone
// REST API. The control plane creates and deletes serverless indexes;
// the data plane upserts and queries vectors against each index host.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/paperchat/internal/core/domain"
	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
	"github.com/custodia-labs/paperchat/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultControlPlaneURL = "https://api.pinecone.io"
	DefaultCloud           = "aws"
	DefaultRegion          = "us-east-1"
	DefaultTimeout         = 30 * time.Second

	// DefaultReadyTimeout bounds how long EnsureIndex waits for a newly
	// created index to become queryable.
	DefaultReadyTimeout = 2 * time.Minute

	// DefaultPollInterval is the wait between readiness checks.
	DefaultPollInterval = 5 * time.Second

	// DefaultUpsertBatchSize caps vectors per upsert request.
	DefaultUpsertBatchSize = 100
)

// Config holds configuration for the Pinecone adapter.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// ControlPlaneURL is the management API base URL
	// (default: https://api.pinecone.io).
	ControlPlaneURL string

	// Cloud and Region place new serverless indexes
	// (defaults: aws, us-east-1).
	Cloud  string
	Region string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// ReadyTimeout bounds the wait for a new index to come up
	// (default: 2m).
	ReadyTimeout time.Duration

	// PollInterval is the wait between readiness checks (default: 5s).
	PollInterval time.Duration
}

// Index talks to Pinecone over HTTP.
type Index struct {
	client       *http.Client
	controlPlane string
	apiKey       string
	cloud        string
	region       string
	readyTimeout time.Duration
	pollInterval time.Duration

	mu    sync.Mutex
	hosts map[string]string // index name -> data plane host
}

// createIndexRequest is the control plane index creation format.
type createIndexRequest struct {
	Name      string    `json:"name"`
	Dimension int       `json:"dimension"`
	Metric    string    `json:"metric"`
	Spec      indexSpec `json:"spec"`
}

type indexSpec struct {
	Serverless serverlessSpec `json:"serverless"`
}

type serverlessSpec struct {
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
}

// describeIndexResponse is the control plane index description format.
type describeIndexResponse struct {
	Name   string `json:"name"`
	Host   string `json:"host"`
	Status struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

// upsertRequest is the data plane upsert format.
type upsertRequest struct {
	Vectors []vectorRecord `json:"vectors"`
}

type vectorRecord struct {
	ID       string               `json:"id"`
	Values   []float32            `json:"values"`
	Metadata driven.IndexMetadata `json:"metadata"`
}

// queryRequest is the data plane query format.
type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

// queryResponse is the data plane query response format.
type queryResponse struct {
	Matches []struct {
		ID       string               `json:"id"`
		Score    float64              `json:"score"`
		Metadata driven.IndexMetadata `json:"metadata"`
	} `json:"matches"`
}

// apiError is the error envelope both planes return.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// New creates a Pinecone vector index adapter.
func New(cfg Config) (*Index, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: API key is required")
	}
	if cfg.ControlPlaneURL == "" {
		cfg.ControlPlaneURL = DefaultControlPlaneURL
	}
	if cfg.Cloud == "" {
		cfg.Cloud = DefaultCloud
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ReadyTimeout == 0 {
		cfg.ReadyTimeout = DefaultReadyTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	return &Index{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		controlPlane: cfg.ControlPlaneURL,
		apiKey:       cfg.APIKey,
		cloud:        cfg.Cloud,
		region:       cfg.Region,
		readyTimeout: cfg.ReadyTimeout,
		pollInterval: cfg.PollInterval,
		hosts:        make(map[string]string),
	}, nil
}

// EnsureIndex creates the named index if it does not exist and waits
// until it is ready to serve. Creating an index that already exists is
// not an error.
func (x *Index) EnsureIndex(ctx context.Context, name string, dimensions int, metric string) error {
	reqBody := createIndexRequest{
		Name:      name,
		Dimension: dimensions,
		Metric:    metric,
		Spec: indexSpec{
			Serverless: serverlessSpec{Cloud: x.cloud, Region: x.region},
		},
	}

	status, body, err := x.do(ctx, http.MethodPost, x.controlPlane+"/indexes", reqBody)
	if err != nil {
		return fmt.Errorf("pinecone: create index %s: %w", name, err)
	}
	switch status {
	case http.StatusCreated, http.StatusOK:
		logger.Info("created index %q (%d dimensions, %s)", name, dimensions, metric)
	case http.StatusConflict:
		logger.Debug("index %q already exists", name)
	default:
		return fmt.Errorf("pinecone: create index %s: %s", name, errorMessage(status, body))
	}

	return x.waitReady(ctx, name)
}

// waitReady polls the index description until it reports ready.
func (x *Index) waitReady(ctx context.Context, name string) error {
	deadline := time.Now().Add(x.readyTimeout)
	for {
		desc, err := x.describe(ctx, name)
		if err != nil {
			return err
		}
		if desc.Status.Ready {
			x.mu.Lock()
			x.hosts[name] = desc.Host
			x.mu.Unlock()
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("pinecone: index %s not ready after %s (state %s): %w",
				name, x.readyTimeout, desc.Status.State, domain.ErrIndexUnavailable)
		}
		logger.Debug("index %q not ready (state %s), waiting", name, desc.Status.State)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(x.pollInterval):
		}
	}
}

// describe fetches the control plane description of an index.
func (x *Index) describe(ctx context.Context, name string) (*describeIndexResponse, error) {
	status, body, err := x.do(ctx, http.MethodGet, x.controlPlane+"/indexes/"+name, nil)
	if err != nil {
		return nil, fmt.Errorf("pinecone: describe index %s: %w", name, err)
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("pinecone: index %s: %w", name, domain.ErrNotFound)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("pinecone: describe index %s: %s", name, errorMessage(status, body))
	}

	var desc describeIndexResponse
	if err := json.Unmarshal(body, &desc); err != nil {
		return nil, fmt.Errorf("pinecone: decode index description: %w", err)
	}
	return &desc, nil
}

// host resolves the data plane host for an index, describing it on a
// cache miss.
func (x *Index) host(ctx context.Context, name string) (string, error) {
	x.mu.Lock()
	host, ok := x.hosts[name]
	x.mu.Unlock()
	if ok {
		return host, nil
	}

	desc, err := x.describe(ctx, name)
	if err != nil {
		return "", err
	}
	if !desc.Status.Ready {
		return "", fmt.Errorf("pinecone: index %s not ready: %w", name, domain.ErrIndexUnavailable)
	}

	x.mu.Lock()
	x.hosts[name] = desc.Host
	x.mu.Unlock()
	return desc.Host, nil
}

// Upsert writes entries into the named index in batches.
func (x *Index) Upsert(ctx context.Context, name string, entries []driven.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	host, err := x.host(ctx, name)
	if err != nil {
		return err
	}

	for start := 0; start < len(entries); start += DefaultUpsertBatchSize {
		end := start + DefaultUpsertBatchSize
		if end > len(entries) {
			end = len(entries)
		}

		vectors := make([]vectorRecord, end-start)
		for i, entry := range entries[start:end] {
			vectors[i] = vectorRecord{
				ID:       entry.ID,
				Values:   entry.Vector,
				Metadata: entry.Metadata,
			}
		}

		status, body, err := x.do(ctx, http.MethodPost, hostURL(host)+"/vectors/upsert", upsertRequest{Vectors: vectors})
		if err != nil {
			return fmt.Errorf("pinecone: upsert to %s: %w", name, err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("pinecone: upsert to %s: %s", name, errorMessage(status, body))
		}
		logger.Debug("upserted vectors %d..%d of %d into %q", start, end, len(entries), name)
	}

	return nil
}

// Query returns the k nearest entries to the vector with their metadata.
func (x *Index) Query(ctx context.Context, name string, vector []float32, k int) ([]driven.VectorMatch, error) {
	host, err := x.host(ctx, name)
	if err != nil {
		return nil, err
	}

	status, body, err := x.do(ctx, http.MethodPost, hostURL(host)+"/query", queryRequest{
		Vector:          vector,
		TopK:            k,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("pinecone: query %s: %w", name, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("pinecone: query %s: %s", name, errorMessage(status, body))
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("pinecone: decode query response: %w", err)
	}

	matches := make([]driven.VectorMatch, len(resp.Matches))
	for i, m := range resp.Matches {
		matches[i] = driven.VectorMatch{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: m.Metadata,
		}
	}
	return matches, nil
}

// DeleteIndex removes the named index. Deleting an index that does not
// exist returns domain.ErrNotFound.
func (x *Index) DeleteIndex(ctx context.Context, name string) error {
	status, body, err := x.do(ctx, http.MethodDelete, x.controlPlane+"/indexes/"+name, nil)
	if err != nil {
		return fmt.Errorf("pinecone: delete index %s: %w", name, err)
	}
	switch status {
	case http.StatusAccepted, http.StatusNoContent, http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("pinecone: index %s: %w", name, domain.ErrNotFound)
	default:
		return fmt.Errorf("pinecone: delete index %s: %s", name, errorMessage(status, body))
	}

	x.mu.Lock()
	delete(x.hosts, name)
	x.mu.Unlock()
	logger.Info("deleted index %q", name)
	return nil
}

// do issues a JSON request and returns the status code and body.
func (x *Index) do(ctx context.Context, method, url string, reqBody any) (int, []byte, error) {
	var reader io.Reader
	if reqBody != nil {
		jsonBody, err := json.Marshal(reqBody)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Api-Key", x.apiKey)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// errorMessage extracts the API error message from a response body,
// falling back to the raw body.
func errorMessage(status int, body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Error.Message != "" {
			return fmt.Sprintf("status %d: %s", status, apiErr.Error.Message)
		}
		if apiErr.Message != "" {
			return fmt.Sprintf("status %d: %s", status, apiErr.Message)
		}
	}
	return fmt.Sprintf("status %d: %s", status, string(body))
}

// hostURL normalises a data plane host into a base URL.
func hostURL(host string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}

// Close releases resources.
func (x *Index) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
