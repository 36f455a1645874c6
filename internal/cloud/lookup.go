// Package cloud provides the optional hash reputation lookup consulted
// after a local signature miss. Lookup failures never fail a scan; the
// caller logs and moves on.
package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Result is a cloud verdict for one digest.
type Result struct {
	Name     string `json:"name"`
	Family   string `json:"family"`
	Positive bool   `json:"positive"`
}

// Lookup resolves a file digest to a reputation verdict. A nil Result
// with nil error means the service knows nothing about the digest.
type Lookup interface {
	Check(ctx context.Context, digest string) (*Result, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ctx context.Context, digest string) (*Result, error)

func (f LookupFunc) Check(ctx context.Context, digest string) (*Result, error) {
	return f(ctx, digest)
}

// HTTPLookup queries a hash reputation HTTP API. The timeout is kept
// short so an unreachable service cannot stall the scan pipeline.
type HTTPLookup struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPLookup returns a lookup against baseURL with a 1s timeout.
func NewHTTPLookup(baseURL, apiKey string) *HTTPLookup {
	return &HTTPLookup{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 1 * time.Second},
	}
}

// Check queries GET {base}/files/{digest}. Non-200 responses and
// transport errors are returned as errors for the caller to ignore.
func (h *HTTPLookup) Check(ctx context.Context, digest string) (*Result, error) {
	url := fmt.Sprintf("%s/files/%s", h.BaseURL, digest)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if h.APIKey != "" {
		req.Header.Set("x-apikey", h.APIKey)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cloud lookup: unexpected status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if !result.Positive {
		return nil, nil
	}
	return &result, nil
}
