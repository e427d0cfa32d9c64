// Package cache purges edge-cached exercise responses after writes.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// ListKey is the cache key of the exercise list response.
const ListKey = "/v1/exercises"

// Invalidator defines a cache invalidation contract.
type Invalidator interface {
	Invalidate(ctx context.Context, exerciseID string) error
}

// NoopInvalidator is a no-op implementation.
type NoopInvalidator struct{}

// Invalidate performs no action.
func (NoopInvalidator) Invalidate(context.Context, string) error { return nil }

// HTTPInvalidator asks an edge cache to purge keys over HTTP.
type HTTPInvalidator struct {
	client *http.Client
	url    string
	token  string
}

// NewHTTPInvalidator constructs an HTTPInvalidator.
func NewHTTPInvalidator(endpoint, token string, timeout time.Duration) *HTTPInvalidator {
	return &HTTPInvalidator{
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(endpoint, "/"),
		token:  token,
	}
}

type purgeRequest struct {
	Keys []string `json:"keys"`
}

// Keys returns the cache keys affected by a write to exerciseID. The list key is always included.
func Keys(exerciseID string) []string {
	keys := []string{ListKey}
	if strings.TrimSpace(exerciseID) != "" {
		keys = append(keys, ListKey+"/"+exerciseID)
	}
	return keys
}

// Invalidate purges the list and the exercise's own entry.
func (h *HTTPInvalidator) Invalidate(ctx context.Context, exerciseID string) error {
	body, err := json.Marshal(purgeRequest{Keys: Keys(exerciseID)})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &InvalidationError{Status: resp.StatusCode}
	}
	return nil
}

// InvalidationError represents a non-successful purge response.
type InvalidationError struct {
	Status int
}

func (e *InvalidationError) Error() string {
	return "cache invalidation failed with status " + http.StatusText(e.Status)
}
