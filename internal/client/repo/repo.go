// Package repo provides the data-provider layer: one generic collection
// type parametrized by resource path and record type, instantiated per
// entity. Local state is only touched after the server confirms a
// mutation, so the two never diverge during transient failure.
package repo

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
)

// Fetcher is the authenticated request primitive collections run on.
type Fetcher interface {
	AuthFetch(ctx context.Context, method, path string, body any) (json.RawMessage, error)
}

// Uploader extends Fetcher with multipart uploads for media.
type Uploader interface {
	Fetcher
	AuthUpload(ctx context.Context, path string, fields map[string]string, fileField, filename string, content []byte) (json.RawMessage, error)
}

// Identifiable is any record with a server-assigned identifier.
type Identifiable interface {
	RecordID() string
}

// Collection is an in-memory projection of one remote resource
// collection, with list/add/update/delete over it.
type Collection[T Identifiable] struct {
	fetch Fetcher
	path  string

	mu      sync.Mutex
	records []T
}

func NewCollection[T Identifiable](fetch Fetcher, path string) *Collection[T] {
	return &Collection[T]{fetch: fetch, path: path}
}

func (c *Collection[T]) itemPath(id string) string {
	return c.path + id + "/"
}

// Records returns a copy of the current in-memory list.
func (c *Collection[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// Load fetches the remote list and replaces the local projection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.fetch.AuthFetch(ctx, http.MethodGet, c.path, nil)
	if err != nil {
		return nil, err
	}
	records := decodeList[T](raw)
	c.mu.Lock()
	c.records = records
	c.mu.Unlock()
	return c.Records(), nil
}

// Add creates the record remotely and appends the server-returned copy to
// the local list. On failure the list is untouched and the error
// propagates to the caller.
func (c *Collection[T]) Add(ctx context.Context, rec T) (T, error) {
	raw, err := c.fetch.AuthFetch(ctx, http.MethodPost, c.path, rec)
	if err != nil {
		var zero T
		return zero, err
	}
	created := decodeRecord(raw, rec)
	c.mu.Lock()
	c.records = append(c.records, created)
	c.mu.Unlock()
	return created, nil
}

// Update replaces the record remotely, then swaps the matching local
// entry by ID.
func (c *Collection[T]) Update(ctx context.Context, rec T) (T, error) {
	raw, err := c.fetch.AuthFetch(ctx, http.MethodPut, c.itemPath(rec.RecordID()), rec)
	if err != nil {
		var zero T
		return zero, err
	}
	updated := decodeRecord(raw, rec)
	c.mu.Lock()
	for i := range c.records {
		if c.records[i].RecordID() == updated.RecordID() {
			c.records[i] = updated
			break
		}
	}
	c.mu.Unlock()
	return updated, nil
}

// Delete removes the record remotely, then drops it from the local list.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if _, err := c.fetch.AuthFetch(ctx, http.MethodDelete, c.itemPath(id), nil); err != nil {
		return err
	}
	c.mu.Lock()
	for i := range c.records {
		if c.records[i].RecordID() == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// decodeList accepts either a bare JSON array or a paginated
// {"results": [...]} wrapper.
func decodeList[T any](raw json.RawMessage) []T {
	if raw == nil {
		return nil
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var wrapped struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Results
	}
	return nil
}

// decodeRecord prefers the server-returned record, falling back to the
// submitted one when the response body is empty or unusable.
func decodeRecord[T any](raw json.RawMessage, fallback T) T {
	if raw == nil {
		return fallback
	}
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return fallback
	}
	return rec
}
