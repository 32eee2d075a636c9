package repo

import (
	"sync"

	"github.com/google/uuid"
)

// LocalCollection backs the providers that never talk to the API: demo
// and static marketing data held as mutable local state. IDs are
// synthesized when absent so the CRUD contract matches Collection.
type LocalCollection[T Identifiable] struct {
	withID func(rec T, id string) T

	mu      sync.Mutex
	records []T
}

// NewLocal builds a local collection seeded with initial records. withID
// returns a copy of the record carrying the given identifier.
func NewLocal[T Identifiable](withID func(rec T, id string) T, seed ...T) *LocalCollection[T] {
	return &LocalCollection[T]{withID: withID, records: append([]T(nil), seed...)}
}

func (c *LocalCollection[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

func (c *LocalCollection[T]) Add(rec T) T {
	if rec.RecordID() == "" {
		rec = c.withID(rec, uuid.NewString())
	}
	c.mu.Lock()
	c.records = append(c.records, rec)
	c.mu.Unlock()
	return rec
}

func (c *LocalCollection[T]) Update(rec T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		if c.records[i].RecordID() == rec.RecordID() {
			c.records[i] = rec
			return true
		}
	}
	return false
}

func (c *LocalCollection[T]) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		if c.records[i].RecordID() == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			return true
		}
	}
	return false
}
