package session

import (
	"context"
	"fmt"
	"sync"
)

var _ Storage = (*InMemoryStorage)(nil)

// InMemoryStorage is an in-memory implementation of Storage
type InMemoryStorage struct {
	mu      sync.RWMutex
	records map[string]map[string]string // namespace -> field -> value
}

// NewInMemoryStorage creates a new in-memory session storage
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		records: make(map[string]map[string]string),
	}
}

// Read returns a copy of the record so callers cannot modify stored state
func (s *InMemoryStorage) Read(_ context.Context, namespace string) (map[string]string, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.records[namespace]))
	for k, v := range s.records[namespace] {
		out[k] = v
	}
	return out, nil
}

// Write applies set and unset under a single lock
func (s *InMemoryStorage) Write(_ context.Context, namespace string, set map[string]string, unset ...string) error {
	if namespace == "" {
		return fmt.Errorf("namespace is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[namespace]
	if !ok {
		record = make(map[string]string)
		s.records[namespace] = record
	}
	for k, v := range set {
		record[k] = v
	}
	for _, k := range unset {
		delete(record, k)
	}

	// Clean up empty records
	if len(record) == 0 {
		delete(s.records, namespace)
	}
	return nil
}

// Delete removes a record
func (s *InMemoryStorage) Delete(_ context.Context, namespace string) error {
	if namespace == "" {
		return fmt.Errorf("namespace is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, namespace) // Already gone is not an error
	return nil
}

// Len returns the number of stored records
func (s *InMemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
