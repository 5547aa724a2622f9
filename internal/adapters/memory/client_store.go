// Package memory provides an in-process ClientStore. State is lost on restart.
package memory

import (
	"context"
	"maps"
	"sync"
)

// ClientStore keeps per-client key/value state in memory.
type ClientStore struct {
	mu      sync.RWMutex
	clients map[string]map[string]string
}

// NewClientStore creates an empty in-memory client store.
func NewClientStore() *ClientStore {
	return &ClientStore{clients: make(map[string]map[string]string)}
}

// Get returns the requested keys that are present for the client.
func (s *ClientStore) Get(ctx context.Context, clientID string, keys ...string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(keys))
	ns := s.clients[clientID]
	for _, k := range keys {
		if v, ok := ns[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Set writes all values under a single lock.
func (s *ClientStore) Set(ctx context.Context, clientID string, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.clients[clientID]
	if !ok {
		ns = make(map[string]string, len(values))
		s.clients[clientID] = ns
	}
	maps.Copy(ns, values)
	return nil
}

// Delete removes the keys under a single lock. Missing keys are ignored.
func (s *ClientStore) Delete(ctx context.Context, clientID string, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.clients[clientID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(ns, k)
	}
	if len(ns) == 0 {
		delete(s.clients, clientID)
	}
	return nil
}

// Len reports how many clients currently hold state.
func (s *ClientStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
