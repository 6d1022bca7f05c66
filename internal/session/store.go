// Package session provides the visitor-scoped key-value store backing
// the pending-event relay and the duplicate-suppression gate, so neither
// depends on real web session machinery.
package session

import "sync"

// Store is a key-value store scoped by visitor session ID. Writes are
// last-write-wins; there are no transactions.
type Store interface {
	Get(sessionID, key string) (string, bool, error)
	Set(sessionID, key, value string) error
	Delete(sessionID, key string) error
}

// MemoryStore keeps session data in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]map[string]string)}
}

func (s *MemoryStore) Get(sessionID, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values, ok := s.sessions[sessionID]
	if !ok {
		return "", false, nil
	}
	value, ok := values[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, ok := s.sessions[sessionID]
	if !ok {
		values = make(map[string]string)
		s.sessions[sessionID] = values
	}
	values[key] = value
	return nil
}

func (s *MemoryStore) Delete(sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if values, ok := s.sessions[sessionID]; ok {
		delete(values, key)
		if len(values) == 0 {
			delete(s.sessions, sessionID)
		}
	}
	return nil
}
