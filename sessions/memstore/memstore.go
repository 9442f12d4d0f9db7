package memstore

import (
	"sync"

	"github.com/jrsteele09/notoli/sessions"
)

var _ sessions.Storage = (*Storage)(nil)

// Storage keeps items for the lifetime of the process, the CLI analogue of
// a browser tab's sessionStorage.
type Storage struct {
	mu    sync.RWMutex
	items map[string]string
}

func New() *Storage {
	return &Storage{items: make(map[string]string)}
}

func (s *Storage) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	return value, ok, nil
}

func (s *Storage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return nil
}

func (s *Storage) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// Len returns the number of stored items.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}
