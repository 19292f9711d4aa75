// Package storage models the per-browser key/value store the site keeps for
// each visitor: auth token, last visit date, theme preference and notice
// acknowledgements. Writes are last-write-wins with no locking.
package storage

import "sync"

// Keys used by the site.
const (
	KeyToken         = "token"
	KeyLastVisit     = "lastVisit"
	KeyRetro         = "isRetro"
	KeyStorageNotice = "hasSeenStorageNotice"
)

// Store is a string key/value store scoped to one visitor.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// Memory is an in-process Store, used in tests and for requests that have no
// session attached.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

// Bool reads a "true"/"false" flag, reporting whether it was set at all.
func Bool(s Store, key string) (value, ok bool) {
	v, ok := s.Get(key)
	if !ok {
		return false, false
	}
	return v == "true", true
}

// SetBool stores a flag as "true" or "false".
func SetBool(s Store, key string, value bool) error {
	if value {
		return s.Set(key, "true")
	}
	return s.Set(key, "false")
}
