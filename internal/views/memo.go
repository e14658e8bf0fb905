// Package views computes the derived, memoized views the presentation layer
// reads. It owns no state of its own beyond caches.
package views

import "sync"

// Memo caches the result of one computation keyed by its inputs.
// The key is usually a struct of store revisions plus call parameters, so
// a structurally unchanged input returns the previous result untouched.
type Memo[K comparable, V any] struct {
	mu             sync.Mutex
	valid          bool
	key            K
	val            V
	recomputations int
}

// Get returns the cached value for key, calling compute only when key
// differs from the previous call.
func (m *Memo[K, V]) Get(key K, compute func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.key == key {
		return m.val
	}
	m.val = compute()
	m.key = key
	m.valid = true
	m.recomputations++
	return m.val
}

// Recomputations reports how many times compute has run.
func (m *Memo[K, V]) Recomputations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recomputations
}

// MemoMap is a Memo per item id.
type MemoMap[ID comparable, K comparable, V any] struct {
	mu      sync.Mutex
	entries map[ID]memoEntry[K, V]
}

type memoEntry[K comparable, V any] struct {
	key K
	val V
}

// Get returns the cached value of id for key, computing it on a miss.
func (m *MemoMap[ID, K, V]) Get(id ID, key K, compute func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[id]; ok && e.key == key {
		return e.val
	}
	if m.entries == nil {
		m.entries = make(map[ID]memoEntry[K, V])
	}
	v := compute()
	m.entries[id] = memoEntry[K, V]{key: key, val: v}
	return v
}

// Forget drops the entry of id.
func (m *MemoMap[ID, K, V]) Forget(id ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

// Retain drops every entry whose id fails keep.
func (m *MemoMap[ID, K, V]) Retain(keep func(ID) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.entries {
		if !keep(id) {
			delete(m.entries, id)
		}
	}
}

// Len returns the number of cached entries.
func (m *MemoMap[ID, K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
