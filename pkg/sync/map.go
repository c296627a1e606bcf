package sync

import "sync"

// TypedSyncMap is a type-safe wrapper around sync.Map. Values are
// stored and replaced as a whole, so a reader never observes a
// partially written value for a key.
type TypedSyncMap[K comparable, V any] struct {
	m sync.Map
}

func (m *TypedSyncMap[K, V]) Delete(key K) { m.m.Delete(key) }

func (m *TypedSyncMap[K, V]) Load(key K) (V, bool) {
	v, ok := m.m.Load(key)
	if !ok {
		return *new(V), false
	}

	if vv, ok := v.(V); ok {
		return vv, true
	}
	return *new(V), false
}

func (m *TypedSyncMap[K, V]) Store(key K, value V) { m.m.Store(key, value) }

// Swap stores the value for the key and returns the previous value (if any).
func (m *TypedSyncMap[K, V]) Swap(key K, value V) (V, bool) {
	previous, loaded := m.m.Swap(key, value)
	if !loaded {
		return *new(V), false
	}

	if pv, ok := previous.(V); ok {
		return pv, true
	}
	return *new(V), false
}
