// Package orderedmap provides an insertion-ordered map, the native value
// produced for YAML mappings. Preserving key order is what lets a loaded
// document dump back with its original key sequence.
package orderedmap

import (
	"reflect"
)

// Map is a mapping that remembers insertion order. Keys may be any native
// value produced by the loader (strings, numbers, booleans, nil); equality
// is structural.
type Map struct {
	items []Item
}

// Item is a single key/value pair.
type Item struct {
	Key   interface{}
	Value interface{}
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{}
}

// NewMapWithItems creates a Map owning the given items.
func NewMapWithItems(items []Item) *Map {
	return &Map{items}
}

// Set assigns value to key, keeping the key's original position if it is
// already present and appending otherwise.
func (m *Map) Set(key, value interface{}) {
	for i, item := range m.items {
		if m.keyEq(item.Key, key) {
			item.Value = value
			m.items[i] = item
			return
		}
	}
	m.items = append(m.items, Item{key, value})
}

// Get returns the value stored under key and whether it was present.
func (m *Map) Get(key interface{}) (interface{}, bool) {
	for _, item := range m.items {
		if m.keyEq(item.Key, key) {
			return item.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (m *Map) Has(key interface{}) bool {
	_, found := m.Get(key)
	return found
}

// Delete removes key, reporting whether it was present.
func (m *Map) Delete(key interface{}) bool {
	for i, item := range m.items {
		if m.keyEq(item.Key, key) {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() (keys []interface{}) {
	m.Iterate(func(k, _ interface{}) {
		keys = append(keys, k)
	})
	return
}

// Items returns the pairs in insertion order. The slice is shared with the
// map; callers must not reorder it.
func (m *Map) Items() []Item { return m.items }

// Iterate calls iterFunc for each pair in insertion order.
func (m *Map) Iterate(iterFunc func(k, v interface{})) {
	for _, item := range m.items {
		iterFunc(item.Key, item.Value)
	}
}

// IterateErr calls iterFunc for each pair in insertion order, stopping at
// the first error.
func (m *Map) IterateErr(iterFunc func(k, v interface{}) error) error {
	for _, item := range m.items {
		if err := iterFunc(item.Key, item.Value); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of pairs.
func (m *Map) Len() int { return len(m.items) }

func (m *Map) keyEq(key1, key2 interface{}) bool {
	return reflect.DeepEqual(key1, key2)
}
