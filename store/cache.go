// Package store keeps the small keyed caches the audit persists between runs (organization
// progress, resolved folders).  A Cache is always read whole and written whole; Backends decide
// where the bytes live.
package store

import (
	"context"
	"fmt"
	"sort"

	"dario.cat/mergo"
	"golang.org/x/exp/maps"
)

// Backend is durable storage for one cache.  Write replaces everything previously written.
type Backend[V any] interface {
	Read(ctx context.Context) (map[string]V, error)
	Write(ctx context.Context, entries map[string]V) error
}

// Cache is an in-memory map mirrored to a Backend on Flush.  Not safe for concurrent use.
type Cache[V any] struct {
	backend Backend[V]
	entries map[string]V
}

func NewCache[V any](backend Backend[V]) *Cache[V] {
	return &Cache[V]{
		backend: backend,
		entries: make(map[string]V),
	}
}

// Load replaces the in-memory entries with whatever the backend holds.
func (c *Cache[V]) Load(ctx context.Context) error {
	entries, err := c.backend.Read(ctx)
	if err != nil {
		return fmt.Errorf("store: couldn't load cache: %w", err)
	}
	if entries == nil {
		entries = make(map[string]V)
	}
	c.entries = entries
	return nil
}

func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache[V]) Put(key string, v V) {
	c.entries[key] = v
}

func (c *Cache[V]) Delete(key string) {
	delete(c.entries, key)
}

// Clear drops every entry.  The backend is untouched until the next Flush.
func (c *Cache[V]) Clear() {
	c.entries = make(map[string]V)
}

// Merge adds entries for keys the cache hasn't seen.  Existing entries are left alone, so merging
// the same listing twice is a no-op.
func (c *Cache[V]) Merge(entries map[string]V) error {
	if err := mergo.Merge(&c.entries, entries); err != nil {
		return fmt.Errorf("store: couldn't merge entries: %w", err)
	}
	return nil
}

// Entries returns a copy of the cache contents.
func (c *Cache[V]) Entries() map[string]V {
	return maps.Clone(c.entries)
}

// Keys returns every key, sorted.  Numeric ids sort numerically.
func (c *Cache[V]) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	SortKeys(keys)
	return keys
}

func (c *Cache[V]) Len() int {
	return len(c.entries)
}

// Flush writes the whole cache to the backend.
func (c *Cache[V]) Flush(ctx context.Context) error {
	if err := c.backend.Write(ctx, maps.Clone(c.entries)); err != nil {
		return fmt.Errorf("store: couldn't flush cache: %w", err)
	}
	return nil
}

// SortKeys orders ids shortest first, then lexically, which is numeric order for the decimal
// ids the API hands out.
func SortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
}
