package cache

import (
	"errors"
	"sync"
)

// DefaultNamespace always exists and cannot be removed.
const DefaultNamespace = "default"

// ErrProtectedNamespace indicates an attempt to remove the default namespace.
var ErrProtectedNamespace = errors.New("default namespace cannot be removed")

// Cache is a concurrent-safe, namespaced in-memory store for decrypted
// secret material. Every operation takes the cache lock, so a reader never
// observes a half-updated namespace and snapshots never see a concurrent
// writer's partial mutation.
type Cache struct {
	mu   sync.Mutex
	data map[string]map[string]interface{}
}

// New creates a cache with the default namespace already initialized.
func New() *Cache {
	return &Cache{
		data: map[string]map[string]interface{}{
			DefaultNamespace: {},
		},
	}
}

// CreateNamespace creates namespace if absent. An existing namespace is left
// alone unless overwrite is set, in which case it is replaced with an empty
// one.
func (c *Cache) CreateNamespace(namespace string, overwrite bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[namespace]; exists && !overwrite {
		return
	}
	c.data[namespace] = map[string]interface{}{}
}

// Set upserts key in the given namespace, creating the namespace if needed.
func (c *Cache) Set(key string, value interface{}, namespace string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ns, exists := c.data[namespace]
	if !exists {
		ns = map[string]interface{}{}
		c.data[namespace] = ns
	}
	ns[key] = value
}

// Get returns the value for key in namespace. An unknown namespace or key is
// reported through the boolean, not as an error.
func (c *Cache) Get(key, namespace string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ns, exists := c.data[namespace]
	if !exists {
		return nil, false
	}
	value, ok := ns[key]
	return value, ok
}

// Delete removes key from namespace and reports whether a key was actually
// removed.
func (c *Cache) Delete(key, namespace string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ns, exists := c.data[namespace]
	if !exists {
		return false
	}
	if _, ok := ns[key]; !ok {
		return false
	}
	delete(ns, key)
	return true
}

// SnapshotNamespace returns an independent copy of a namespace's contents.
// Mutating the result never affects the live cache. An unknown namespace
// yields an empty map.
func (c *Cache) SnapshotNamespace(namespace string) map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	ns, exists := c.data[namespace]
	if !exists {
		return map[string]interface{}{}
	}
	return copyNamespace(ns)
}

// SnapshotAll returns a deep independent copy of every namespace.
func (c *Cache) SnapshotAll() map[string]map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make(map[string]map[string]interface{}, len(c.data))
	for name, ns := range c.data {
		snapshot[name] = copyNamespace(ns)
	}
	return snapshot
}

// Replace swaps the cache contents for the given snapshot, re-initializing
// the default namespace if the snapshot lacks it. The snapshot is deep-copied
// on the way in, so the caller's map stays independent of the live cache.
func (c *Cache) Replace(snapshot map[string]map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]map[string]interface{}, len(snapshot)+1)
	for name, ns := range snapshot {
		c.data[name] = copyNamespace(ns)
	}
	if _, ok := c.data[DefaultNamespace]; !ok {
		c.data[DefaultNamespace] = map[string]interface{}{}
	}
}

// RemoveNamespace removes a namespace and reports whether it existed.
// Removing the default namespace fails with ErrProtectedNamespace.
func (c *Cache) RemoveNamespace(namespace string) (bool, error) {
	if namespace == DefaultNamespace {
		return false, ErrProtectedNamespace
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[namespace]; !exists {
		return false, nil
	}
	delete(c.data, namespace)
	return true, nil
}

func copyNamespace(ns map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(ns))
	for k, v := range ns {
		out[k] = copyValue(v)
	}
	return out
}

// copyValue deep-copies the JSON-shaped values the cache holds. Scalars are
// immutable and returned as-is.
func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, inner := range val {
			out[k] = copyValue(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, inner := range val {
			out[i] = copyValue(inner)
		}
		return out
	default:
		return val
	}
}
