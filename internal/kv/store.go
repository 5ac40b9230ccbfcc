// Package kv provides the whole-value key-value store backing aide's
// persistence. Values are opaque blobs read and written in full; there is
// no partial update and no cross-key transaction, so concurrent writers to
// the same key race with last-writer-wins semantics.
package kv

// Store is the persistence interface for aide.
// Defined at the consumer side per Go conventions.
type Store interface {
	// Get returns the value for key, or ok=false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Put writes the whole value for key, replacing any previous value.
	Put(key string, value []byte) error
	// List returns all key/value pairs whose key starts with prefix.
	List(prefix string) (map[string][]byte, error)
	Close() error
}
