// Package cache provides a bounded LRU cache for GPU objects that are
// expensive to build and cheap to look up, such as render pipelines keyed
// by render state and vertex layout, or compiled shader modules keyed by
// vertex format.
//
// Evicted and purged values are handed to an eviction callback so the
// owner can destroy the native object. The callback runs after the cache
// lock is released and may call back into the cache.
package cache
