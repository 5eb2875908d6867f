package common

import "time"

// CacheInterface defines the contract for cache implementations
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get retrieves a value from cache by key
	Get(key string) (interface{}, bool)

	Delete(key string)

	// SetIfAbsent stores the value only when the key is missing and reports whether it did
	SetIfAbsent(key string, value interface{}, duration time.Duration) bool

	Close() error
}
