// Package cache provides the read-through cache that sits in front of
// alert source fetches. The Cache interface is an injectable capability so
// fetch logic can be tested against an in-memory fake.
package cache

import (
	"context"
	"time"
)

// Logical cache keys, one per alert source.
const (
	KeyEmailAlerts     = "emailAlerts"
	KeyPagingIncidents = "pagingIncidents"
)

// DefaultTTL is how long a cached source result stays valid.
const DefaultTTL = 6 * time.Hour

// Cache defines get/put access to a byte-value cache with per-entry TTL.
// Entries expire by TTL only; nothing invalidates them proactively.
type Cache interface {
	// Get returns the value stored under key, and whether a live entry
	// was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores val under key for ttl.
	Put(ctx context.Context, key string, val []byte, ttl time.Duration) error
}
