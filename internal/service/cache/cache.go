package cache

import "time"

// BytesCache is the minimal response-cache API: raw bytes with a TTL. The
// chart engine itself never caches; this sits strictly at the HTTP layer.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
