// Package cache maps (dataset identity, metric, parameter signature) to a
// computed result blob plus the fingerprint it was computed against, and
// enforces at-most-one concurrent computation per key.
package cache

import (
	"context"
	"time"
)

// Entry is the persisted cache record. Entries are replaced whole, never
// patched: a reader observes either the previous entry or the complete new
// one (fingerprint, blob and timestamp together).
type Entry struct {
	DatasetID   string     `json:"dataset_id"`
	CacheKey    string     `json:"cache_key"`
	ParamSig    string     `json:"param_signature"`
	Fingerprint string     `json:"fingerprint"`
	Blob        []byte     `json:"result_blob"`
	ComputedAt  time.Time  `json:"computed_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (e *Entry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && now.After(*e.ExpiresAt)
}

// Store is the storage collaborator behind the cache manager. The blob
// format is opaque here beyond read/write.
//
// Get returns (nil, nil) for a missing entry. Implementations must also map
// an unreadable or corrupt entry to (nil, nil): corruption is recovered as a
// miss, never surfaced to the caller.
type Store interface {
	Get(ctx context.Context, datasetID, cacheKey, paramSig string) (*Entry, error)
	Put(ctx context.Context, entry *Entry) error
	DeleteDataset(ctx context.Context, datasetID string) error
}
