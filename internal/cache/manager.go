package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shoplens/shoplens-backend/internal/logger"
)

// ComputeFn produces the serialized result set for one cache key.
type ComputeFn func(ctx context.Context) ([]byte, error)

type Manager struct {
	store Store
	locks *keyLocks
	log   *logger.Logger
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store Store, ttl time.Duration, baseLog *logger.Logger) *Manager {
	return &Manager{
		store: store,
		locks: newKeyLocks(),
		log:   baseLog.With("service", "CacheManager"),
		ttl:   ttl,
		now:   time.Now,
	}
}

func compositeKey(datasetID, cacheKey, paramSig string) string {
	return strings.Join([]string{datasetID, cacheKey, paramSig}, "\x1f")
}

// GetOrCompute returns the cached blob when the stored entry was computed
// against currentFingerprint and has not expired; otherwise it computes,
// publishes and returns a fresh one. For a fixed key at most one computation
// runs concurrently: racing callers wait on the per-key lock and re-check
// validity before computing (double-checked), so they reuse the winner's
// result instead of duplicating work.
//
// A result computed while the dataset's fingerprint moves on is still
// published under the fingerprint it was computed against; the next access
// sees the mismatch and recomputes. No stale result is ever served as valid.
func (m *Manager) GetOrCompute(
	ctx context.Context,
	datasetID, cacheKey, paramSig, currentFingerprint string,
	computeFn ComputeFn,
) ([]byte, bool, error) {
	if entry := m.lookupValid(ctx, datasetID, cacheKey, paramSig, currentFingerprint); entry != nil {
		return entry.Blob, true, nil
	}

	release := m.locks.acquire(compositeKey(datasetID, cacheKey, paramSig))
	defer release()

	// Re-check after acquiring the lock: a racing caller may have finished
	// the computation while we waited.
	if entry := m.lookupValid(ctx, datasetID, cacheKey, paramSig, currentFingerprint); entry != nil {
		return entry.Blob, true, nil
	}

	blob, err := computeFn(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("compute %s/%s: %w", datasetID, cacheKey, err)
	}

	entry := &Entry{
		DatasetID:   datasetID,
		CacheKey:    cacheKey,
		ParamSig:    paramSig,
		Fingerprint: currentFingerprint,
		Blob:        blob,
		ComputedAt:  m.now(),
	}
	if m.ttl > 0 {
		expires := entry.ComputedAt.Add(m.ttl)
		entry.ExpiresAt = &expires
	}
	if putErr := m.store.Put(ctx, entry); putErr != nil {
		// The result is still good; failing to cache it must not fail the
		// request.
		m.log.Warn("Failed to persist cache entry", "dataset_id", datasetID, "cache_key", cacheKey, "error", putErr)
	}
	return blob, false, nil
}

// lookupValid returns the entry iff it exists, matches the fingerprint, has
// not expired and its blob is readable. Store read failures count as misses.
func (m *Manager) lookupValid(ctx context.Context, datasetID, cacheKey, paramSig, fingerprint string) *Entry {
	entry, err := m.store.Get(ctx, datasetID, cacheKey, paramSig)
	if err != nil {
		m.log.Warn("Cache read failed, treating as miss", "dataset_id", datasetID, "cache_key", cacheKey, "error", err)
		return nil
	}
	if entry == nil {
		return nil
	}
	if entry.Fingerprint != fingerprint {
		return nil
	}
	if entry.Expired(m.now()) {
		return nil
	}
	if len(entry.Blob) == 0 {
		return nil
	}
	return entry
}

// InvalidateDataset drops every cache entry for a dataset regardless of
// fingerprint, forcing the next access to recompute.
func (m *Manager) InvalidateDataset(ctx context.Context, datasetID string) error {
	if err := m.store.DeleteDataset(ctx, datasetID); err != nil {
		return fmt.Errorf("invalidate dataset %s: %w", datasetID, err)
	}
	m.log.Info("Invalidated cache entries", "dataset_id", datasetID)
	return nil
}
