package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/shoplens/shoplens-backend/internal/errs"
	"github.com/shoplens/shoplens-backend/internal/logger"
)

// RedisStore persists entries as single JSON values and tracks per-dataset
// membership in a set so DeleteDataset can drop everything for one dataset.
// SET of the full value is atomic from the reader's perspective.
type RedisStore struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRedisStore(log *logger.Logger) (*RedisStore, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		log: log.With("service", "RedisCacheStore"),
		rdb: rdb,
	}, nil
}

func entryKey(datasetID, cacheKey, paramSig string) string {
	return fmt.Sprintf("shoplens:cache:%s:%s:%s", datasetID, cacheKey, paramSig)
}

func datasetIndexKey(datasetID string) string {
	return "shoplens:cache-index:" + datasetID
}

func (s *RedisStore) Get(ctx context.Context, datasetID, cacheKey, paramSig string) (*Entry, error) {
	raw, err := s.rdb.Get(ctx, entryKey(datasetID, cacheKey, paramSig)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entry Entry
	if uErr := json.Unmarshal(raw, &entry); uErr != nil {
		// Corrupt value: recover as a miss and drop the bad entry.
		s.log.Warn("Corrupt cache value, treating as miss",
			"dataset_id", datasetID, "cache_key", cacheKey,
			"error", fmt.Errorf("%w: %v", errs.ErrCacheCorrupt, uErr))
		_ = s.rdb.Del(ctx, entryKey(datasetID, cacheKey, paramSig)).Err()
		return nil, nil
	}
	return &entry, nil
}

func (s *RedisStore) Put(ctx context.Context, entry *Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	key := entryKey(entry.DatasetID, entry.CacheKey, entry.ParamSig)

	var ttl time.Duration
	if entry.ExpiresAt != nil {
		ttl = time.Until(*entry.ExpiresAt)
		if ttl <= 0 {
			ttl = time.Second
		}
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key, raw, ttl)
	pipe.SAdd(ctx, datasetIndexKey(entry.DatasetID), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteDataset(ctx context.Context, datasetID string) error {
	indexKey := datasetIndexKey(datasetID)
	keys, err := s.rdb.SMembers(ctx, indexKey).Result()
	if err != nil && err != goredis.Nil {
		return fmt.Errorf("list cache keys: %w", err)
	}
	if len(keys) > 0 {
		if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("delete cache entries: %w", err)
		}
	}
	return s.rdb.Del(ctx, indexKey).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
