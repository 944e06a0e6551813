package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shoplens/shoplens-backend/internal/errs"
	"github.com/shoplens/shoplens-backend/internal/logger"
)

// FileStore keeps one JSON entry file per key under a dataset directory.
// Writes go to a temp file first and are published with os.Rename, so a
// concurrent reader never sees a half-written entry.
type FileStore struct {
	dir string
	log *logger.Logger
}

func NewFileStore(dir string, baseLog *logger.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{dir: dir, log: baseLog.With("service", "FileCacheStore")}, nil
}

func (s *FileStore) entryPath(datasetID, cacheKey, paramSig string) string {
	// Param signatures are free-form; hash them for a safe filename.
	sig := sha256.Sum256([]byte(paramSig))
	name := fmt.Sprintf("%s_%s.json", sanitize(cacheKey), hex.EncodeToString(sig[:8]))
	return filepath.Join(s.dir, sanitize(datasetID), name)
}

func sanitize(v string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, v)
}

func (s *FileStore) Get(ctx context.Context, datasetID, cacheKey, paramSig string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.entryPath(datasetID, cacheKey, paramSig))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		s.log.Warn("Cache entry unreadable, treating as miss", "dataset_id", datasetID, "cache_key", cacheKey, "error", err)
		return nil, nil
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		s.log.Warn("Cache entry corrupt, treating as miss",
			"dataset_id", datasetID, "cache_key", cacheKey,
			"error", fmt.Errorf("%w: %v", errs.ErrCacheCorrupt, err))
		return nil, nil
	}
	return &entry, nil
}

func (s *FileStore) Put(ctx context.Context, entry *Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.entryPath(entry.DatasetID, entry.CacheKey, entry.ParamSig)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dataset cache dir: %w", err)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp entry: %w", err)
	}
	// Atomic publish of the key mapping.
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("publish cache entry: %w", err)
	}
	return nil
}

func (s *FileStore) DeleteDataset(ctx context.Context, datasetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.dir, sanitize(datasetID)))
}
