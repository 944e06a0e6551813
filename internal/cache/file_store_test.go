package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shoplens/shoplens-backend/internal/logger"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), logger.NewNop())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	entry := &Entry{
		DatasetID:   "ds1",
		CacheKey:    "best_sellers",
		ParamSig:    "limit=10&sort_by=quantity",
		Fingerprint: "fp-a",
		Blob:        []byte(`[{"rank":1}]`),
		ComputedAt:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := s.Put(ctx, entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "ds1", "best_sellers", "limit=10&sort_by=quantity")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected entry, got miss")
	}
	if got.Fingerprint != "fp-a" || string(got.Blob) != `[{"rank":1}]` {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.ComputedAt.Equal(entry.ComputedAt) {
		t.Fatalf("computed_at mismatch: %v vs %v", got.ComputedAt, entry.ComputedAt)
	}
}

func TestFileStoreMissingIsMiss(t *testing.T) {
	s := newTestFileStore(t)
	got, err := s.Get(context.Background(), "nope", "nope", "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected miss, got %+v", got)
	}
}

func TestFileStoreCorruptEntryIsMiss(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	entry := &Entry{DatasetID: "ds1", CacheKey: "trends", ParamSig: "m=6", Fingerprint: "fp", Blob: []byte("x")}
	if err := s.Put(ctx, entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Truncate the entry file to simulate corruption.
	path := s.entryPath("ds1", "trends", "m=6")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}

	got, err := s.Get(ctx, "ds1", "trends", "m=6")
	if err != nil {
		t.Fatalf("corrupt entry must not error: %v", err)
	}
	if got != nil {
		t.Fatalf("corrupt entry must read as a miss, got %+v", got)
	}
}

func TestFileStoreDeleteDataset(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	for _, key := range []string{"best_sellers", "trends"} {
		if err := s.Put(ctx, &Entry{DatasetID: "ds1", CacheKey: key, Fingerprint: "fp", Blob: []byte("x")}); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
	}
	if err := s.Put(ctx, &Entry{DatasetID: "ds2", CacheKey: "trends", Fingerprint: "fp", Blob: []byte("x")}); err != nil {
		t.Fatalf("Put ds2: %v", err)
	}

	if err := s.DeleteDataset(ctx, "ds1"); err != nil {
		t.Fatalf("DeleteDataset: %v", err)
	}

	if got, _ := s.Get(ctx, "ds1", "trends", ""); got != nil {
		t.Fatalf("ds1 entries must be gone")
	}
	if got, _ := s.Get(ctx, "ds2", "trends", ""); got == nil {
		t.Fatalf("ds2 entries must survive")
	}
}

func TestFileStoreLeavesNoTempFilesBehind(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()
	if err := s.Put(ctx, &Entry{DatasetID: "ds1", CacheKey: "velocity", Fingerprint: "fp", Blob: []byte("x")}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, "ds1", ".entry-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("temp files left after publish: %v", matches)
	}
}
