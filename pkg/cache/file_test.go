package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestFileCache(t *testing.T, path string) *FileCache {
	t.Helper()
	c, err := NewFileCache(&Options{
		FilePath:      path,
		DefaultTTL:    time.Hour,
		FlushInterval: time.Hour, // flush only on Close in tests
	})
	if err != nil {
		t.Fatalf("failed to create file cache: %v", err)
	}
	return c
}

func TestFileCache_SetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := newTestFileCache(t, path)
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "geo:mumbai", []byte(`{"lon":72.8,"lat":19.0}`), 0); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	got, err := c.Get(ctx, "geo:mumbai")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if !bytes.Contains(got, []byte("72.8")) {
		t.Errorf("unexpected value: %s", got)
	}
}

func TestFileCache_GetNotFound(t *testing.T) {
	c := newTestFileCache(t, filepath.Join(t.TempDir(), "cache.json"))
	defer c.Close()

	if _, err := c.Get(context.Background(), "missing"); err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestFileCache_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	ctx := context.Background()

	c1 := newTestFileCache(t, path)
	if err := c1.Set(ctx, "geo:delhi", []byte("value"), 0); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := c1.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	c2 := newTestFileCache(t, path)
	defer c2.Close()

	got, err := c2.Get(ctx, "geo:delhi")
	if err != nil {
		t.Fatalf("entry did not survive reopen: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("expected value, got %s", got)
	}
}

func TestFileCache_CloseWritesValidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	ctx := context.Background()

	c := newTestFileCache(t, path)
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	if err := c.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cache file missing after close: %v", err)
	}
	var entries map[string]fileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("cache file is not valid JSON: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries on disk, got %d", len(entries))
	}

	// An atomic rewrite leaves no temp files behind.
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".cache-*.tmp"))
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestFileCache_TTLExpiry(t *testing.T) {
	c := newTestFileCache(t, filepath.Join(t.TempDir(), "cache.json"))
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "short", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); err != ErrKeyNotFound {
		t.Errorf("expected expired entry to be gone, got %v", err)
	}
}

func TestFileCache_OperationsAfterClose(t *testing.T) {
	c := newTestFileCache(t, filepath.Join(t.TempDir(), "cache.json"))
	if err := c.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("double close should not error, got %v", err)
	}

	if _, err := c.Get(context.Background(), "k"); err != ErrCacheClosed {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
	if err := c.Set(context.Background(), "k", []byte("v"), 0); err != ErrCacheClosed {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
}

func TestFileCache_Stats(t *testing.T) {
	c := newTestFileCache(t, filepath.Join(t.TempDir(), "cache.json"))
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "geo:a", []byte("1"), 0)
	_ = c.Set(ctx, "geo:b", []byte("2"), 0)
	_ = c.Set(ctx, "road:x", []byte("3"), 0)

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.TotalKeys != 3 {
		t.Errorf("expected 3 keys, got %d", stats.TotalKeys)
	}
	if stats.Backend != "file" {
		t.Errorf("expected backend file, got %s", stats.Backend)
	}
	if stats.KeysByPrefix["geo"] != 2 {
		t.Errorf("expected 2 geo-prefixed keys, got %d", stats.KeysByPrefix["geo"])
	}
}
