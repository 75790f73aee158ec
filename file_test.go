package filecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestRememberFileFetchesLocalSourceOnce(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	src := filepath.Join(t.TempDir(), "source.txt")
	if err := os.WriteFile(src, []byte("contents"), 0o664); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	path, err := c.RememberFile(context.Background(), []byte("doc"), time.Minute, src, "txt")
	if err != nil {
		t.Fatalf("RememberFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%q): %v", path, err)
	}
	if string(got) != "contents" {
		t.Fatalf("content = %q", got)
	}

	// Remove the source; a second RememberFile for the same key should still
	// hit the cached content without re-fetching.
	os.Remove(src) //nolint:errcheck
	path2, err := c.RememberFile(context.Background(), []byte("doc"), time.Minute, src, "txt")
	if err != nil {
		t.Fatalf("RememberFile (cached): %v", err)
	}
	if path2 != path {
		t.Fatalf("path2 = %q, want %q", path2, path)
	}
}

func TestRememberFileIsStampedeSafeUnderConcurrency(t *testing.T) {
	var fetches int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		w.Write([]byte("remote body")) //nolint:errcheck
	}))
	defer srv.Close()

	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	type result struct {
		path string
		err  error
	}
	const n = 8
	results := make(chan result, n)
	for i := 0; i < n; i++ {
		go func() {
			p, err := c.RememberFile(context.Background(), []byte("shared"), time.Minute, srv.URL, "bin")
			results <- result{p, err}
		}()
	}

	var first string
	for i := 0; i < n; i++ {
		r := <-results
		if r.err != nil {
			t.Fatalf("RememberFile: %v", r.err)
		}
		if first == "" {
			first = r.path
		} else if r.path != first {
			t.Fatalf("inconsistent path across concurrent callers: %q vs %q", r.path, first)
		}
	}
	if fetches != 1 {
		t.Fatalf("fetches = %d, want 1", fetches)
	}
}

func TestGetFilePathMissOnAbsentKey(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.GetFilePath([]byte("nope")); ok {
		t.Fatal("expected miss for absent file key")
	}
}

func TestDeleteFileRemovesContentAndMeta(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	src := filepath.Join(t.TempDir(), "source.txt")
	if err := os.WriteFile(src, []byte("x"), 0o664); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	path, err := c.RememberFile(context.Background(), []byte("doc"), time.Minute, src, "txt")
	if err != nil {
		t.Fatalf("RememberFile: %v", err)
	}

	if err := c.DeleteFile([]byte("doc")); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("content file should have been removed")
	}
	if _, ok := c.GetFilePath([]byte("doc")); ok {
		t.Fatal("expected miss after DeleteFile")
	}
}

func TestGetFilePathExpiredEntryIsMiss(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	src := filepath.Join(t.TempDir(), "source.txt")
	if err := os.WriteFile(src, []byte("x"), 0o664); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := c.RememberFile(context.Background(), []byte("doc"), time.Millisecond, src, "txt"); err != nil {
		t.Fatalf("RememberFile: %v", err)
	}
	// Expiry is stored in whole seconds, so wait past the next second boundary.
	time.Sleep(1100 * time.Millisecond)
	if _, ok := c.GetFilePath([]byte("doc")); ok {
		t.Fatal("expected miss for expired file entry")
	}
}
