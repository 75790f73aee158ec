package gc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zynqcloud/filecache/internal/metafile"
)

func writeValueEntry(t *testing.T, dir, base string, expires int64) string {
	t.Helper()
	metaPath := filepath.Join(dir, base+ValueMetaSuffix)
	data := metafile.EncodeValueMeta(metafile.ValueMeta{
		Expires:    expires,
		Inline:     true,
		Serializer: "native",
		Payload:    []byte("x"),
	})
	if err := os.WriteFile(metaPath, data, 0o664); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	binPath := filepath.Join(dir, base+BinSuffix)
	os.WriteFile(binPath, []byte("x"), 0o664) //nolint:errcheck
	return metaPath
}

func TestSweepRemovesExpiredValueEntry(t *testing.T) {
	dir := t.TempDir()
	metaPath := writeValueEntry(t, dir, "expired", time.Now().Add(-time.Hour).Unix())
	writeValueEntry(t, dir, "fresh", time.Now().Add(time.Hour).Unix())

	n, err := Sweep(dir, 100, time.Now())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted = %d, want 1", n)
	}
	if _, err := os.Stat(metaPath); !os.IsNotExist(err) {
		t.Fatal("expired meta file should have been removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "fresh"+ValueMetaSuffix)); err != nil {
		t.Fatal("fresh entry should survive the sweep")
	}
}

func TestSweepRemovesSiblingsOfExpiredEntry(t *testing.T) {
	dir := t.TempDir()
	writeValueEntry(t, dir, "expired", time.Now().Add(-time.Hour).Unix())

	if _, err := Sweep(dir, 100, time.Now()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "expired"+BinSuffix)); !os.IsNotExist(err) {
		t.Fatal("sibling .bin file should have been removed alongside expired meta")
	}
}

func TestSweepRespectsLimit(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	for i := 0; i < 5; i++ {
		writeValueEntry(t, dir, string(rune('a'+i)), now.Add(-time.Hour).Unix())
	}

	n, err := Sweep(dir, 2, now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 2 {
		t.Fatalf("deleted = %d, want 2 (bounded by limit)", n)
	}
}

func TestSweepZeroLimitDeletesNothing(t *testing.T) {
	dir := t.TempDir()
	writeValueEntry(t, dir, "expired", time.Now().Add(-time.Hour).Unix())

	n, err := Sweep(dir, 0, time.Now())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 0 {
		t.Fatalf("deleted = %d, want 0", n)
	}
}

func TestSweepRemovesUnparseableRecord(t *testing.T) {
	dir := t.TempDir()
	metaPath := filepath.Join(dir, "garbage"+ValueMetaSuffix)
	if err := os.WriteFile(metaPath, []byte("not a valid record"), 0o664); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	n, err := Sweep(dir, 10, time.Now())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted = %d, want 1", n)
	}
	if _, err := os.Stat(metaPath); !os.IsNotExist(err) {
		t.Fatal("unparseable record should have been removed")
	}
}

func TestSweepRemovesExpiredFileEntry(t *testing.T) {
	dir := t.TempDir()
	contentPath := filepath.Join(dir, "content.dat")
	os.WriteFile(contentPath, []byte("data"), 0o664) //nolint:errcheck

	metaPath := filepath.Join(dir, "doc"+FileMetaSuffix)
	data := metafile.EncodeFileMeta(metafile.FileMeta{
		Expires: time.Now().Add(-time.Hour).Unix(),
		Path:    contentPath,
	})
	os.WriteFile(metaPath, data, 0o664) //nolint:errcheck

	n, err := Sweep(dir, 10, time.Now())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted = %d, want 1", n)
	}
	if _, err := os.Stat(contentPath); !os.IsNotExist(err) {
		t.Fatal("expired file entry's content file should have been removed")
	}
}
