// Package gc implements the cache's opportunistic and explicit garbage
// collector: a bounded, depth-first sweep that purges expired and
// unparseable meta records.
package gc

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zynqcloud/filecache/internal/metafile"
)

// Suffixes recognized while walking the cache root.
const (
	ValueMetaSuffix = ".php"
	FileMetaSuffix  = ".meta.php"
	LockSuffix      = ".lock"
	BinSuffix       = ".bin"
)

// Sweep performs one bounded, depth-first pass under root, deleting expired
// or unparseable meta records (and their siblings) until limit deletions
// have occurred. It returns the number of entries deleted.
//
// Stray non-meta files (an orphaned .bin whose meta vanished) are not
// collected by this pass — they are harmless and cheap to leave for a
// separate operator-invoked sweep.
func Sweep(root string, limit int, now time.Time) (int, error) {
	if limit <= 0 {
		return 0, nil
	}
	deleted := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if deleted >= limit {
			return filepath.SkipAll
		}
		if err != nil {
			// Tolerate concurrent deletions of files/dirs discovered mid-walk.
			if os.IsNotExist(err) {
				return nil
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		switch {
		case strings.HasSuffix(name, FileMetaSuffix):
			if sweepFileEntry(path, now) {
				deleted++
			}
		case strings.HasSuffix(name, ValueMetaSuffix):
			if sweepValueEntry(path, now) {
				deleted++
			}
		}
		if deleted >= limit {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && err != filepath.SkipAll {
		return deleted, err
	}
	return deleted, nil
}

func sweepValueEntry(metaPath string, now time.Time) bool {
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return false
	}
	meta, err := metafile.DecodeValueMeta(data)
	if err != nil {
		os.Remove(metaPath) //nolint:errcheck
		removeSiblings(metaPath, ValueMetaSuffix)
		return true
	}
	if meta.Expires != 0 && meta.Expires < now.Unix() {
		os.Remove(metaPath) //nolint:errcheck
		removeSiblings(metaPath, ValueMetaSuffix)
		return true
	}
	return false
}

func sweepFileEntry(metaPath string, now time.Time) bool {
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return false
	}
	meta, err := metafile.DecodeFileMeta(data)
	if err != nil {
		os.Remove(metaPath) //nolint:errcheck
		base := strings.TrimSuffix(metaPath, FileMetaSuffix)
		os.Remove(base + LockSuffix) //nolint:errcheck
		return true
	}
	if meta.Expires != 0 && meta.Expires < now.Unix() {
		os.Remove(metaPath) //nolint:errcheck
		if meta.Path != "" {
			os.Remove(meta.Path) //nolint:errcheck
		}
		base := strings.TrimSuffix(metaPath, FileMetaSuffix)
		os.Remove(base + LockSuffix) //nolint:errcheck
		return true
	}
	return false
}

func removeSiblings(metaPath, metaSuffix string) {
	base := strings.TrimSuffix(metaPath, metaSuffix)
	os.Remove(base + BinSuffix)  //nolint:errcheck
	os.Remove(base + LockSuffix) //nolint:errcheck
}
