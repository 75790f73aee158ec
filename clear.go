package filecache

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Clear recursively removes every file under the cache root, then removes
// the directories left empty by that removal. It tolerates concurrent
// additions — an entry written by another process during the walk may
// survive.
func (c *Cache) Clear() error {
	var dirs []string

	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		os.Remove(path) //nolint:errcheck
		return nil
	})
	if err != nil {
		return err
	}

	// Remove directories deepest-first so a parent only attempts removal
	// after its children have had a chance to empty out.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, dir := range dirs {
		if dir == c.root {
			continue
		}
		os.Remove(dir) //nolint:errcheck
	}
	return nil
}
