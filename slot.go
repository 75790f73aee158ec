package filecache

import (
	"path/filepath"

	"github.com/zynqcloud/filecache/internal/gc"
	"github.com/zynqcloud/filecache/internal/shard"
)

// valueDomain is the domain tag mixed into the slot hash for value-store
// entries; the file store uses "file" so the two stores never collide even
// when rooted at the same directory with the same salt.
const valueDomain = ""
const fileDomain = "file"

type valueSlot struct {
	metaPath string
	binPath  string
	lockPath string
}

func (c *Cache) valueSlot(key []byte) valueSlot {
	hash := shard.Hash(c.opts.Salt, valueDomain, key)
	dir, base := shard.Locate(c.root, hash, c.opts.ShardDepth)
	return valueSlot{
		metaPath: shard.Path(dir, base, gc.ValueMetaSuffix),
		binPath:  shard.Path(dir, base, gc.BinSuffix),
		lockPath: shard.Path(dir, base, gc.LockSuffix),
	}
}

type fileSlot struct {
	dir      string
	base     string
	metaPath string
	lockPath string
}

func (c *Cache) fileSlot(key []byte) fileSlot {
	hash := shard.Hash(c.opts.Salt, fileDomain, key)
	root := filepath.Join(c.root, c.opts.FileSubdir)
	dir, base := shard.Locate(root, hash, c.opts.ShardDepth)
	return fileSlot{
		dir:      dir,
		base:     base,
		metaPath: shard.Path(dir, base, gc.FileMetaSuffix),
		lockPath: shard.Path(dir, base, gc.LockSuffix),
	}
}

// contentPath returns the path for the file store's cached content file
// with the given extension.
func (s fileSlot) contentPath(ext string) string {
	return shard.Path(s.dir, s.base, "."+ext)
}
