// Package shard computes the deterministic, salted slot path for a cache
// key: SHA-256(salt ‖ 0x00 ‖ domain ‖ 0x00 ‖ key), fanned out into up to
// three two-hex-character directory levels.
package shard

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// MaxDepth is the largest shard_depth this package accepts.
const MaxDepth = 3

// Hash returns the lowercase-hex SHA-256 slot hash for (salt, domain, key).
func Hash(salt, domain string, key []byte) string {
	h := sha256.New()
	h.Write([]byte(salt))
	h.Write([]byte{0})
	h.Write([]byte(domain))
	h.Write([]byte{0})
	h.Write(key)
	return hex.EncodeToString(h.Sum(nil))
}

// Locate returns the directory holding the slot and the slot's base file
// name (the full hash, no extension) for hash under root at the given
// shard depth. depth is clamped to [0, MaxDepth].
func Locate(root string, hash string, depth int) (dir, base string) {
	if depth < 0 {
		depth = 0
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}
	parts := make([]string, 0, depth+1)
	parts = append(parts, root)
	for i := 0; i < depth; i++ {
		off := i * 2
		if off+2 > len(hash) {
			break
		}
		parts = append(parts, hash[off:off+2])
	}
	return filepath.Join(parts...), hash
}

// Path joins dir and base with suffix, e.g. Path(dir, base, ".php").
func Path(dir, base, suffix string) string {
	return filepath.Join(dir, base+suffix)
}
