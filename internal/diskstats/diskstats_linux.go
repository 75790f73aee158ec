//go:build linux

// Package diskstats reports free and total disk space for a readiness check.
package diskstats

import "syscall"

// Stat returns the available and total bytes on the filesystem that
// contains path. Uses Bavail (blocks available to unprivileged processes)
// rather than Bfree (root-reserved blocks included) so it reports the space
// a non-root process can actually use.
func Stat(path string) (avail, total uint64) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return 0, 0
	}
	bsize := uint64(st.Bsize)
	return st.Bavail * bsize, st.Blocks * bsize
}
