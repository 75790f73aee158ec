// Package cacheerr defines the error taxonomy shared across the cache engine.
//
// A cache miss is never represented as an error — callers get a plain
// boolean. Only unmet preconditions (an unwritable root) and unrecoverable
// I/O inside a write surface as errors here.
package cacheerr

import "errors"

// ErrConfig indicates the cache root is absent, uncreatable, or not
// writable. Raised at construction; fatal.
var ErrConfig = errors.New("filecache: configuration error")

// ErrWrite indicates a tmp-create, write, or rename failed while publishing
// an entry.
var ErrWrite = errors.New("filecache: write error")

// ErrFetch indicates the byte-stream fetcher could not read its source or
// the remote request failed or timed out.
var ErrFetch = errors.New("filecache: fetch error")
