// Package filecacheglobal provides a process-wide filecache.Cache for
// programs that want a shared instance reached from anywhere without
// threading a *filecache.Cache through every call site. It is a thin
// wrapper: the singleton is the only thing that's global, the engine
// underneath is the same explicit Cache type callers could construct
// themselves with filecache.New.
package filecacheglobal

import (
	"fmt"
	"sync"

	"github.com/zynqcloud/filecache"
)

var (
	mu       sync.Mutex
	once     sync.Once
	instance *filecache.Cache
	initErr  error
	root     string
	opts     []filecache.Option
)

// Configure records the root and options to use for the global Cache.
// It must be called before the first Get (or before Reset, to reconfigure).
// Calling Configure after the instance has already been built has no
// effect on the existing instance; call Reset first to force a rebuild.
func Configure(cacheRoot string, options ...filecache.Option) {
	mu.Lock()
	defer mu.Unlock()
	root = cacheRoot
	opts = options
}

// Get returns the process-wide Cache, constructing it on first use via
// the root/options passed to Configure. Panics if Configure was never
// called or if construction fails — callers that want to handle
// construction errors should call filecache.New directly instead.
func Get() *filecache.Cache {
	c, err := get()
	if err != nil {
		panic(err)
	}
	return c
}

func get() (*filecache.Cache, error) {
	once.Do(func() {
		mu.Lock()
		r, o := root, opts
		mu.Unlock()
		if r == "" {
			initErr = fmt.Errorf("filecacheglobal: Configure must be called with a non-empty root before Get")
			return
		}
		instance, initErr = filecache.New(r, o...)
	})
	return instance, initErr
}

// Reset discards the global instance so the next Get rebuilds it from
// whatever Configure has most recently recorded. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	instance = nil
	initErr = nil
}
