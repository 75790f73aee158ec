// Package filecache implements a single-node, filesystem-backed cache for
// arbitrary serialized values and arbitrary binary files. It is designed to
// survive without any external cache service: many cooperating processes on
// the same host, sharing only the filesystem, get a bounded-lifetime
// key/value store with concurrent-safe updates, large-payload handling, and
// background expiration.
//
// A Cache is an explicit instance constructed with New and passed to
// callers through their normal dependency channels — there is no
// process-wide singleton here; see the filecacheglobal package for a thin
// wrapper that provides one where a codebase wants it.
package filecache

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zynqcloud/filecache/internal/atomic"
	"github.com/zynqcloud/filecache/internal/cachemetrics"
	"github.com/zynqcloud/filecache/internal/cacheerr"
	"github.com/zynqcloud/filecache/internal/codec"
	"github.com/zynqcloud/filecache/value"
)

// Value is the tagged-variant type the cache stores. See package value for
// constructors (value.OfString, value.OfInt, value.OfBytes, ...).
type Value = value.Value

// Default configuration values, per the spec's external-interfaces table.
const (
	DefaultSalt              = "file-cache"
	DefaultTTL               = 300 * time.Second
	DefaultShardDepth        = 2
	DefaultMaxInlineBytes    = 262144
	DefaultCompressThreshold = 8192
	DefaultGCProbability     = 0.0
	DefaultFileSubdir        = "files"
	DefaultConnectTimeout    = 5 * time.Second
	DefaultReadTimeout       = 20 * time.Second
	DefaultUserAgent         = "FileCache/1.0"
)

// Options holds the cache's tunables. Use the With* functions with New
// rather than constructing Options directly.
type Options struct {
	Salt              string
	DefaultTTL        time.Duration
	ShardDepth        int
	MaxInlineBytes    int
	CompressThreshold int
	AllowClasses      bool
	GCProbability     float64
	FileSubdir        string
	ConnectTimeout    time.Duration
	ReadTimeout       time.Duration
	UserAgent         string
	Serializer        codec.Tag
	Logger            *slog.Logger
	Metrics           *cachemetrics.Metrics
}

func defaultOptions() Options {
	return Options{
		Salt:              DefaultSalt,
		DefaultTTL:        DefaultTTL,
		ShardDepth:        DefaultShardDepth,
		MaxInlineBytes:    DefaultMaxInlineBytes,
		CompressThreshold: DefaultCompressThreshold,
		AllowClasses:      false,
		GCProbability:     DefaultGCProbability,
		FileSubdir:        DefaultFileSubdir,
		ConnectTimeout:    DefaultConnectTimeout,
		ReadTimeout:       DefaultReadTimeout,
		UserAgent:         DefaultUserAgent,
		Serializer:        codec.Native,
	}
}

// Option configures a Cache at construction time.
type Option func(*Options)

func WithSalt(salt string) Option               { return func(o *Options) { o.Salt = salt } }
func WithDefaultTTL(ttl time.Duration) Option    { return func(o *Options) { o.DefaultTTL = ttl } }
func WithShardDepth(depth int) Option            { return func(o *Options) { o.ShardDepth = depth } }
func WithMaxInlineBytes(n int) Option            { return func(o *Options) { o.MaxInlineBytes = n } }
func WithCompressThreshold(n int) Option         { return func(o *Options) { o.CompressThreshold = n } }
func WithAllowClasses(allow bool) Option         { return func(o *Options) { o.AllowClasses = allow } }
func WithGCProbability(p float64) Option         { return func(o *Options) { o.GCProbability = p } }
func WithFileSubdir(subdir string) Option        { return func(o *Options) { o.FileSubdir = subdir } }
func WithConnectTimeout(d time.Duration) Option  { return func(o *Options) { o.ConnectTimeout = d } }
func WithReadTimeout(d time.Duration) Option     { return func(o *Options) { o.ReadTimeout = d } }
func WithUserAgent(ua string) Option             { return func(o *Options) { o.UserAgent = ua } }
func WithSerializer(tag codec.Tag) Option        { return func(o *Options) { o.Serializer = tag } }
func WithLogger(l *slog.Logger) Option           { return func(o *Options) { o.Logger = l } }
func WithMetrics(m *cachemetrics.Metrics) Option { return func(o *Options) { o.Metrics = m } }

// Cache is a single-node, filesystem-backed key/value and file store.
type Cache struct {
	root string
	opts Options
}

// New constructs a Cache rooted at root, creating the directory if needed.
// A root that cannot be created or is not writable is a fatal configuration
// error, per the spec's error taxonomy.
func New(root string, opts ...Option) (*Cache, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.ShardDepth < 0 {
		o.ShardDepth = 0
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve root %q: %v", cacheerr.ErrConfig, root, err)
	}
	if err := atomic.EnsureDir(absRoot); err != nil {
		return nil, fmt.Errorf("%w: %v", cacheerr.ErrConfig, err)
	}
	if err := checkWritable(absRoot); err != nil {
		return nil, fmt.Errorf("%w: root %q not writable: %v", cacheerr.ErrConfig, absRoot, err)
	}

	return &Cache{root: absRoot, opts: o}, nil
}

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".writable-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// Root returns the cache's absolute root directory.
func (c *Cache) Root() string { return c.root }

func (c *Cache) log() *slog.Logger { return c.opts.Logger }

func (c *Cache) metrics() *cachemetrics.Metrics { return c.opts.Metrics }
