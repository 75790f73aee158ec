// Package sqlcache layers SQL query-result caching over filecache.Cache. It
// never imports a database driver itself — callers supply their own query
// function, keeping the cache engine's dependency surface untouched by
// whatever database they use.
package sqlcache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"time"

	"github.com/zynqcloud/filecache"
	"github.com/zynqcloud/filecache/value"
)

// Row is a single result row, keyed by column name.
type Row map[string]any

// Fingerprint derives a stable cache key from a query string and its bound
// arguments, so that two calls with the same query and args land on the
// same cache entry. Arguments are hashed in the order given, so the same
// arguments in a different order produce a different key.
func Fingerprint(query string, args ...any) []byte {
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte{0})
	for _, a := range args {
		fmt.Fprintf(h, "%v\x00", a)
	}
	return h.Sum(nil)
}

// QueryFunc runs query with args and returns the result rows. Callers
// implement this against whatever database/sql-compatible client they use.
type QueryFunc func(ctx context.Context, query string, args ...any) ([]Row, error)

// RememberRows returns the cached rows for (query, args) if present and
// unexpired; otherwise it runs query via run, caches the result for ttl,
// and returns it. Concurrent callers for the same query are deduplicated
// by Cache.Remember's stampede protection.
func RememberRows(ctx context.Context, cache *filecache.Cache, ttl time.Duration, query string, args []any, run QueryFunc) ([]Row, error) {
	key := Fingerprint(query, args...)

	v, err := cache.Remember(ctx, key, ttl, func(ctx context.Context) (filecache.Value, error) {
		rows, err := run(ctx, query, args...)
		if err != nil {
			return filecache.Value{}, err
		}
		return rowsToValue(rows), nil
	})
	if err != nil {
		return nil, err
	}
	return valueToRows(v), nil
}

func rowsToValue(rows []Row) value.Value {
	elems := make([]value.Value, len(rows))
	for i, row := range rows {
		cols := make([]string, 0, len(row))
		for col := range row {
			cols = append(cols, col)
		}
		sort.Strings(cols)

		m := make(map[string]value.Value, len(row))
		for _, col := range cols {
			m[col] = anyToValue(row[col])
		}
		elems[i] = value.OfMap(m)
	}
	return value.OfSlice(elems)
}

func valueToRows(v value.Value) []Row {
	if v.Kind != value.Slice {
		return nil
	}
	rows := make([]Row, len(v.Slice))
	for i, elem := range v.Slice {
		row := make(Row, len(elem.Map))
		for col, cv := range elem.Map {
			row[col] = valueToAny(cv)
		}
		rows[i] = row
	}
	return rows
}

func anyToValue(a any) value.Value {
	switch t := a.(type) {
	case nil:
		return value.OfNil()
	case bool:
		return value.OfBool(t)
	case int:
		return value.OfInt(int64(t))
	case int64:
		return value.OfInt(t)
	case float64:
		return value.OfFloat(t)
	case string:
		return value.OfString(t)
	case []byte:
		return value.OfBytes(t)
	default:
		return value.OfString(fmt.Sprintf("%v", t))
	}
}

func valueToAny(v value.Value) any {
	switch v.Kind {
	case value.Nil:
		return nil
	case value.Bool:
		return v.Bool
	case value.Int:
		return v.Int
	case value.Float:
		return v.Float
	case value.String:
		return v.Str
	case value.Bytes:
		return v.Bytes
	default:
		return nil
	}
}
