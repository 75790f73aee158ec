package filecache

import (
	"os"
	"time"

	"github.com/zynqcloud/filecache/internal/codec"
	"github.com/zynqcloud/filecache/internal/metafile"
)

// Get looks up key. The second return value is false on any kind of miss:
// absent entry, expired entry, or an entry that failed to parse or
// deserialize cleanly (in which case the offending files are purged as a
// side effect).
//
// A stored nil Value (value.OfNil) is returned as a hit, (Nil, true), so
// the boolean distinguishes a stored nil from a miss.
func (c *Cache) Get(key []byte) (Value, bool) {
	if m := c.metrics(); m != nil {
		m.Gets.Inc()
	}
	slot := c.valueSlot(key)
	v, ok := c.getValue(slot)
	if ok {
		if m := c.metrics(); m != nil {
			m.Hits.Inc()
		}
	}
	return v, ok
}

func (c *Cache) getValue(slot valueSlot) (Value, bool) {
	data, err := os.ReadFile(slot.metaPath)
	if err != nil {
		return Value{}, false
	}

	meta, err := metafile.DecodeValueMeta(data)
	if err != nil {
		c.deleteValueFiles(slot)
		return Value{}, false
	}

	if meta.Expires != 0 && meta.Expires < time.Now().Unix() {
		c.deleteValueFiles(slot)
		return Value{}, false
	}

	var payload []byte
	if meta.Inline {
		payload = meta.Payload
	} else {
		b, err := os.ReadFile(slot.binPath)
		if err != nil {
			if os.IsNotExist(err) {
				os.Remove(slot.metaPath) //nolint:errcheck
				return Value{}, false
			}
			// Transient read error: miss, but do not purge — the entry may
			// still be valid once the transient condition clears.
			return Value{}, false
		}
		payload = b
	}

	if meta.Compressed {
		decompressed, err := codec.Decompress(payload)
		if err != nil {
			c.deleteValueFiles(slot)
			return Value{}, false
		}
		payload = decompressed
	}

	v, err := codec.Decode(codec.Tag(meta.Serializer), payload)
	if err != nil {
		c.deleteValueFiles(slot)
		return Value{}, false
	}
	return v, true
}

func (c *Cache) deleteValueFiles(slot valueSlot) {
	os.Remove(slot.metaPath) //nolint:errcheck
	os.Remove(slot.binPath)  //nolint:errcheck
}
