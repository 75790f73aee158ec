package filecache

import "os"

// Delete best-effort unlinks key's meta, bin, and lock files. Absence of any
// of them is not an error.
func (c *Cache) Delete(key []byte) error {
	if m := c.metrics(); m != nil {
		m.Deletes.Inc()
	}
	slot := c.valueSlot(key)
	os.Remove(slot.metaPath) //nolint:errcheck
	os.Remove(slot.binPath)  //nolint:errcheck
	os.Remove(slot.lockPath) //nolint:errcheck
	return nil
}
