package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/zynqcloud/filecache/value"
)

// GetEntry handles GET /v1/entries/{key}: returns the raw bytes stored
// under key, or 404 on a miss.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	h.metrics.EntryGets.Add(1)
	key := r.PathValue("key")

	v, ok := h.cache.Get([]byte(key))
	if !ok {
		writeError(w, http.StatusNotFound, "key not found")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(entryBytes(v)) //nolint:errcheck
}

// PutEntry handles PUT /v1/entries/{key}: stores the request body as the
// value for key. An optional ?ttl= query parameter (a Go duration string)
// overrides the cache's default TTL; "-1s" (or any negative duration)
// requests a non-expiring entry.
func (h *Handler) PutEntry(w http.ResponseWriter, r *http.Request) {
	h.metrics.EntrySets.Add(1)
	key := r.PathValue("key")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.metrics.Errors.Add(1)
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	ttl, err := parseTTL(r.URL.Query().Get("ttl"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ttl")
		return
	}

	if err := h.cache.Set([]byte(key), value.OfBytes(body), ttl); err != nil {
		h.metrics.Errors.Add(1)
		h.logger.Error("put entry failed", "key", key, "err", err)
		writeError(w, http.StatusInternalServerError, "write failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteEntry handles DELETE /v1/entries/{key}.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	h.metrics.EntryDeletes.Add(1)
	key := r.PathValue("key")

	if err := h.cache.Delete([]byte(key)); err != nil {
		h.metrics.Errors.Add(1)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func entryBytes(v value.Value) []byte {
	if v.Kind == value.Bytes {
		return v.Bytes
	}
	return []byte(v.Str)
}

func parseTTL(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
