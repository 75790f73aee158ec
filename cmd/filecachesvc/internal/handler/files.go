package handler

import (
	"net/http"
	"os"
	"strings"
	"time"
)

// GetFile handles GET /v1/files/{key}: streams the cached content file for
// key, or 404 on a miss.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	h.metrics.FileGets.Add(1)
	key := r.PathValue("key")

	path, ok := h.cache.GetFilePath([]byte(key))
	if !ok {
		writeError(w, http.StatusNotFound, "key not found")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusNotFound, "content missing")
		return
	}
	defer f.Close()

	modTime := time.Time{}
	if info, err := f.Stat(); err == nil {
		modTime = info.ModTime()
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeContent(w, r, path, modTime, f)
}

// PutFile handles PUT /v1/files/{key}?source=<path-or-url>: fetches source
// into the file store under key (a stampede-safe RememberFile call),
// returning the stored content path and size. Optional query params: ttl
// (duration string) and ext (content-file extension, default "bin").
func (h *Handler) PutFile(w http.ResponseWriter, r *http.Request) {
	h.metrics.FileRemembers.Add(1)
	key := r.PathValue("key")

	source := r.URL.Query().Get("source")
	if strings.TrimSpace(source) == "" {
		writeError(w, http.StatusBadRequest, "source query parameter is required")
		return
	}
	ttl, err := parseTTL(r.URL.Query().Get("ttl"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ttl")
		return
	}
	ext := r.URL.Query().Get("ext")

	path, err := h.cache.RememberFile(r.Context(), []byte(key), ttl, source, ext)
	if err != nil {
		h.metrics.Errors.Add(1)
		h.logger.Error("remember file failed", "key", key, "source", source, "err", err)
		writeError(w, http.StatusBadGateway, "fetch failed")
		return
	}

	info, err := os.Stat(path)
	var size int64
	if err == nil {
		size = info.Size()
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": path, "size": size})
}

// DeleteFile handles DELETE /v1/files/{key}.
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	h.metrics.FileDeletes.Add(1)
	key := r.PathValue("key")

	if err := h.cache.DeleteFile([]byte(key)); err != nil {
		h.metrics.Errors.Add(1)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
