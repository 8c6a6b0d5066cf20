package ops

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"

	"Yatube/internal/core/pagecache"
)

// TokenHeader carries the operations token
const TokenHeader = "X-Ops-Token"

// CacheHandler exposes flush and stats of the response cache to operators
type CacheHandler struct {
	cache  pagecache.Cache
	logger *slog.Logger
	token  []byte
}

// NewCacheHandler creates a cache handler guarded by token
func NewCacheHandler(cache pagecache.Cache, token string, logger *slog.Logger) *CacheHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheHandler{cache: cache, token: []byte(token), logger: logger}
}

// RequireToken rejects requests without the operations token
func (h *CacheHandler) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := []byte(r.Header.Get(TokenHeader))
		if len(h.token) == 0 || subtle.ConstantTimeCompare(got, h.token) != 1 {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandleFlush handles POST /internal/cache/flush
func (h *CacheHandler) HandleFlush(w http.ResponseWriter, r *http.Request) {
	before := h.cache.Stats().Entries
	h.cache.Clear()
	h.logger.Info("response cache flushed", "entries", before, "remote", r.RemoteAddr)
	writeJSON(w, http.StatusOK, map[string]int{"cleared": before})
}

// HandleStats handles GET /internal/cache/stats
func (h *CacheHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.Stats())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
