package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sajidalishaik45/coauthor-network/internal/cache"
	"github.com/sajidalishaik45/coauthor-network/internal/logger"
)

// CacheAdminHandler exposes the payload cache for inspection.
type CacheAdminHandler struct {
	cache cache.Cache
}

// NewCacheAdminHandler creates a new cache admin handler.
func NewCacheAdminHandler(c cache.Cache) *CacheAdminHandler {
	return &CacheAdminHandler{cache: c}
}

// InvalidateCache drops every cached payload.
// POST /api/cache/invalidate
func (h *CacheAdminHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear()
	logger.InfoContext(r.Context(), "Payload cache invalidated")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// GetCacheStats returns hit and miss counters.
// GET /api/cache/stats
func (h *CacheAdminHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.cache.Stats()

	var ratio float64
	if total := stats.Hits + stats.Misses; total > 0 {
		ratio = float64(stats.Hits) / float64(total)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"hits":       stats.Hits,
		"misses":     stats.Misses,
		"hit_ratio":  ratio,
		"keys_added": stats.KeysAdded,
		"evictions":  stats.Evictions,
		"items":      stats.Items,
	})
}
