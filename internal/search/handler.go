// Package search exposes the ranking pipeline over HTTP and caches ranked
// results in redis.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/wikirank/wikirank/internal/analytics"
	"github.com/wikirank/wikirank/internal/ranking"
	"github.com/wikirank/wikirank/pkg/config"
	apperrors "github.com/wikirank/wikirank/pkg/errors"
	"github.com/wikirank/wikirank/pkg/logger"
	"github.com/wikirank/wikirank/pkg/metrics"
)

// Ranker is the pipeline surface the handler needs.
type Ranker interface {
	Rank(ctx context.Context, query string, k int) (*ranking.Result, error)
}

// Handler serves the search API.
type Handler struct {
	ranker    Ranker
	cache     *QueryCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	cfg       config.RankingConfig
	logger    *slog.Logger
}

// NewHandler creates a Handler. cache, collector, and m may be nil; the
// corresponding features are then disabled.
func NewHandler(r Ranker, cache *QueryCache, collector *analytics.Collector, m *metrics.Metrics, cfg config.RankingConfig) *Handler {
	return &Handler{
		ranker:    r,
		cache:     cache,
		collector: collector,
		metrics:   m,
		cfg:       cfg,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /api/v1/search?q=...&k=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	k := h.cfg.DefaultK
	if kStr := r.URL.Query().Get("k"); kStr != "" {
		parsed, err := strconv.Atoi(kStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		if parsed > h.cfg.MaxK {
			parsed = h.cfg.MaxK
		}
		k = parsed
	}

	var result *ranking.Result
	var err error
	cacheHit := false
	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, query, k, h.cfg.Scheme, func() (*ranking.Result, error) {
			return h.ranker.Rank(ctx, query, k)
		})
	} else {
		result, err = h.ranker.Rank(ctx, query, k)
	}
	if err != nil {
		log.Error("ranking failed", "query", query, "error", err)
		h.recordQuery("error", cacheHit, start)
		h.writeError(w, apperrors.HTTPStatusCode(err), "search failed")
		return
	}

	latencyMs := time.Since(start).Milliseconds()
	resultType := "hit"
	if len(result.Results) == 0 {
		resultType = "zero_result"
	}
	h.recordQuery(resultType, cacheHit, start)
	if h.metrics != nil {
		h.metrics.CandidateSetSize.Observe(float64(result.Candidates))
		if result.AuthorityFallback {
			h.metrics.AuthorityFallbackTotal.Inc()
		}
	}

	log.Info("search completed",
		"query", query,
		"scheme", result.Scheme,
		"candidates", result.Candidates,
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"authority_fallback", result.AuthorityFallback,
		"latency_ms", latencyMs,
	)

	if h.collector != nil {
		h.collector.Track(analytics.QueryEvent{
			Query:             query,
			Scheme:            result.Scheme,
			Terms:             result.Terms,
			Candidates:        result.Candidates,
			Returned:          len(result.Results),
			CacheHit:          cacheHit,
			AuthorityFallback: result.AuthorityFallback,
			LatencyMs:         latencyMs,
			Timestamp:         time.Now().UTC(),
			RequestID:         logger.RequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, result)
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) recordQuery(resultType string, cacheHit bool, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.QueriesTotal.WithLabelValues(h.cfg.Scheme, resultType).Inc()
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.RankingLatency.WithLabelValues(h.cfg.Scheme, cacheStatus).Observe(time.Since(start).Seconds())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
