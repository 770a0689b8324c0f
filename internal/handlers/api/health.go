package api

import (
	"github.com/gofiber/fiber/v3"

	"pokesearch/internal/jobs"
	"pokesearch/internal/query"
)

// StatusSource reports the last upstream probe.
type StatusSource interface {
	Status() jobs.UpstreamStatus
}

// StatsSource reports lookup cache statistics.
type StatsSource interface {
	Stats() query.Stats
}

// HealthHandler reports upstream and cache health.
type HealthHandler struct {
	upstream StatusSource
	cache    StatsSource
}

// NewHealthHandler creates a new API health handler. upstream may be nil
// when probing is disabled.
func NewHealthHandler(upstream StatusSource, cache StatsSource) *HealthHandler {
	return &HealthHandler{upstream: upstream, cache: cache}
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Upstream *jobs.UpstreamStatus `json:"upstream,omitempty"`
	Cache    CacheStats           `json:"cache"`
}

// CacheStats is the JSON form of query.Stats.
type CacheStats struct {
	Loading  int    `json:"loading"`
	Resolved int    `json:"resolved"`
	Failed   int    `json:"failed"`
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
}

// Check returns the current health snapshot. It responds 503 when the last
// upstream probe failed.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	s := h.cache.Stats()
	resp := HealthResponse{
		Cache: CacheStats{
			Loading:  s.Loading,
			Resolved: s.Resolved,
			Failed:   s.Failed,
			Hits:     s.Hits,
			Misses:   s.Misses,
		},
	}

	if h.upstream != nil {
		status := h.upstream.Status()
		resp.Upstream = &status
		if status.CheckedAt != nil && !status.Healthy {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "error",
				"error":  "upstream unavailable: " + status.Error,
				"data":   resp,
			})
		}
	}

	return jsonSuccess(c, resp)
}
