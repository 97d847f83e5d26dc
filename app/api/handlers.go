package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tubescout/app/cache"
	"tubescout/app/database"
	"tubescout/app/scrape"
)

func NewHandler(searcher Searcher, searchRepo database.SearchRepository,
	store cache.Store, selectorVersion int) *Handler {
	return &Handler{
		searcher:        searcher,
		searchRepo:      searchRepo,
		store:           store,
		selectorVersion: selectorVersion,
	}
}

func (h *Handler) SearchVideos(c *gin.Context) {
	var req VideoSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	if req.Keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword is required."})
		return
	}

	query := scrape.Query{
		Keyword:     req.Keyword,
		MaxResults:  req.MaxVideos,
		MinDuration: req.MinDuration,
		MaxDuration: req.MaxDuration,
		DateFilter:  req.DateFilter,
	}.WithDefaults()

	start := time.Now()
	envelope := h.searcher.SearchVideos(c.Request.Context(), query)
	h.recordRun(scrape.SourceYouTube, query, envelope.Success, envelope.FromCache,
		envelope.Total, envelope.Error, time.Since(start))

	if !envelope.Success {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "YouTube search failed.",
			"details": envelope.Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Search completed successfully!",
		"total":     envelope.Total,
		"query":     envelope.Query,
		"videos":    envelope.Data,
		"fromCache": envelope.FromCache,
		"timestamp": envelope.Timestamp,
	})
}

func (h *Handler) SearchPosts(c *gin.Context) {
	var req PostSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	if req.Hashtag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hashtag is required."})
		return
	}

	query := scrape.Query{Keyword: req.Hashtag, MaxResults: req.MaxPosts}.WithDefaults()

	start := time.Now()
	envelope := h.searcher.SearchPosts(c.Request.Context(), query)
	h.recordRun(scrape.SourceInstagram, query, envelope.Success, envelope.FromCache,
		envelope.Total, envelope.Error, time.Since(start))

	if !envelope.Success {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Instagram search failed.",
			"details": envelope.Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Search completed successfully!",
		"total":     envelope.Total,
		"query":     envelope.Query,
		"posts":     envelope.Data,
		"fromCache": envelope.FromCache,
		"timestamp": envelope.Timestamp,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp":        time.Now().In(time.Local).Format(time.RFC3339),
		"selector_version": h.selectorVersion,
		"cache":            h.store.Health(),
	}

	if counts, err := h.searchRepo.Counts(); err == nil {
		total := int64(0)
		for _, sc := range counts {
			total += sc.Runs
		}
		health["recorded_searches"] = total
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	counts, err := h.searchRepo.Counts()
	if err != nil {
		slog.Error("Database error", "operation", "counts", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	stats := make([]gin.H, 0, len(counts))
	for _, sc := range counts {
		stats = append(stats, gin.H{
			"source":     sc.Source,
			"runs":       sc.Runs,
			"succeeded":  sc.Succeeded,
			"cache_hits": sc.CacheHits,
		})
	}

	c.JSON(http.StatusOK, gin.H{"sources": stats})
}

func (h *Handler) APIGetHistory(c *gin.Context) {
	searches, err := h.searchRepo.Recent(50)
	if err != nil {
		slog.Error("Database error", "operation", "recent", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	history := make([]gin.H, 0, len(searches))
	for _, s := range searches {
		entry := gin.H{
			"source":      s.Source,
			"keyword":     s.Keyword,
			"max_results": s.MaxResults,
			"total":       s.Total,
			"success":     s.Success,
			"from_cache":  s.FromCache,
			"duration_ms": s.DurationMs,
			"created_at":  s.CreatedAt.Format(time.RFC3339),
		}
		if s.Error != "" {
			entry["error"] = s.Error
		}
		history = append(history, entry)
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// recordRun persists the run outcome. History is best-effort; a write
// failure never affects the response.
func (h *Handler) recordRun(source string, query scrape.Query, success, fromCache bool,
	total int, errMsg string, duration time.Duration) {
	err := h.searchRepo.Record(database.Search{
		Source:     source,
		Keyword:    query.Keyword,
		MaxResults: query.MaxResults,
		Total:      total,
		Success:    success,
		FromCache:  fromCache,
		DurationMs: duration.Milliseconds(),
		Error:      errMsg,
	})
	if err != nil {
		slog.Warn("Failed to record search history", "source", source, "error", err)
	}
}
