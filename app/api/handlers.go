package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"newsriver/app/database"
	"newsriver/app/tasks"
)

func NewHandler(publisherRepo database.PublisherRepository, sourceRepo database.SourceRepository,
	articleRepo database.ArticleRepository, importRunner ImportRunner,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		publisherRepo: publisherRepo,
		sourceRepo:    sourceRepo,
		articleRepo:   articleRepo,
		importRunner:  importRunner,
		scheduler:     scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if publisherCount, err := h.publisherRepo.GetPublisherCount(); err == nil {
		health["publishers"] = publisherCount
	}
	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}
	if articleCount, err := h.articleRepo.GetArticleCount(); err == nil {
		health["articles"] = articleCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{}

	publisherCount, err := h.publisherRepo.GetPublisherCount()
	if err != nil {
		slog.Error("Database error", "operation", "get_publisher_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	stats["publishers"] = publisherCount

	sourceCount, err := h.sourceRepo.GetSourceCount()
	if err != nil {
		slog.Error("Database error", "operation", "get_source_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	stats["sources"] = sourceCount

	if countsByType, err := h.sourceRepo.GetSourceCountByType(); err == nil {
		byType := make(map[string]int, len(countsByType))
		for sourceType, count := range countsByType {
			byType[string(sourceType)] = count
		}
		stats["sources_by_type"] = byType
	}

	if articleCount, err := h.articleRepo.GetArticleCount(); err == nil {
		stats["articles"] = articleCount
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListPublishers(c *gin.Context) {
	publishers, err := h.publisherRepo.GetAll()
	if err != nil {
		slog.Error("Database error", "operation", "list_publishers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	list := make([]map[string]interface{}, 0, len(publishers))
	for _, publisher := range publishers {
		list = append(list, map[string]interface{}{
			"id":         publisher.ID,
			"name":       publisher.Name,
			"slug":       publisher.Slug,
			"created_at": publisher.CreatedAt,
			"updated_at": publisher.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"publishers": list,
		"total":      len(list),
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	sources, err := h.sourceRepo.GetAll()
	if err != nil {
		slog.Error("Database error", "operation", "list_sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	list := make([]map[string]interface{}, 0, len(sources))
	for _, source := range sources {
		list = append(list, map[string]interface{}{
			"id":             source.ID,
			"publisher_id":   source.PublisherID,
			"url":            source.URL,
			"type":           string(source.Type),
			"tracked":        source.Tracked,
			"last_synced_at": source.LastSyncedAt,
			"next_sync_at":   source.NextSyncAt,
			"created_at":     source.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": list,
		"total":   len(list),
	})
}

// APISyncSource enqueues an immediate sync for one source.
func (h *Handler) APISyncSource(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source id"})
		return
	}

	source, err := h.sourceRepo.GetByID(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_source", "source_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if source == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	if err := h.scheduler.EnqueueSourceSync(*source, 0); err != nil {
		slog.Error("Error enqueueing source sync", "source", source.URL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue sync",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"source": gin.H{
			"id":   source.ID,
			"url":  source.URL,
			"type": string(source.Type),
		},
	})
}

// APITriggerImport runs one import over the configured OPML directory
// and reports the per-outcome counts. Force mode reassigns sources that
// moved between publishers.
func (h *Handler) APITriggerImport(c *gin.Context) {
	force := c.Query("force") == "true"

	stats, err := h.importRunner.Run(c.Request.Context(), force)
	if err != nil {
		slog.Error("Import run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Import failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"force":   force,
		"stats": gin.H{
			"files":       stats.Files,
			"file_errors": stats.FileErrors,
			"processed":   stats.Processed,
			"duplicate":   stats.Duplicate,
			"skipped":     stats.Skipped,
		},
	})
}
