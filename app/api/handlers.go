package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kikao/newsfeed/app/cfg"
	"github.com/kikao/newsfeed/app/database"
	"github.com/kikao/newsfeed/app/feed"
	"github.com/kikao/newsfeed/app/sources"
)

func NewHandler(registry *sources.Registry, articleRepo database.ArticleRepository,
	categoryRepo database.CategoryRepository, sourceRepo database.SourceRepository,
	ingester IngesterInterface) *Handler {
	return &Handler{
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
		sourceRepo:   sourceRepo,
		registry:     registry,
		generator:    feed.NewGenerator(),
		ingester:     ingester,
	}
}

// TriggerIngest runs one full ingestion cycle and returns its summary.
// Per-source failures are reported inside the summary; only a setup
// failure produces a 500.
func (h *Handler) TriggerIngest(c *gin.Context) {
	summary, err := h.ingester.Run(c.Request.Context())
	if err != nil {
		slog.Error("Ingestion cycle failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetFeed serves the RSS 2.0 document of recent published articles,
// optionally narrowed by the category query parameter.
func (h *Handler) GetFeed(c *gin.Context) {
	var category *database.Category
	categorySlug := c.Query("category")
	if categorySlug != "" {
		found, err := h.categoryRepo.GetBySlug(categorySlug)
		if err != nil {
			slog.Error("Database error", "operation", "get_category", "category", categorySlug, "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		if found == nil {
			c.Status(http.StatusNotFound)
			return
		}
		category = found
	}

	articles, err := h.articleRepo.GetPublished(categorySlug, cfg.Get().FeedLimit)
	if err != nil {
		slog.Error("Database error", "operation", "get_published", "category", categorySlug, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(category, articles)
	if err != nil {
		slog.Error("RSS generation error", "category", categorySlug, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(articles)))

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetCount(); err == nil {
		health["sources"] = sourceCount
	}

	health["loaded_configurations"] = h.registry.Count()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	total, published, pending, err := h.articleRepo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": gin.H{
			"total":     total,
			"published": published,
			"pending":   pending,
		},
		"sources": len(h.registry.Active()),
	})
}

// RecordView increments the view counter for one article. The front
// end calls this once per page view; a missing slug is not an error
// worth surfacing to the client.
func (h *Handler) RecordView(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing article slug"})
		return
	}

	if err := h.articleRepo.IncrementViewCount(slug); err != nil {
		slog.Error("Database error", "operation", "increment_view_count", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) APIListArticles(c *gin.Context) {
	limit := cfg.Get().FeedLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	articles, err := h.articleRepo.GetRecent(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	list := make([]map[string]interface{}, 0, len(articles))
	for _, a := range articles {
		list = append(list, map[string]interface{}{
			"id":           a.ID,
			"title":        a.Title,
			"slug":         a.Slug,
			"category":     a.CategorySlug,
			"status":       a.Status,
			"author":       a.Author,
			"is_featured":  a.IsFeatured,
			"published_at": a.PublishedAt,
			"view_count":   a.ViewCount,
			"source_url":   a.SourceURL,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": list,
		"total":    len(list),
	})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) APISetArticleStatus(c *gin.Context) {
	id := c.Param("id")

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing status field"})
		return
	}

	switch req.Status {
	case database.StatusDraft, database.StatusPending, database.StatusPublished, database.StatusArchived:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	if err := h.articleRepo.UpdateStatus(id, req.Status); err != nil {
		slog.Error("Database error", "operation", "update_status", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": id, "status": req.Status})
}

type featureRequest struct {
	Featured *bool `json:"featured" binding:"required"`
}

func (h *Handler) APISetArticleFeatured(c *gin.Context) {
	id := c.Param("id")

	var req featureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing featured field"})
		return
	}

	if err := h.articleRepo.SetFeatured(id, *req.Featured); err != nil {
		slog.Error("Database error", "operation", "set_featured", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": id, "featured": *req.Featured})
}

func (h *Handler) APIListSources(c *gin.Context) {
	configured := h.registry.All()

	records := make(map[string]database.FeedSource)
	if stored, err := h.sourceRepo.GetAll(); err == nil {
		for _, record := range stored {
			records[record.Name] = record
		}
	}

	list := make([]map[string]interface{}, 0, len(configured))
	for _, source := range configured {
		info := map[string]interface{}{
			"name":             source.Name,
			"display_name":     source.Author(),
			"url":              source.URL,
			"enabled":          source.Settings.Enabled,
			"category_hint":    source.Settings.CategoryHint,
			"today_only":       source.Settings.TodayOnly,
			"extract_content":  source.Settings.ExtractContent,
			"refresh_interval": (time.Duration(source.Settings.RefreshInterval) * time.Second).String(),
		}
		if record, ok := records[source.Name]; ok {
			info["last_fetched_at"] = record.LastFetchedAt
		}
		list = append(list, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": list,
		"total":   len(list),
	})
}
