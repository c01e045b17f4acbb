package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/commentlens/internal/analysis"
	"github.com/spacesedan/commentlens/internal/models"
)

type Analyzer interface {
	RunAnalysis(ctx context.Context, videoID string) (models.AnalysisReport, error)
}

type Handler struct {
	analyzer Analyzer
	// completionHealthy is nil when no completion service is configured.
	completionHealthy *atomic.Bool
}

func NewHandler(analyzer Analyzer, completionHealthy *atomic.Bool) *Handler {
	return &Handler{analyzer: analyzer, completionHealthy: completionHealthy}
}

type analyzeRequest struct {
	URL     string `json:"url"`
	VideoID string `json:"videoId"`
}

func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input := req.URL
	if input == "" {
		input = req.VideoID
	}
	if input == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No URL or video ID provided"})
		return
	}

	h.respond(c, input)
}

func (h *Handler) Results(c *gin.Context) {
	videoID := c.Query("videoId")
	if videoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No video ID provided"})
		return
	}

	h.respond(c, videoID)
}

func (h *Handler) respond(c *gin.Context, input string) {
	videoID, err := analysis.ExtractVideoID(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid YouTube URL or video ID"})
		return
	}

	report, err := h.analyzer.RunAnalysis(c.Request.Context(), videoID)
	switch {
	case errors.Is(err, analysis.ErrVideoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	case errors.Is(err, analysis.ErrQuotaExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":            "YouTube API quota exceeded. Please try again later.",
			"apiQuotaExceeded": true,
		})
		return
	case err != nil:
		slog.Error("[API] Error processing request",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process video"})
		return
	}

	if report.APIQuotaExceeded {
		c.Header(QuotaExceededHeader, "true")
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Health(c *gin.Context) {
	completion := "not_configured"
	if h.completionHealthy != nil {
		completion = "unhealthy"
		if h.completionHealthy.Load() {
			completion = "healthy"
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "commentlens",
		"completion": completion,
	})
}
