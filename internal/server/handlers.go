package server

import (
	"embed"
	"fmt"
	"net/http"
	"time"

	"imagerelay/internal/core"
	"imagerelay/internal/metrics"

	"github.com/gin-gonic/gin"
)

// IndexPageHTML holds the embedded browser client.
//
//go:embed static/index.html
var IndexPageHTML embed.FS

func showIndexPage(c *gin.Context) {
	data, err := IndexPageHTML.ReadFile("static/index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load page")
		return
	}
	c.Data(http.StatusOK, core.ContentTypeHTML, data)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    core.HealthStatusOK,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"hasApiKey": s.config.HasAPIKey(),
	})
}

func (s *Server) listModels(c *gin.Context) {
	c.JSON(http.StatusOK, s.registry.ModelList())
}

func (s *Server) getStatsData(c *gin.Context) {
	stats := s.metricsService.GetRequestStats()
	periodStats := metrics.GetPeriodStats(stats.RequestHistory, 24, 24*7, 24*30)
	currentQPS := s.metricsService.GetQPS()

	var avgResponseTime int64
	if stats.TotalRequests > 0 {
		avgResponseTime = stats.TotalResponseTime / stats.TotalRequests
	}

	lastRequest := ""
	if !stats.LastRequestTime.IsZero() {
		lastRequest = stats.LastRequestTime.Format(core.TimeFormatDateTime)
	}

	c.JSON(http.StatusOK, gin.H{
		"currentTime":        time.Now().Format(core.TimeFormatDateTime),
		"uptime":             time.Since(s.startTime).Round(time.Second).String(),
		"currentQPS":         fmt.Sprintf("%.3f", currentQPS),
		"totalRequests":      stats.TotalRequests,
		"successfulRequests": stats.SuccessfulRequests,
		"failedRequests":     stats.FailedRequests,
		"avgResponseTime":    avgResponseTime,
		"lastRequestTime":    lastRequest,
		"totalRecords":       len(stats.RequestHistory),
		"stats24h":           periodStats[24],
		"stats7d":            periodStats[24*7],
		"stats30d":           periodStats[24*30],
		"models":             metrics.ModelBreakdown(stats.RequestHistory),
	})
}
