package server

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"imagerelay/internal/core"
	"imagerelay/internal/metrics"
	"imagerelay/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const unmatchedRoute = "unmatched"

func (s *Server) maxBodySizeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, core.MaxRequestBodySize)
		}
		c.Next()
	}
}

// corsMiddleware allows the configured origins. "*" allows any origin;
// otherwise a listed request Origin is echoed back.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	allowAny := len(s.config.CORSAllowOrigins) == 0 || slices.Contains(s.config.CORSAllowOrigins, "*")

	return func(c *gin.Context) {
		if allowAny {
			c.Header("Access-Control-Allow-Origin", "*")
		} else {
			c.Header("Vary", "Origin")
			if origin := c.GetHeader("Origin"); origin != "" && slices.Contains(s.config.CORSAllowOrigins, origin) {
				c.Header("Access-Control-Allow-Origin", origin)
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", core.HeaderRequestID)
		c.Header("Access-Control-Max-Age", core.CORSMaxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestIDMiddleware reuses a well-formed incoming X-Request-ID or mints one.
func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(core.HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = util.NewRequestID()
		}

		c.Header(core.HeaderRequestID, id)
		c.Set(core.ContextKeyRequest, id)
		c.Request = c.Request.WithContext(core.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func (s *Server) requestLoggingMiddleware() gin.HandlerFunc {
	logger := s.config.Logger
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		logf := logger.Info
		switch {
		case status >= http.StatusInternalServerError:
			logf = logger.Error
		case status >= http.StatusBadRequest:
			logf = logger.Warn
		}
		logf(core.RequestIDLogFormat+"%s %s %d %v", c.GetString(core.ContextKeyRequest),
			c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}

// metricsMiddleware counts requests by route template so ids in paths do
// not explode label cardinality.
func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
