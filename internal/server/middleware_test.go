package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"imagerelay/internal/config"
	"imagerelay/internal/core"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServerForMiddleware(allowOrigins ...string) *Server {
	gin.SetMode(gin.TestMode)
	return &Server{
		config: config.ServerConfig{
			CORSAllowOrigins: allowOrigins,
			Logger:           &core.NopLogger{},
		},
	}
}

func TestCorsMiddleware_SetsHeaders(t *testing.T) {
	s := newTestServerForMiddleware("*")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	s.corsMiddleware()(c)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, core.CORSMaxAge, w.Header().Get("Access-Control-Max-Age"))
	assert.False(t, c.IsAborted())
}

func TestCorsMiddleware_DefaultOrigin(t *testing.T) {
	s := newTestServerForMiddleware()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	s.corsMiddleware()(c)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsMiddleware_OriginList(t *testing.T) {
	s := newTestServerForMiddleware("https://a.example", "https://b.example")
	handler := s.corsMiddleware()

	tests := []struct {
		origin string
		want   string
	}{
		{"https://b.example", "https://b.example"},
		{"https://evil.example", ""},
		{"", ""},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.origin != "" {
			c.Request.Header.Set("Origin", tt.origin)
		}

		handler(c)

		assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"), "origin %q", tt.origin)
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	}
}

func TestCorsMiddleware_Preflight(t *testing.T) {
	s := newTestServerForMiddleware("*")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodOptions, "/api/generate", nil)

	s.corsMiddleware()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
}

func TestRequestIDMiddleware(t *testing.T) {
	s := newTestServerForMiddleware("*")
	router := gin.New()
	router.Use(s.requestIDMiddleware())

	var seenInContext, seenInGin string
	router.GET("/", func(c *gin.Context) {
		seenInContext = core.RequestIDFrom(c.Request.Context())
		seenInGin = c.GetString(core.ContextKeyRequest)
		c.Status(http.StatusOK)
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(core.HeaderRequestID)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, seenInContext)
		assert.Equal(t, id, seenInGin)
	})

	t.Run("reuses valid incoming id", func(t *testing.T) {
		incoming := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(core.HeaderRequestID, incoming)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, incoming, w.Header().Get(core.HeaderRequestID))
		assert.Equal(t, incoming, seenInContext)
	})

	t.Run("replaces malformed incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(core.HeaderRequestID, "<script>")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		id := w.Header().Get(core.HeaderRequestID)
		assert.NotEqual(t, "<script>", id)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})
}

func TestRequestIDSurvivesDetachedContext(t *testing.T) {
	ctx, cancel := context.WithCancel(core.WithRequestID(context.Background(), "abc"))
	detached := context.WithoutCancel(ctx)
	cancel()

	assert.NoError(t, detached.Err())
	assert.Equal(t, "abc", core.RequestIDFrom(detached))
}

func TestMaxBodySizeMiddleware(t *testing.T) {
	s := newTestServerForMiddleware("*")
	router := gin.New()
	router.Use(s.maxBodySizeMiddleware())

	var readErr error
	router.POST("/", func(c *gin.Context) {
		buf := make([]byte, core.MaxRequestBodySize+10)
		total := 0
		for {
			n, err := c.Request.Body.Read(buf[total:])
			total += n
			if err != nil {
				readErr = err
				break
			}
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", core.MaxRequestBodySize+1))))

	var maxBytesErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxBytesErr)
}

type capturingLogger struct {
	core.NopLogger
	infos  []string
	warns  []string
	errors []string
}

func (l *capturingLogger) Info(format string, args ...any)  { l.infos = append(l.infos, format) }
func (l *capturingLogger) Warn(format string, args ...any)  { l.warns = append(l.warns, format) }
func (l *capturingLogger) Error(format string, args ...any) { l.errors = append(l.errors, format) }

func TestRequestLoggingMiddleware_LevelByStatus(t *testing.T) {
	logger := &capturingLogger{}
	s := &Server{config: config.ServerConfig{Logger: logger}}
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(s.requestLoggingMiddleware())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	for _, path := range []string{"/ok", "/bad", "/boom"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Len(t, logger.infos, 1)
	assert.Len(t, logger.warns, 1)
	assert.Len(t, logger.errors, 1)
}
