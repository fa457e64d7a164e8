package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(buf *bytes.Buffer) *gin.Engine {
		logger := slog.New(slog.NewJSONHandler(buf, nil))
		router := gin.New()
		router.Use(Logger(logger))
		router.Use(CorrelationID())
		router.GET("/bills", func(c *gin.Context) {
			c.Set(consumerIDKey, int64(10))
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("LogsRequestWithConsumerID", func(t *testing.T) {
		var buf bytes.Buffer
		router := newRouter(&buf)

		req, _ := http.NewRequest(http.MethodGet, "/bills?limit=5", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "HTTP request", line["msg"])
		assert.Equal(t, http.MethodGet, line["method"])
		assert.Equal(t, "/bills?limit=5", line["path"])
		assert.Equal(t, float64(http.StatusOK), line["status"])
		assert.Equal(t, float64(10), line["consumer_id"])
		assert.NotEmpty(t, line["correlation_id"])
	})

	t.Run("OmitsConsumerIDOnUnauthenticatedRoute", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		router := gin.New()
		router.Use(Logger(logger))
		router.GET("/health", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req, _ := http.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		_, hasConsumer := line["consumer_id"]
		assert.False(t, hasConsumer)
		_, hasCorrelation := line["correlation_id"]
		assert.False(t, hasCorrelation)
	})
}
