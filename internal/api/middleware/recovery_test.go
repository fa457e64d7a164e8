package middleware_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chihiro-bmp/CitySync/internal/api/handler"
	"github.com/Chihiro-bmp/CitySync/internal/api/middleware"
)

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(middleware.Recovery(logger, handler.RespondInternalError))
		router.Use(middleware.CorrelationID())
		router.GET("/panic", func(c *gin.Context) {
			panic("boom")
		})
		router.GET("/ok", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("PanicAnswersWithSharedEnvelope", func(t *testing.T) {
		router := newRouter()

		providedID := uuid.New().String()
		req, _ := http.NewRequest(http.MethodGet, "/panic", nil)
		req.Header.Set(middleware.CorrelationIDHeader, providedID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)

		var response handler.Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		require.NotNil(t, response.Error)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", response.Error.Code)
		assert.Equal(t, "An internal server error occurred", response.Error.Message)
		assert.Equal(t, providedID, response.CorrelationID)
		assert.Nil(t, response.Data)
	})

	t.Run("NonPanickingRequestPassesThrough", func(t *testing.T) {
		router := newRouter()

		req, _ := http.NewRequest(http.MethodGet, "/ok", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
