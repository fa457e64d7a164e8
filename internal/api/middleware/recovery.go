package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic anywhere below it into a logged 500 instead of a
// dropped connection. Rendering is delegated to the respond callback so the
// panic path answers with the same response envelope as every handler; the
// router passes the shared internal-error responder here.
func Recovery(logger *slog.Logger, respond func(c *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered",
					"error", r,
					"stack", string(debug.Stack()),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"correlation_id", GetCorrelationID(c),
					"consumer_id", ConsumerID(c),
				)

				respond(c)
				c.Abort()
			}
		}()

		c.Next()
	}
}
