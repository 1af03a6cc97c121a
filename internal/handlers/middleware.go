package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// requestLogger logs one line per request at debug level, errors at warn.
func (h *Handler) requestLogger(c *gin.Context) {
	if h.log == nil {
		c.Next()
		return
	}

	start := time.Now()
	c.Next()

	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	}
	if c.Writer.Status() >= 500 {
		h.log.Warnw("http_request", fields...)
		return
	}
	h.log.Debugw("http_request", fields...)
}
