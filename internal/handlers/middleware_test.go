package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fermentation_dashboard/internal/logger"
	"fermentation_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

func TestRequestLogger_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, log := range []*logger.Logger{nil, logger.Nop()} {
		h := NewHandler(&service.Service{}, log)
		r := gin.New()
		r.Use(h.requestLogger)
		r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

		for path, code := range map[string]int{"/ok": http.StatusNoContent, "/fail": http.StatusInternalServerError} {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			if w.Code != code {
				t.Fatalf("%s: status=%d want %d", path, w.Code, code)
			}
		}
	}
}
