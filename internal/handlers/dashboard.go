package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"fermentation_dashboard/internal/chart"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK         = "ok"
	statusRefreshing = "refreshing"

	errChartNotFound = "chart not found"
	errChartNoData   = "chart has no data yet"
	errChartRender   = "failed to render chart"
	errInvalidSize   = "width and height must be integers between 100 and 2000"

	minImageSide = 100
	maxImageSide = 2000
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Dashboard
// @Description  Status texts by element id, chart data, session list fragment.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.DashboardView
// @Router       /api/v1/dashboard [get]
func (h *Handler) getDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Dashboard.Snapshot())
}

// @Summary      Current status
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  map[string]string  "element id -> text"
// @Router       /api/v1/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Dashboard.StatusText())
}

// @Summary      Refresh now
// @Description  Dispatches one refresh pass without waiting for it.
// @Tags         dashboard
// @Produce      json
// @Success      202  {object}  map[string]string
// @Router       /api/v1/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	// the pass outlives the request
	h.services.Refresher.RefreshPass(context.WithoutCancel(c.Request.Context()))
	c.JSON(http.StatusAccepted, gin.H{"status": statusRefreshing})
}

// @Summary      Chart data
// @Tags         charts
// @Produce      json
// @Param        id   path      string  true  "Chart id"  Enums(sessionChart,fermentationChart,sizeChart)
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/charts/{id} [get]
func (h *Handler) getChart(c *gin.Context) {
	ch, ok := h.services.Dashboard.Chart(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errChartNotFound})
		return
	}
	c.JSON(http.StatusOK, ch.View())
}

// @Summary      Chart image
// @Tags         charts
// @Produce      png
// @Param        id      path   string  true   "Chart id"  Enums(sessionChart,fermentationChart,sizeChart)
// @Param        width   query  int     false  "Image width (100-2000)"   default(800)
// @Param        height  query  int     false  "Image height (100-2000)"  default(320)
// @Success      200
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/charts/{id}/png [get]
func (h *Handler) getChartPNG(c *gin.Context) {
	id := c.Param("id")
	ch, ok := h.services.Dashboard.Chart(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errChartNotFound})
		return
	}

	width, err := parseImageSide(c.Query("width"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidSize})
		return
	}
	height, err := parseImageSide(c.Query("height"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidSize})
		return
	}

	var buf bytes.Buffer
	if err := ch.RenderPNG(&buf, width, height); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": errChartNoData})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errChartRender, "chart_render_failed", err, "chart", id)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// parseImageSide returns 0 (the chart default) for an empty value.
func parseImageSide(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < minImageSide || v > maxImageSide {
		return 0, errors.New("out of range")
	}
	return v, nil
}
