package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fermentation_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errRangeInvalid = "'from' must be <= 'to'"
	errLimitInvalid = "'limit' must be a positive integer"
	errLogsOff      = "event log is not enabled"
	errLogsLoad     = "failed to load logs"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List dashboard events
// @Description  Newest events matching the filter, oldest first. A date-only 'to' covers the whole day.
// @Tags         logs
// @Produce      json
// @Param        from   query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        to     query   string  false  "End of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-31)
// @Param        type   query   string  false  "Event type"  Enums(FETCH_ERROR,SESSION_CREATED,SESSION_REJECTED)
// @Param        limit  query   int     false  "Newest N events (max 1000)"  default(200)
// @Success      200    {object}  map[string]interface{}  "count, events"
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Failure      503    {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	if h.services.EventLog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errLogsOff})
		return
	}

	f, msg := parseLogFilter(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLogsLoad, "logs_list_failed", err,
			"from", f.From, "to", f.To, "type", f.Type, "limit", f.Limit)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// parseLogFilter reads from/to/type/limit. A non-empty message means the
// query is invalid.
func parseLogFilter(c *gin.Context) (service.LogFilter, string) {
	var (
		f   = service.LogFilter{Type: strings.ToUpper(strings.TrimSpace(c.Query("type")))}
		err error
	)
	if qs := c.Query("from"); qs != "" {
		if f.From, err = parseQueryTime(qs); err != nil {
			return f, errFromInvalid
		}
	}
	if qs := c.Query("to"); qs != "" {
		if f.To, err = parseQueryTime(qs); err != nil {
			return f, errToInvalid
		}
		if isDateOnly(qs) {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, errRangeInvalid
	}
	if qs := c.Query("limit"); qs != "" {
		n, err := strconv.Atoi(qs)
		if err != nil || n < 1 {
			return f, errLimitInvalid
		}
		f.Limit = n
	}
	return f, ""
}

// parseQueryTime accepts RFC3339, "YYYY-MM-DD HH:MM:SS" and "YYYY-MM-DD", in UTC.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
