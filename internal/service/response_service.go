package service

import (
	"html/template"
	"time"

	"fermentation_dashboard/internal/models"
)

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "FETCH_ERROR", "SESSION_CREATED", "SESSION_REJECTED"
	// Limit caps the result to the newest events; 0 means DefaultLogLimit.
	Limit int
}

// DashboardView is everything a page needs to draw the dashboard.
type DashboardView struct {
	View         string            `json:"view"`
	StatusIDs    []string          `json:"status_ids"` // display order
	Status       map[string]string `json:"status"`     // element id -> display text
	ChartIDs     []string          `json:"chart_ids"`
	Charts       map[string]any    `json:"charts"`
	SessionsHTML template.HTML     `json:"sessions_html"`
	Sessions     []models.Session  `json:"sessions"`
	LastRefresh  time.Time         `json:"last_refresh"`
	Revision     uint64            `json:"revision"`
}

// SessionForm is the new-session dialog as seen by the creator.
type SessionForm interface {
	Name() string
	Notes() string
	// Reset clears both fields.
	Reset()
	// Dismiss closes the dialog.
	Dismiss()
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(msg string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(msg string)

func (f AlertFunc) Alert(msg string) { f(msg) }
