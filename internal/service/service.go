package service

import (
	"context"
	"html/template"
	"time"

	"fermentation_dashboard/internal/chart"
	"fermentation_dashboard/internal/logger"
	"fermentation_dashboard/internal/models"
	"fermentation_dashboard/internal/repository"
)

// Fetcher is the fermentation backend API. *client.Client implements it.
type Fetcher interface {
	GetCurrentStatus(ctx context.Context) (models.StatusSnapshot, error)
	GetSensorData(ctx context.Context, hours int) ([]models.TimeSeriesPoint, error)
	GetImageMetrics(ctx context.Context, hours int) ([]models.TimeSeriesPoint, error)
	ListSessions(ctx context.Context) ([]models.Session, error)
	CreateSession(ctx context.Context, in models.CreateSessionRequest) (models.CreateSessionResponse, error)
}

// Dashboard exposes the widgets and their update pipelines.
type Dashboard interface {
	UpdateStatus(ctx context.Context) error
	UpdatePrimaryChart(ctx context.Context) error
	UpdateSecondaryChart(ctx context.Context) error
	UpdateSessions(ctx context.Context) error

	Snapshot() DashboardView
	StatusText() map[string]string
	SessionsHTML() template.HTML
	Chart(id string) (chart.Chart, bool)

	Subscribe() <-chan string
	Unsubscribe(ch <-chan string)
	Restore(ctx context.Context) error
}

// Sessions creates fermentation sessions.
type Sessions interface {
	Create(ctx context.Context, form SessionForm, alert Alerter) error
}

// Refresher runs the periodic refresh loop. Stop it by cancelling ctx.
type Refresher interface {
	Run(ctx context.Context, period time.Duration)
	RefreshPass(ctx context.Context) *Pass
	State() RefreshState
}

// EventLog exposes the dashboard activity log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.DashboardEvent, error)
}

// Service aggregates all sub-services.
type Service struct {
	Dashboard
	Sessions
	Refresher
	EventLog
}

// NewService wires the backend client and the repositories into the
// concrete services. repos may be nil when nothing is persisted.
func NewService(opts DashboardOptions, fetcher Fetcher, repos *repository.Repository, log *logger.Logger) (*Service, error) {
	var (
		widgets   repository.WidgetRepo
		eventRepo repository.EventRepo
	)
	if repos != nil {
		widgets, eventRepo = repos.WidgetRepo, repos.EventRepo
	}

	var events *EventLogService
	if eventRepo != nil {
		events = NewEventLogService(eventRepo, log)
	}

	dash, err := NewDashboardService(opts, fetcher, widgets, events, log)
	if err != nil {
		return nil, err
	}

	svc := &Service{
		Dashboard: dash,
		Sessions:  NewSessionService(fetcher, dash.UpdateSessions, events, log),
		Refresher: NewRefreshService(dash, log),
	}
	if events != nil {
		svc.EventLog = events
	}
	return svc, nil
}
