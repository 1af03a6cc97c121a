package handlers

import (
	"context"
	"html/template"
	"sync"
	"time"

	"fermentation_dashboard/internal/chart"
	"fermentation_dashboard/internal/models"
	"fermentation_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockDashboard struct {
	mu     sync.Mutex
	view   service.DashboardView
	status map[string]string
	html   template.HTML
	charts map[string]chart.Chart

	subs         []chan string
	unsubscribed int
}

func (m *mockDashboard) UpdateStatus(ctx context.Context) error         { return nil }
func (m *mockDashboard) UpdatePrimaryChart(ctx context.Context) error   { return nil }
func (m *mockDashboard) UpdateSecondaryChart(ctx context.Context) error { return nil }
func (m *mockDashboard) UpdateSessions(ctx context.Context) error       { return nil }
func (m *mockDashboard) Restore(ctx context.Context) error              { return nil }

func (m *mockDashboard) Snapshot() service.DashboardView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

func (m *mockDashboard) StatusText() map[string]string { return m.status }

func (m *mockDashboard) SessionsHTML() template.HTML {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.html
}

func (m *mockDashboard) Chart(id string) (chart.Chart, bool) {
	c, ok := m.charts[id]
	return c, ok
}

func (m *mockDashboard) Subscribe() <-chan string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan string, 4)
	m.subs = append(m.subs, ch)
	return ch
}

func (m *mockDashboard) Unsubscribe(ch <-chan string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unsubscribed++
}

// publish sends widget to every subscriber.
func (m *mockDashboard) publish(widget string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		ch <- widget
	}
}

func (m *mockDashboard) subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

type mockSessions struct {
	// behaviour
	alert   string
	created bool
	err     error
	onOK    func()

	calls     int
	lastName  string
	lastNotes string
}

func (m *mockSessions) Create(ctx context.Context, form service.SessionForm, alert service.Alerter) error {
	m.calls++
	m.lastName, m.lastNotes = form.Name(), form.Notes()
	if m.alert != "" {
		alert.Alert(m.alert)
	}
	if m.created {
		form.Reset()
		form.Dismiss()
		if m.onOK != nil {
			m.onOK()
		}
	}
	return m.err
}

type mockRefresher struct {
	mu     sync.Mutex
	passes int
	ctxErr error
}

func (m *mockRefresher) Run(ctx context.Context, period time.Duration) {}

func (m *mockRefresher) RefreshPass(ctx context.Context) *service.Pass {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passes++
	m.ctxErr = ctx.Err()
	return nil
}

func (m *mockRefresher) State() service.RefreshState { return service.Idle }

type mockEventLog struct {
	resp      []models.DashboardEvent
	err       error
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	lastLimit int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.DashboardEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastLimit = f.Limit
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
