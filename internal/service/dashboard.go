package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"sync"
	"time"

	"fermentation_dashboard/internal/chart"
	"fermentation_dashboard/internal/config"
	"fermentation_dashboard/internal/logger"
	"fermentation_dashboard/internal/models"
	"fermentation_dashboard/internal/repository"
	"fermentation_dashboard/internal/series"
	"fermentation_dashboard/internal/sessionlist"
)

// Widget names used for notifications and persisted state. Charts use
// their element id.
const (
	WidgetStatus   = "status"
	WidgetSessions = "sessions"
)

// Chart element ids.
const (
	ChartSession      = "sessionChart"
	ChartFermentation = "fermentationChart"
	ChartSize         = "sizeChart"
)

// Status element ids.
const (
	StatusTemp         = "current-temp"
	StatusHumidity     = "current-humidity"
	StatusActivity     = "fermentation-activity"
	StatusBubbles      = "bubble-count"
	StatusDoughSize    = "current-dough-size"
	StatusSizeChange   = "size-change"
	StatusCameraStatus = "camera-status"
)

const placeholderText = "--"

var statusLabels = map[string]string{
	StatusTemp:         "Temperature",
	StatusHumidity:     "Humidity",
	StatusActivity:     "Fermentation activity",
	StatusBubbles:      "Bubbles",
	StatusDoughSize:    "Dough size",
	StatusSizeChange:   "Size change",
	StatusCameraStatus: "Camera",
}

// StatusLabel is the human caption of a status element id.
func StatusLabel(id string) string {
	if l, ok := statusLabels[id]; ok {
		return l
	}
	return id
}

var ErrUnknownView = errors.New("unknown dashboard view")

// DashboardOptions configures a DashboardService.
type DashboardOptions struct {
	View        string
	SensorHours int
	GaugeHours  int
	SizeHours   int
	Location    *time.Location
	LabelLayout string
	StartLayout string
	Now         func() time.Time
}

// OptionsFromConfig maps the dashboard section of the configuration.
func OptionsFromConfig(c config.DashboardConfig) (DashboardOptions, error) {
	loc, err := c.Location()
	if err != nil {
		return DashboardOptions{}, err
	}
	return DashboardOptions{
		View:        c.View,
		SensorHours: c.SensorHours,
		GaugeHours:  c.GaugeHours,
		SizeHours:   c.SizeHours,
		Location:    loc,
		LabelLayout: c.LabelLayout,
		StartLayout: c.StartTimeLayout,
	}, nil
}

// DashboardService owns the dashboard widgets. Each Update* method is one
// pipeline: fetch, transform, render. A failed pipeline leaves its widget
// as it was.
type DashboardService struct {
	opts     DashboardOptions
	fetcher  Fetcher
	widgets  repository.WidgetRepo
	events   *EventLogService
	log      *logger.Logger
	sessions *sessionlist.Renderer
	notify   *notifier

	primary *chart.LineChart
	gauge   *chart.GaugeChart // fermentation view
	size    *chart.LineChart  // dough size view
	charts  map[string]chart.Chart
	order   []string

	mu           sync.RWMutex
	statusIDs    []string
	statusText   map[string]string
	sessionsHTML template.HTML
	sessionList  []models.Session
	lastRefresh  time.Time
}

// NewDashboardService builds the widgets of opts.View. widgets and events
// may be nil.
func NewDashboardService(opts DashboardOptions, fetcher Fetcher, widgets repository.WidgetRepo, events *EventLogService, log *logger.Logger) (*DashboardService, error) {
	opts = withDefaults(opts)

	d := &DashboardService{
		opts:     opts,
		fetcher:  fetcher,
		widgets:  widgets,
		events:   events,
		log:      logger.OrNop(log),
		sessions: sessionlist.New(opts.Location, opts.StartLayout, sessionlist.WithClock(opts.Now)),
		notify:   newNotifier(),
		charts:   make(map[string]chart.Chart),
	}

	d.primary = chart.NewLineChart(chart.LineConfig{
		ID:                 ChartSession,
		Title:              "Temperature & Humidity",
		PrimaryAxisTitle:   "Temperature (°C)",
		SecondaryAxisTitle: "Humidity (%)",
		Datasets: []chart.DatasetConfig{
			{Label: "Temperature (°C)", Color: "ff6384", Axis: chart.AxisPrimary},
			{Label: "Humidity (%)", Color: "36a2eb", Axis: chart.AxisSecondary},
		},
	}, d.notify.publish)
	d.addChart(d.primary)

	switch opts.View {
	case config.ViewFermentation:
		d.statusIDs = []string{StatusTemp, StatusHumidity, StatusActivity, StatusBubbles}
		d.gauge = chart.NewGaugeChart(chart.GaugeConfig{
			ID:            ChartFermentation,
			Title:         "Fermentation Activity",
			ActivityLabel: "Activity",
			StaticLabel:   "Static",
			ActivityColor: "4bc0c0",
			StaticColor:   "c9cbcf",
		}, d.notify.publish)
		d.addChart(d.gauge)
	case config.ViewDoughSize:
		d.statusIDs = []string{StatusTemp, StatusHumidity, StatusDoughSize, StatusSizeChange, StatusCameraStatus}
		d.size = chart.NewLineChart(chart.LineConfig{
			ID:                 ChartSize,
			Title:              "Dough Size",
			PrimaryAxisTitle:   "Dough size",
			SecondaryAxisTitle: "Size change (%)",
			Datasets: []chart.DatasetConfig{
				{Label: "Dough size", Color: "ff9f40", Axis: chart.AxisPrimary},
				{Label: "Size change (%)", Color: "9966ff", Axis: chart.AxisSecondary},
			},
		}, d.notify.publish)
		d.addChart(d.size)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, opts.View)
	}

	d.statusText = make(map[string]string, len(d.statusIDs))
	for _, id := range d.statusIDs {
		d.statusText[id] = placeholderText
	}
	html, err := d.sessions.Render(nil)
	if err != nil {
		return nil, err
	}
	d.sessionsHTML = html

	return d, nil
}

func withDefaults(o DashboardOptions) DashboardOptions {
	if o.View == "" {
		o.View = config.ViewFermentation
	}
	if o.SensorHours <= 0 {
		o.SensorHours = 24
	}
	if o.GaugeHours <= 0 {
		o.GaugeHours = 1
	}
	if o.SizeHours <= 0 {
		o.SizeHours = 24
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (d *DashboardService) addChart(c chart.Chart) {
	d.charts[c.ID()] = c
	d.order = append(d.order, c.ID())
}

// UpdateStatus refreshes the status cards.
func (d *DashboardService) UpdateStatus(ctx context.Context) error {
	st, err := d.fetcher.GetCurrentStatus(ctx)
	if err != nil {
		return d.fail(ctx, WidgetStatus, err)
	}

	text := formatStatus(d.statusIDs, st)
	d.mu.Lock()
	d.statusText = text
	d.lastRefresh = d.opts.Now()
	d.mu.Unlock()

	d.persist(ctx, WidgetStatus, st)
	d.notify.publish(WidgetStatus)
	return nil
}

// UpdatePrimaryChart refreshes the temperature/humidity chart.
func (d *DashboardService) UpdatePrimaryChart(ctx context.Context) error {
	points, err := d.fetcher.GetSensorData(ctx, d.opts.SensorHours)
	if err != nil {
		return d.fail(ctx, ChartSession, err)
	}

	s := series.SensorSeries(points, d.opts.Location, d.opts.LabelLayout)
	d.primary.ApplySeries(s.Labels, s.Datasets...)
	d.touch()
	d.persist(ctx, ChartSession, storedSeries{Labels: s.Labels, Datasets: s.Datasets})
	return nil
}

// UpdateSecondaryChart refreshes the gauge or the dough size chart,
// depending on the view.
func (d *DashboardService) UpdateSecondaryChart(ctx context.Context) error {
	if d.size != nil {
		points, err := d.fetcher.GetImageMetrics(ctx, d.opts.SizeHours)
		if err != nil {
			return d.fail(ctx, ChartSize, err)
		}
		s := series.SizeSeries(points, d.opts.Location, d.opts.LabelLayout)
		d.size.ApplySeries(s.Labels, s.Datasets...)
		d.touch()
		d.persist(ctx, ChartSize, storedSeries{Labels: s.Labels, Datasets: s.Datasets})
		return nil
	}

	points, err := d.fetcher.GetImageMetrics(ctx, d.opts.GaugeHours)
	if err != nil {
		return d.fail(ctx, ChartFermentation, err)
	}
	reading, ok := series.Gauge(points)
	if !ok {
		return nil
	}
	d.gauge.ApplyGauge(reading.Activity, reading.Static)
	d.touch()
	d.persist(ctx, ChartFermentation, reading)
	return nil
}

// UpdateSessions re-renders the session list.
func (d *DashboardService) UpdateSessions(ctx context.Context) error {
	list, err := d.fetcher.ListSessions(ctx)
	if err != nil {
		return d.fail(ctx, WidgetSessions, err)
	}
	if err := d.applySessions(list); err != nil {
		d.log.Errorw("sessions_render_failed", "error", err)
		return err
	}
	d.touch()
	d.persist(ctx, WidgetSessions, list)
	return nil
}

func (d *DashboardService) applySessions(list []models.Session) error {
	html, err := d.sessions.Render(list)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.sessionsHTML = html
	d.sessionList = append([]models.Session(nil), list...)
	d.mu.Unlock()
	d.notify.publish(WidgetSessions)
	return nil
}

func (d *DashboardService) touch() {
	d.mu.Lock()
	d.lastRefresh = d.opts.Now()
	d.mu.Unlock()
}

// fail logs and records a pipeline failure. The widget keeps its last state.
func (d *DashboardService) fail(ctx context.Context, widget string, err error) error {
	d.log.Errorw("fetch_failed", "widget", widget, "error", err)
	d.events.Record(ctx, models.EventFetchError, fmt.Sprintf("%s: %v", widget, err), map[string]string{"widget": widget})
	return fmt.Errorf("update %s: %w", widget, err)
}

// Snapshot copies the current state of every widget.
func (d *DashboardService) Snapshot() DashboardView {
	v := DashboardView{
		View:      d.opts.View,
		StatusIDs: append([]string(nil), d.statusIDs...),
		ChartIDs:  append([]string(nil), d.order...),
		Charts:    make(map[string]any, len(d.charts)),
		Revision:  d.notify.revision.Load(),
	}
	for id, c := range d.charts {
		v.Charts[id] = c.View()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	v.Status = make(map[string]string, len(d.statusText))
	for k, s := range d.statusText {
		v.Status[k] = s
	}
	v.SessionsHTML = d.sessionsHTML
	v.Sessions = append([]models.Session{}, d.sessionList...)
	v.LastRefresh = d.lastRefresh
	return v
}

// StatusIDs lists the status element ids in display order.
func (d *DashboardService) StatusIDs() []string {
	return append([]string(nil), d.statusIDs...)
}

func (d *DashboardService) StatusText() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]string, len(d.statusText))
	for k, s := range d.statusText {
		out[k] = s
	}
	return out
}

func (d *DashboardService) SessionsHTML() template.HTML {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sessionsHTML
}

// Chart returns the chart with element id.
func (d *DashboardService) Chart(id string) (chart.Chart, bool) {
	c, ok := d.charts[id]
	return c, ok
}

// Subscribe returns a channel receiving the name of every widget that was
// redrawn. Release it with Unsubscribe.
func (d *DashboardService) Subscribe() <-chan string { return d.notify.subscribe() }

func (d *DashboardService) Unsubscribe(ch <-chan string) { d.notify.unsubscribe(ch) }

func formatStatus(ids []string, st models.StatusSnapshot) map[string]string {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		switch id {
		case StatusTemp:
			out[id] = formatOptional(st.Temperature, "%.1f°C", placeholderText+"°C")
		case StatusHumidity:
			out[id] = formatOptional(st.Humidity, "%.1f%%", placeholderText+"%")
		case StatusActivity:
			out[id] = fmt.Sprintf("%.1f", st.FermentationActivity)
		case StatusBubbles:
			out[id] = fmt.Sprintf("%d", st.BubbleCount)
		case StatusDoughSize:
			out[id] = formatOptional(st.DoughSize, "%.1f", placeholderText)
		case StatusSizeChange:
			out[id] = formatOptional(st.SizeChangePercent, "%.1f%%", placeholderText+"%")
		case StatusCameraStatus:
			if st.CameraStatus != nil && *st.CameraStatus != "" {
				out[id] = *st.CameraStatus
			} else {
				out[id] = placeholderText
			}
		}
	}
	return out
}

func formatOptional(v *float64, format, missing string) string {
	if v == nil {
		return missing
	}
	return fmt.Sprintf(format, *v)
}

// storedSeries is the persisted form of a line chart.
type storedSeries struct {
	Labels   []string     `json:"labels"`
	Datasets [][]*float64 `json:"datasets"`
}

func (d *DashboardService) persist(ctx context.Context, widget string, v any) {
	if d.widgets == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		d.log.Warnw("widget_encode_failed", "widget", widget, "error", err)
		return
	}
	err = d.widgets.Save(ctx, models.WidgetState{Widget: widget, Payload: payload, UpdatedAt: d.opts.Now()})
	if err != nil {
		d.log.Warnw("widget_save_failed", "widget", widget, "error", err)
	}
}

// Restore reloads the last persisted state of every widget of this view,
// so a restart shows the stale dashboard instead of an empty one.
// Undecodable entries are skipped.
func (d *DashboardService) Restore(ctx context.Context) error {
	if d.widgets == nil {
		return nil
	}
	stored, err := d.widgets.List(ctx)
	if err != nil {
		return fmt.Errorf("restore widgets: %w", err)
	}

	for _, w := range stored {
		if err := d.restoreWidget(w); err != nil {
			d.log.Warnw("widget_restore_failed", "widget", w.Widget, "error", err)
			continue
		}
		d.log.Debugw("widget_restored", "widget", w.Widget, "updated_at", w.UpdatedAt)
	}
	return nil
}

func (d *DashboardService) restoreWidget(w models.WidgetState) error {
	switch {
	case w.Widget == WidgetStatus:
		var st models.StatusSnapshot
		if err := json.Unmarshal(w.Payload, &st); err != nil {
			return err
		}
		d.mu.Lock()
		d.statusText = formatStatus(d.statusIDs, st)
		d.mu.Unlock()
		d.notify.publish(WidgetStatus)
	case w.Widget == WidgetSessions:
		var list []models.Session
		if err := json.Unmarshal(w.Payload, &list); err != nil {
			return err
		}
		return d.applySessions(list)
	case w.Widget == ChartSession || (w.Widget == ChartSize && d.size != nil):
		var s storedSeries
		if err := json.Unmarshal(w.Payload, &s); err != nil {
			return err
		}
		target := d.primary
		if w.Widget == ChartSize {
			target = d.size
		}
		target.ApplySeries(s.Labels, s.Datasets...)
	case w.Widget == ChartFermentation && d.gauge != nil:
		var r series.GaugeReading
		if err := json.Unmarshal(w.Payload, &r); err != nil {
			return err
		}
		d.gauge.ApplyGauge(r.Activity, r.Static)
	}
	return nil
}
