package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"fermentation_dashboard/internal/chart"
	"fermentation_dashboard/internal/models"
	"fermentation_dashboard/internal/service"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeSource struct {
	mu     sync.Mutex
	view   service.DashboardView
	ch     chan string
	snaps  int
	closed int
}

func newFakeSource(v service.DashboardView) *fakeSource {
	return &fakeSource{view: v, ch: make(chan string, 4)}
}

func (f *fakeSource) Snapshot() service.DashboardView {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps++
	return f.view
}

func (f *fakeSource) Subscribe() <-chan string { return f.ch }

func (f *fakeSource) Unsubscribe(ch <-chan string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
}

func (f *fakeSource) set(v service.DashboardView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view = v
}

func fp(v float64) *float64 { return &v }

func sampleView() service.DashboardView {
	return service.DashboardView{
		View:      "fermentation",
		StatusIDs: []string{service.StatusTemp, service.StatusHumidity},
		Status:    map[string]string{service.StatusTemp: "24.5°C", service.StatusHumidity: "--"},
		ChartIDs:  []string{service.ChartSession, service.ChartFermentation},
		Charts: map[string]any{
			service.ChartSession: chart.LineView{
				Title:  "Temperature & Humidity",
				Labels: []string{"10:00", "10:05"},
				Datasets: []chart.DatasetView{
					{Label: "Temperature (°C)", Data: []*float64{fp(24), fp(24.5)}},
					{Label: "Humidity (%)", Data: []*float64{fp(60), nil}},
				},
			},
			service.ChartFermentation: chart.GaugeView{
				Title:  "Fermentation activity",
				Labels: []string{"Active", "Inactive"},
				Values: []float64{30, 70},
			},
		},
		Revision: 7,
	}
}

func TestView_RendersWidgets(t *testing.T) {
	m := newModel(newFakeSource(sampleView()), nil)
	out := m.View()

	for _, want := range []string{
		"Temperature", "24.5°C", "Humidity",
		"@10:05", "24.5", "Active", "70",
		"No active fermentation sessions",
		"rev 7", "last refresh never",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestView_Sessions(t *testing.T) {
	v := sampleView()
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	v.Sessions = []models.Session{{Name: "Rye", StartTime: float64(start.Unix())}}

	m := newModel(newFakeSource(v), nil)
	m.now = start.Add(5*time.Hour + 10*time.Minute)
	out := m.View()
	if !strings.Contains(out, "Active sessions (1)") || !strings.Contains(out, "Rye") || !strings.Contains(out, "running 5h") {
		t.Fatalf("sessions not rendered:\n%s", out)
	}
}

func TestUpdate_RedrawTakesSnapshot(t *testing.T) {
	src := newFakeSource(sampleView())
	m := newModel(src, nil)

	next := sampleView()
	next.Status[service.StatusTemp] = "26.0°C"
	src.set(next)

	tm, cmd := m.Update(RedrawMsg(service.WidgetStatus))
	got := tm.(model)
	if got.view.Status[service.StatusTemp] != "26.0°C" {
		t.Fatalf("view not refreshed: %+v", got.view.Status)
	}
	if got.lastWidget != service.WidgetStatus {
		t.Fatalf("lastWidget=%q", got.lastWidget)
	}
	if cmd == nil {
		t.Fatal("expected a command waiting for the next redraw")
	}

	src.ch <- service.ChartSession
	if msg := cmd(); msg != RedrawMsg(service.ChartSession) {
		t.Fatalf("unexpected msg %#v", msg)
	}
}

func TestWaitForRedraw_Closed(t *testing.T) {
	ch := make(chan string)
	close(ch)
	if _, ok := waitForRedraw(ch)().(ClosedMsg); !ok {
		t.Fatal("expected ClosedMsg")
	}

	m := newModel(newFakeSource(sampleView()), nil)
	tm, _ := m.Update(ClosedMsg{})
	if !tm.(model).closed || !strings.Contains(tm.(model).View(), "stream closed") {
		t.Fatal("closed stream not shown")
	}
}

func TestUpdate_Keys(t *testing.T) {
	refreshed := 0
	m := newModel(newFakeSource(sampleView()), func() { refreshed++ })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if refreshed != 1 || cmd != nil {
		t.Fatalf("refresh key: refreshed=%d cmd=%v", refreshed, cmd != nil)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestRenderChart_Empty(t *testing.T) {
	if out := renderChart(chart.LineView{Title: "Dough size"}); !strings.Contains(out, "no data yet") {
		t.Fatalf("got %q", out)
	}
	if out := renderChart(nil); !strings.Contains(out, "no data yet") {
		t.Fatalf("got %q", out)
	}
}

func TestSortedKeysFallback(t *testing.T) {
	v := sampleView()
	v.ChartIDs = nil
	out := newModel(newFakeSource(v), nil).View()
	if strings.Index(out, "Fermentation activity") > strings.Index(out, "@10:05") {
		t.Fatalf("charts not in key order:\n%s", out)
	}
}
