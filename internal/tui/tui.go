// Package tui renders the dashboard in a terminal.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fermentation_dashboard/internal/chart"
	"fermentation_dashboard/internal/service"
	"fermentation_dashboard/internal/sessionlist"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Source is the part of the dashboard the terminal view reads.
type Source interface {
	Snapshot() service.DashboardView
	Subscribe() <-chan string
	Unsubscribe(ch <-chan string)
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(24)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
)

type model struct {
	source  Source
	refresh func()
	redraws <-chan string

	view       service.DashboardView
	lastWidget string
	now        time.Time
	width      int
	closed     bool
}

func newModel(src Source, refresh func()) model {
	return model{
		source:  src,
		refresh: refresh,
		redraws: src.Subscribe(),
		view:    src.Snapshot(),
		now:     time.Now(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForRedraw(m.redraws), tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			if m.refresh != nil {
				m.refresh()
			}
		}

	case RedrawMsg:
		m.lastWidget = string(msg)
		m.view = m.source.Snapshot()
		return m, waitForRedraw(m.redraws)

	case ClosedMsg:
		m.closed = true

	case TickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Fermentation dashboard (%s)", m.view.View)))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Current status"))
	b.WriteString("\n")
	for _, id := range m.view.StatusIDs {
		b.WriteString(labelStyle.Render(service.StatusLabel(id)))
		b.WriteString(valueStyle.Render(m.view.Status[id]))
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("Charts"))
	b.WriteString("\n")
	ids := m.view.ChartIDs
	if len(ids) == 0 {
		ids = sortedKeys(m.view.Charts)
	}
	for _, id := range ids {
		b.WriteString(renderChart(m.view.Charts[id]))
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Active sessions (%d)", len(m.view.Sessions))))
	b.WriteString("\n")
	if len(m.view.Sessions) == 0 {
		b.WriteString(dimStyle.Render(sessionlist.Placeholder))
		b.WriteString("\n")
	}
	for _, s := range m.view.Sessions {
		hours := sessionlist.ElapsedHours(s.StartTime, m.now)
		b.WriteString(fmt.Sprintf("• %s  %s\n", s.Name, dimStyle.Render(fmt.Sprintf("running %dh", hours))))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.footer()))

	out := b.String()
	if m.width > 0 {
		return boxStyle.Width(m.width - 2).Render(out)
	}
	return boxStyle.Render(out)
}

func (m model) footer() string {
	last := "never"
	if !m.view.LastRefresh.IsZero() {
		last = m.view.LastRefresh.Format("15:04:05")
	}
	s := fmt.Sprintf("last refresh %s · rev %d", last, m.view.Revision)
	if m.lastWidget != "" {
		s += " · updated " + m.lastWidget
	}
	if m.closed {
		s += " · stream closed"
	}
	return s + " · [r] refresh [q] quit"
}

// renderChart summarizes a chart by its latest point.
func renderChart(v any) string {
	switch c := v.(type) {
	case chart.LineView:
		head := labelStyle.Render(c.Title)
		if len(c.Labels) == 0 {
			return head + dimStyle.Render("no data yet")
		}
		last := len(c.Labels) - 1
		parts := make([]string, 0, len(c.Datasets))
		for _, ds := range c.Datasets {
			val := "--"
			if last < len(ds.Data) && ds.Data[last] != nil {
				val = fmt.Sprintf("%.1f", *ds.Data[last])
			}
			parts = append(parts, fmt.Sprintf("%s %s", ds.Label, valueStyle.Render(val)))
		}
		return head + fmt.Sprintf("@%s  %s", c.Labels[last], strings.Join(parts, ", "))
	case chart.GaugeView:
		parts := make([]string, 0, len(c.Labels))
		for i, l := range c.Labels {
			if i < len(c.Values) {
				parts = append(parts, fmt.Sprintf("%s %s", l, valueStyle.Render(fmt.Sprintf("%.0f", c.Values[i]))))
			}
		}
		return labelStyle.Render(c.Title) + strings.Join(parts, ", ")
	case nil:
		return dimStyle.Render("no data yet")
	default:
		return fmt.Sprintf("%v", c)
	}
}

// Run shows the dashboard until the user quits. refresh, if set, is
// called when the user presses r.
func Run(src Source, refresh func()) error {
	m := newModel(src, refresh)
	defer src.Unsubscribe(m.redraws)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
