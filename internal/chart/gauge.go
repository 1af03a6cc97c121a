package chart

import (
	"fmt"
	"io"
	"sync"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// GaugeConfig is the fixed configuration of the doughnut gauge.
type GaugeConfig struct {
	ID            string
	Title         string
	ActivityLabel string
	StaticLabel   string
	ActivityColor string // hex
	StaticColor   string // hex
}

// GaugeView is a copy of the data bound to the gauge.
type GaugeView struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Labels   []string  `json:"labels"`
	Colors   []string  `json:"colors"`
	Values   []float64 `json:"values"`
	Revision uint64    `json:"revision"`
}

// GaugeChart shows the latest activity as a share of 100.
type GaugeChart struct {
	cfg    GaugeConfig
	redraw RedrawFunc

	mu       sync.RWMutex
	values   [2]float64
	revision uint64
}

// NewGaugeChart creates the gauge at 0% activity.
func NewGaugeChart(cfg GaugeConfig, redraw RedrawFunc) *GaugeChart {
	return &GaugeChart{cfg: cfg, redraw: redraw, values: [2]float64{0, 100}}
}

func (g *GaugeChart) ID() string { return g.cfg.ID }

// ApplyGauge replaces both segments, then redraws.
func (g *GaugeChart) ApplyGauge(activity, static float64) {
	g.mu.Lock()
	g.values[0] = activity
	g.values[1] = static
	g.revision++
	g.mu.Unlock()

	if g.redraw != nil {
		g.redraw(g.cfg.ID)
	}
}

// Snapshot copies the bound data.
func (g *GaugeChart) Snapshot() GaugeView {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return GaugeView{
		ID:       g.cfg.ID,
		Type:     "doughnut",
		Title:    g.cfg.Title,
		Labels:   []string{g.cfg.ActivityLabel, g.cfg.StaticLabel},
		Colors:   []string{g.cfg.ActivityColor, g.cfg.StaticColor},
		Values:   []float64{g.values[0], g.values[1]},
		Revision: g.revision,
	}
}

func (g *GaugeChart) View() any { return g.Snapshot() }

// RenderPNG draws the doughnut. Non-positive segments are left out.
func (g *GaugeChart) RenderPNG(w io.Writer, width, height int) error {
	v := g.Snapshot()
	width, height = sizeOr(width, height)

	var values []gochart.Value
	for i, val := range v.Values {
		if val <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s %.1f%%", v.Labels[i], val),
			Value: val,
			Style: gochart.Style{FillColor: color(v.Colors[i])},
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	dc := gochart.DonutChart{
		Title:  v.Title,
		Width:  width,
		Height: height,
		Values: values,
	}
	if err := dc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", v.ID, err)
	}
	return nil
}
