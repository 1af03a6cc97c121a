package chart

import (
	"fmt"
	"io"
	"math"
	"sync"

	gochart "github.com/wcharczuk/go-chart/v2"
)

const maxXTicks = 8

// DatasetConfig is the fixed look of one dataset.
type DatasetConfig struct {
	Label string // legend text
	Color string // hex, e.g. "ff6384"
	Axis  string // AxisPrimary or AxisSecondary
}

// LineConfig is the fixed configuration of a line chart.
type LineConfig struct {
	ID                 string // canvas element id
	Title              string
	PrimaryAxisTitle   string
	SecondaryAxisTitle string
	Datasets           []DatasetConfig
}

// DatasetView is one dataset as served to the page.
type DatasetView struct {
	Label string     `json:"label"`
	Color string     `json:"color"`
	Axis  string     `json:"axis"`
	Data  []*float64 `json:"data"`
}

// LineView is a copy of the data bound to a line chart.
type LineView struct {
	ID                 string        `json:"id"`
	Type               string        `json:"type"`
	Title              string        `json:"title"`
	PrimaryAxisTitle   string        `json:"primary_axis_title"`
	SecondaryAxisTitle string        `json:"secondary_axis_title,omitempty"`
	Labels             []string      `json:"labels"`
	Datasets           []DatasetView `json:"datasets"`
	Revision           uint64        `json:"revision"`
}

// LineChart is a line chart with one or two y-axes.
type LineChart struct {
	cfg    LineConfig
	redraw RedrawFunc

	mu       sync.RWMutex
	labels   []string
	data     [][]*float64
	revision uint64
}

// NewLineChart creates the chart with empty data.
func NewLineChart(cfg LineConfig, redraw RedrawFunc) *LineChart {
	return &LineChart{
		cfg:    cfg,
		redraw: redraw,
		labels: []string{},
		data:   make([][]*float64, len(cfg.Datasets)),
	}
}

func (c *LineChart) ID() string { return c.cfg.ID }

// ApplySeries replaces the bound labels and dataset values, then redraws.
// Datasets beyond the configured ones are ignored; configured datasets not
// passed keep their values. Lengths are not checked.
func (c *LineChart) ApplySeries(labels []string, datasets ...[]*float64) {
	c.mu.Lock()
	c.labels = labels
	for i := range c.data {
		if i < len(datasets) {
			c.data[i] = datasets[i]
		}
	}
	c.revision++
	c.mu.Unlock()

	if c.redraw != nil {
		c.redraw(c.cfg.ID)
	}
}

// Snapshot copies the bound data.
func (c *LineChart) Snapshot() LineView {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v := LineView{
		ID:                 c.cfg.ID,
		Type:               "line",
		Title:              c.cfg.Title,
		PrimaryAxisTitle:   c.cfg.PrimaryAxisTitle,
		SecondaryAxisTitle: c.cfg.SecondaryAxisTitle,
		Labels:             append([]string(nil), c.labels...),
		Datasets:           make([]DatasetView, len(c.cfg.Datasets)),
		Revision:           c.revision,
	}
	if v.Labels == nil {
		v.Labels = []string{}
	}
	for i, ds := range c.cfg.Datasets {
		data := append([]*float64(nil), c.data[i]...)
		if data == nil {
			data = []*float64{}
		}
		v.Datasets[i] = DatasetView{Label: ds.Label, Color: ds.Color, Axis: ds.Axis, Data: data}
	}
	return v
}

func (c *LineChart) View() any { return c.Snapshot() }

// RenderPNG draws the chart. Missing values are skipped, so each dataset is
// drawn against the label index it was bound to.
func (c *LineChart) RenderPNG(w io.Writer, width, height int) error {
	v := c.Snapshot()
	width, height = sizeOr(width, height)

	n := len(v.Labels)
	var (
		series  []gochart.Series
		primary = newBounds()
		second  = newBounds()
	)
	for _, ds := range v.Datasets {
		var xs, ys []float64
		for i, p := range ds.Data {
			if p == nil || math.IsNaN(*p) {
				continue
			}
			xs = append(xs, float64(i))
			ys = append(ys, *p)
			if i >= n {
				n = i + 1
			}
		}
		if len(xs) == 0 {
			continue
		}

		style := gochart.Style{
			StrokeColor: color(ds.Color),
			StrokeWidth: 2,
		}
		// go-chart needs two x values to draw a series.
		if len(xs) == 1 {
			xs = append(xs, xs[0]+1)
			ys = append(ys, ys[0])
			style.DotColor = style.StrokeColor
			style.DotWidth = 4
			if int(xs[1]) >= n {
				n = int(xs[1]) + 1
			}
		}

		s := gochart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ys,
			Style:   style,
		}
		if ds.Axis == AxisSecondary {
			s.YAxis = gochart.YAxisSecondary
			second.add(ys...)
		} else {
			primary.add(ys...)
		}
		series = append(series, s)
	}
	if len(series) == 0 {
		return ErrNoData
	}

	ch := gochart.Chart{
		Title:  v.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: math.Max(float64(n-1), 1)},
			Ticks: xTicks(v.Labels),
		},
		YAxis: gochart.YAxis{
			Name:  v.PrimaryAxisTitle,
			Range: primary.rng(),
		},
		YAxisSecondary: gochart.YAxis{
			Name:  v.SecondaryAxisTitle,
			Range: second.rng(),
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", v.ID, err)
	}
	return nil
}

// xTicks spreads at most maxXTicks labels over the x axis.
func xTicks(labels []string) []gochart.Tick {
	n := len(labels)
	if n == 0 {
		return nil
	}
	step := 1
	if n > maxXTicks {
		step = int(math.Ceil(float64(n) / maxXTicks))
	}
	ticks := make([]gochart.Tick, 0, maxXTicks+1)
	for i := 0; i < n; i += step {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: labels[i]})
	}
	// go-chart takes the x range from the ticks; a lone label needs a
	// blank tick at the padded x.
	if len(ticks) == 1 {
		ticks = append(ticks, gochart.Tick{Value: ticks[0].Value + 1})
	}
	return ticks
}

type bounds struct {
	min, max float64
	seen     bool
}

func newBounds() *bounds { return &bounds{} }

func (b *bounds) add(vs ...float64) {
	for _, v := range vs {
		if !b.seen {
			b.min, b.max, b.seen = v, v, true
			continue
		}
		b.min = math.Min(b.min, v)
		b.max = math.Max(b.max, v)
	}
}

// rng never returns a zero-width range; go-chart refuses those.
func (b *bounds) rng() *gochart.ContinuousRange {
	if !b.seen {
		return &gochart.ContinuousRange{Min: 0, Max: 1}
	}
	if b.min == b.max {
		return &gochart.ContinuousRange{Min: b.min - 1, Max: b.max + 1}
	}
	pad := (b.max - b.min) * 0.05
	return &gochart.ContinuousRange{Min: b.min - pad, Max: b.max + pad}
}
