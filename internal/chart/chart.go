// Package chart owns the long-lived chart objects of the dashboard. Data is
// replaced in place on every refresh; the chart objects themselves are
// created once.
package chart

import (
	"errors"
	"io"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Axis ids, named after the Chart.js scale ids the page uses.
const (
	AxisPrimary   = "y"
	AxisSecondary = "y1"
)

// Default image size for RenderPNG when the caller passes zero.
const (
	DefaultWidth  = 800
	DefaultHeight = 320
)

// ErrNoData is returned by RenderPNG when there is nothing to draw yet.
var ErrNoData = errors.New("chart has no data")

// Chart is what the HTTP layer needs from any chart.
type Chart interface {
	ID() string
	View() any
	RenderPNG(w io.Writer, width, height int) error
}

// RedrawFunc is called after a chart's data has been replaced.
type RedrawFunc func(id string)

func sizeOr(width, height int) (int, int) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return width, height
}

func color(hex string) drawing.Color {
	if hex == "" {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(hex)
}
