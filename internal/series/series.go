// Package series turns newest-first backend samples into chronological,
// index-aligned chart data.
package series

import (
	"math"
	"time"

	"fermentation_dashboard/internal/models"
)

// DefaultLabelLayout renders hour:minute.
const DefaultLabelLayout = "15:04"

// MissingPolicy says what to do with a sample that lacks the field.
type MissingPolicy int

const (
	// PassThrough keeps the gap as nil; the chart draws nothing there.
	PassThrough MissingPolicy = iota
	// ZeroFill substitutes 0.
	ZeroFill
)

// Field picks one numeric value out of a sample.
type Field func(models.TimeSeriesPoint) *float64

var (
	Temperature     Field = func(p models.TimeSeriesPoint) *float64 { return p.Temperature }
	Humidity        Field = func(p models.TimeSeriesPoint) *float64 { return p.Humidity }
	DoughSize       Field = func(p models.TimeSeriesPoint) *float64 { return p.DoughSize }
	SizeChange      Field = func(p models.TimeSeriesPoint) *float64 { return p.SizeChange }
	SurfaceActivity Field = func(p models.TimeSeriesPoint) *float64 { return p.SurfaceActivity }
)

// Series is chart-ready data. Labels and every dataset have the same
// length and index i of each refers to the same sample.
type Series struct {
	Labels   []string
	Datasets [][]*float64
}

// Len is the number of samples.
func (s Series) Len() int { return len(s.Labels) }

// Labels formats each timestamp in loc and returns them oldest first.
func Labels(points []models.TimeSeriesPoint, loc *time.Location, layout string) []string {
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = DefaultLabelLayout
	}
	n := len(points)
	out := make([]string, n)
	for i, p := range points {
		out[n-1-i] = p.Time().In(loc).Format(layout)
	}
	return out
}

// Values extracts one field, oldest first, applying the missing policy.
func Values(points []models.TimeSeriesPoint, field Field, policy MissingPolicy) []*float64 {
	n := len(points)
	out := make([]*float64, n)
	for i, p := range points {
		v := field(p)
		if v == nil && policy == ZeroFill {
			v = float(0)
		} else if v != nil {
			v = float(*v)
		}
		out[n-1-i] = v
	}
	return out
}

// Build maps every point to a label and the requested fields, then reverses
// all of them together.
func Build(points []models.TimeSeriesPoint, loc *time.Location, layout string, policy MissingPolicy, fields ...Field) Series {
	s := Series{
		Labels:   Labels(points, loc, layout),
		Datasets: make([][]*float64, len(fields)),
	}
	for i, f := range fields {
		s.Datasets[i] = Values(points, f, policy)
	}
	return s
}

// SensorSeries is the temperature/humidity chart data. Missing readings are
// passed through untouched.
func SensorSeries(points []models.TimeSeriesPoint, loc *time.Location, layout string) Series {
	return Build(points, loc, layout, PassThrough, Temperature, Humidity)
}

// SizeSeries is the dough size/size change chart data. Missing readings
// become 0.
func SizeSeries(points []models.TimeSeriesPoint, loc *time.Location, layout string) Series {
	return Build(points, loc, layout, ZeroFill, DoughSize, SizeChange)
}

// GaugeReading is the two-segment fermentation gauge, in percent.
type GaugeReading struct {
	Activity float64 `json:"activity"`
	Static   float64 `json:"static"`
}

// NormalizeActivity maps raw surface activity onto the gauge scale.
func NormalizeActivity(raw float64) float64 {
	return math.Min(raw/10, 100)
}

// Gauge reads the newest sample only. It reports false when there is no
// sample, in which case the gauge must be left as it is.
func Gauge(points []models.TimeSeriesPoint) (GaugeReading, bool) {
	if len(points) == 0 {
		return GaugeReading{}, false
	}
	var raw float64
	if v := points[0].SurfaceActivity; v != nil {
		raw = *v
	}
	activity := NormalizeActivity(raw)
	return GaugeReading{Activity: activity, Static: 100 - activity}, true
}

func float(v float64) *float64 { return &v }
