package models

import (
	"math"
	"time"
)

// TimeSeriesPoint is one sample from /api/sensor-data or /api/image-metrics.
// The set of populated fields depends on the endpoint.
type TimeSeriesPoint struct {
	Timestamp       float64  `json:"timestamp"` // epoch seconds
	Temperature     *float64 `json:"temperature,omitempty"`
	Humidity        *float64 `json:"humidity,omitempty"`
	DoughSize       *float64 `json:"dough_size,omitempty"`
	SizeChange      *float64 `json:"size_change,omitempty"`
	SurfaceActivity *float64 `json:"surface_activity,omitempty"`
	VolumeChange    *float64 `json:"volume_change,omitempty"`
	TextureVariance *float64 `json:"texture_variance,omitempty"`
	BubbleCount     *int     `json:"bubble_count,omitempty"`
}

// Time converts the fractional epoch timestamp to a time.Time.
func (p TimeSeriesPoint) Time() time.Time {
	sec, frac := math.Modf(p.Timestamp)
	return time.Unix(int64(sec), int64(frac*1e9))
}
