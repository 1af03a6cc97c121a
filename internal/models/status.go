package models

// StatusSnapshot is the instantaneous reading returned by /api/current-status.
// Optional readings are nil when the backend has nothing recent for them.
type StatusSnapshot struct {
	Temperature          *float64 `json:"temperature"`                   // °C
	Humidity             *float64 `json:"humidity"`                      // %
	FermentationActivity float64  `json:"fermentation_activity"`         // raw surface activity
	BubbleCount          int      `json:"bubble_count"`                  // bubbles in the last frame
	DoughSize            *float64 `json:"dough_size,omitempty"`          // dough-size view only
	SizeChangePercent    *float64 `json:"size_change_percent,omitempty"` // dough-size view only
	CameraStatus         *string  `json:"camera_status,omitempty"`       // e.g. "online"
	LastUpdate           float64  `json:"last_update,omitempty"`         // epoch seconds
}
