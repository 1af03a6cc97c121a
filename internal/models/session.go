package models

import (
	"math"
	"time"
)

// SessionStatusCreated is the status the backend reports for a new session.
const SessionStatusCreated = "created"

// Session is a fermentation session as listed by /api/sessions.
type Session struct {
	ID        int64   `json:"id,omitempty"`
	Name      string  `json:"name"`
	Notes     string  `json:"notes,omitempty"`
	StartTime float64 `json:"start_time"` // epoch seconds
	Status    string  `json:"status,omitempty"`
}

// Started converts StartTime to a time.Time.
func (s Session) Started() time.Time {
	sec, frac := math.Modf(s.StartTime)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// CreateSessionRequest is the POST /api/sessions body.
type CreateSessionRequest struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

// CreateSessionResponse is what the backend answers to a create request.
type CreateSessionResponse struct {
	ID     int64  `json:"id,omitempty"`
	Status string `json:"status"`
}
