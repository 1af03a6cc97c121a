// Package sessionlist renders the active fermentation sessions as an HTML
// fragment for the sessions-list container.
package sessionlist

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"time"

	"fermentation_dashboard/internal/models"
)

// Placeholder is shown when there are no sessions.
const Placeholder = "No active fermentation sessions"

const DefaultStartLayout = "2006/01/02 15:04:05"

var listTmpl = template.Must(template.New("sessions").Parse(`{{- if not .Cards -}}
<div class="text-center text-muted py-4">
    <i class="fas fa-clipboard-list fa-2x mb-3"></i>
    <p>{{ .Placeholder }}</p>
</div>
{{- else -}}
{{- range .Cards }}
<div class="card session-card session-active mb-3">
    <div class="card-body">
        <div class="d-flex justify-content-between align-items-start">
            <div>
                <h6 class="card-title mb-2">
                    <span class="status-indicator status-active"></span>
                    {{ .Name }}
                </h6>
                <p class="card-text text-muted mb-1">
                    <i class="fas fa-clock me-1"></i>
                    Started: {{ .Started }}
                </p>
                {{- if .Notes }}
                <p class="card-text"><small>{{ .Notes }}</small></p>
                {{- end }}
            </div>
            <div class="text-end">
                <small class="text-muted">Running {{ .Hours }}h</small>
            </div>
        </div>
    </div>
</div>
{{- end }}
{{- end }}
`))

type card struct {
	Name    string
	Notes   string
	Started string
	Hours   int64
}

// Renderer turns sessions into the list fragment.
type Renderer struct {
	loc    *time.Location
	layout string
	now    func() time.Time
}

type Option func(*Renderer)

// WithClock overrides the clock used for elapsed hours.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// New creates a renderer showing start times in loc with layout.
func New(loc *time.Location, layout string, opts ...Option) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = DefaultStartLayout
	}
	r := &Renderer{loc: loc, layout: layout, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the placeholder for an empty list, otherwise one card per
// session in the order given.
func (r *Renderer) Render(sessions []models.Session) (template.HTML, error) {
	now := r.now()
	cards := make([]card, 0, len(sessions))
	for _, s := range sessions {
		cards = append(cards, card{
			Name:    s.Name,
			Notes:   s.Notes,
			Started: s.Started().In(r.loc).Format(r.layout),
			Hours:   ElapsedHours(s.StartTime, now),
		})
	}

	var buf bytes.Buffer
	err := listTmpl.Execute(&buf, struct {
		Placeholder string
		Cards       []card
	}{Placeholder, cards})
	if err != nil {
		return "", fmt.Errorf("render sessions: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// ElapsedHours is floor((now - start) / 3600) with start in epoch seconds.
func ElapsedHours(start float64, now time.Time) int64 {
	elapsed := float64(now.UnixNano())/1e9 - start
	return int64(math.Floor(elapsed / 3600))
}
