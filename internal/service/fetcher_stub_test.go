package service

import (
	"context"
	"sync"

	"fermentation_dashboard/internal/models"
)

// fetcherStub is a concurrency-safe Fetcher with canned answers.
type fetcherStub struct {
	mu sync.Mutex

	status   models.StatusSnapshot
	sensor   []models.TimeSeriesPoint
	image    []models.TimeSeriesPoint
	sessions []models.Session
	created  models.CreateSessionResponse

	statusErr, sensorErr, imageErr, sessionsErr, createErr error
	panicOnStatus                                          bool

	calls       map[string]int
	sensorHours []int
	imageHours  []int
	createReqs  []models.CreateSessionRequest
}

func newFetcherStub() *fetcherStub {
	return &fetcherStub{
		calls:   make(map[string]int),
		created: models.CreateSessionResponse{ID: 1, Status: models.SessionStatusCreated},
	}
}

func (f *fetcherStub) GetCurrentStatus(ctx context.Context) (models.StatusSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["status"]++
	if f.panicOnStatus {
		panic("status exploded")
	}
	return f.status, f.statusErr
}

func (f *fetcherStub) GetSensorData(ctx context.Context, hours int) ([]models.TimeSeriesPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["sensor"]++
	f.sensorHours = append(f.sensorHours, hours)
	return f.sensor, f.sensorErr
}

func (f *fetcherStub) GetImageMetrics(ctx context.Context, hours int) ([]models.TimeSeriesPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["image"]++
	f.imageHours = append(f.imageHours, hours)
	return f.image, f.imageErr
}

func (f *fetcherStub) ListSessions(ctx context.Context) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["sessions"]++
	return f.sessions, f.sessionsErr
}

func (f *fetcherStub) CreateSession(ctx context.Context, in models.CreateSessionRequest) (models.CreateSessionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	f.createReqs = append(f.createReqs, in)
	return f.created, f.createErr
}

func (f *fetcherStub) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// widgetRepoStub keeps widget state in memory.
type widgetRepoStub struct {
	mu      sync.Mutex
	rows    map[string]models.WidgetState
	listErr error
}

func newWidgetRepoStub() *widgetRepoStub {
	return &widgetRepoStub{rows: make(map[string]models.WidgetState)}
}

func (r *widgetRepoStub) Save(ctx context.Context, w models.WidgetState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[w.Widget] = w
	return nil
}

func (r *widgetRepoStub) List(ctx context.Context) ([]models.WidgetState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.WidgetState, 0, len(r.rows))
	for _, w := range r.rows {
		out = append(out, w)
	}
	return out, nil
}

func fptr(v float64) *float64 { return &v }

func sptr(s string) *string { return &s }
