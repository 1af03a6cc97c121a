package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fermentation_dashboard/internal/logger"
	"fermentation_dashboard/internal/models"
	"fermentation_dashboard/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewEventLogService(eventRepo repository.EventRepo, log *logger.Logger) *EventLogService {
	return &EventLogService{eventRepo: eventRepo, log: logger.OrNop(log)}
}

// Event log page sizes.
const (
	DefaultLogLimit = 200
	MaxLogLimit     = 1000
)

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errInvalidLimit     = errors.New("invalid limit: must not be negative")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// toQuery normalizes f into a repository query: bounds in UTC, type upper
// case, limit defaulted and capped.
func toQuery(f LogFilter) (repository.EventQuery, error) {
	q := repository.EventQuery{
		From:  normalizeToUTC(f.From),
		To:    normalizeToUTC(f.To),
		Type:  normalizeEventType(f.Type),
		Limit: f.Limit,
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return repository.EventQuery{}, errInvalidTimeRange
	}
	switch {
	case q.Limit < 0:
		return repository.EventQuery{}, errInvalidLimit
	case q.Limit == 0:
		q.Limit = DefaultLogLimit
	case q.Limit > MaxLogLimit:
		q.Limit = MaxLogLimit
	}
	return q, nil
}

// List returns the newest matching events, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.DashboardEvent, error) {
	q, err := toQuery(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, q)
}

// Record appends an event. Storage failures are logged and swallowed: the
// activity log never breaks a pipeline.
func (s *EventLogService) Record(ctx context.Context, typ, description string, meta any) {
	if s == nil || s.eventRepo == nil {
		return
	}
	err := s.eventRepo.Append(ctx, models.DashboardEvent{
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Warnw("event_append_failed", "type", typ, "error", err)
	}
}
