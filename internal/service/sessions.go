package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fermentation_dashboard/internal/logger"
	"fermentation_dashboard/internal/models"
)

// Alert texts shown by the session creator.
const (
	AlertBlankName     = "Please enter a session name"
	AlertCreateFailure = "Error creating session"
)

var (
	ErrBlankName  = errors.New("session name is blank")
	ErrNotCreated = errors.New("session not created")
)

// SessionService creates sessions on the backend.
type SessionService struct {
	fetcher Fetcher
	refresh func(ctx context.Context) error
	events  *EventLogService
	log     *logger.Logger
}

// NewSessionService returns a creator that calls refresh once after every
// successful create.
func NewSessionService(fetcher Fetcher, refresh func(ctx context.Context) error, events *EventLogService, log *logger.Logger) *SessionService {
	return &SessionService{fetcher: fetcher, refresh: refresh, events: events, log: logger.OrNop(log)}
}

// Create submits the form. A blank name is rejected without contacting the
// backend. On success the form is reset and dismissed and the session list
// refreshed once; on any failure the user gets exactly one alert and the
// form stays as it is.
func (s *SessionService) Create(ctx context.Context, form SessionForm, alert Alerter) error {
	name, notes := form.Name(), form.Notes()
	if strings.TrimSpace(name) == "" {
		alert.Alert(AlertBlankName)
		return ErrBlankName
	}

	resp, err := s.fetcher.CreateSession(ctx, models.CreateSessionRequest{Name: name, Notes: notes})
	if err == nil && resp.Status != models.SessionStatusCreated {
		err = fmt.Errorf("backend answered status %q", resp.Status)
	}
	if err != nil {
		s.log.Warnw("session_create_failed", "name", name, "error", err)
		s.events.Record(ctx, models.EventSessionRejected, fmt.Sprintf("session %q not created", name), map[string]string{"error": err.Error()})
		alert.Alert(AlertCreateFailure)
		return fmt.Errorf("%w: %w", ErrNotCreated, err)
	}

	form.Reset()
	form.Dismiss()
	s.log.Infow("session_created", "id", resp.ID, "name", name)
	s.events.Record(ctx, models.EventSessionCreated, fmt.Sprintf("session %q created", name), map[string]any{"id": resp.ID})

	if s.refresh != nil {
		if err := s.refresh(ctx); err != nil {
			s.log.Warnw("session_list_refresh_failed", "error", err)
		}
	}
	return nil
}
