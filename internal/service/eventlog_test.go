package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fermentation_dashboard/internal/models"
	"fermentation_dashboard/internal/repository"
)

// fakeEventRepo is a minimal stub that satisfies the repository.EventRepo interface.
type fakeEventRepo struct {
	mu sync.Mutex

	// captured inputs
	gotCtx   context.Context
	got      repository.EventQuery
	appended []models.DashboardEvent

	// configured outputs
	events    []models.DashboardEvent
	err       error
	appendErr error

	calls int
}

func (f *fakeEventRepo) List(ctx context.Context, q repository.EventQuery) ([]models.DashboardEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotCtx = ctx
	f.got = q
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.DashboardEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

func fixedZone(name string, offsetSec int) *time.Location {
	return time.FixedZone(name, offsetSec)
}

func mustTimeIn(loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

// normalizeToUTC

func Test_normalizeToUTC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want func(time.Time) bool
	}{
		{
			name: "zero time remains zero",
			in:   time.Time{},
			want: func(out time.Time) bool { return out.IsZero() },
		},
		{
			name: "non-UTC converted to UTC preserving instant",
			in:   mustTimeIn(fixedZone("UTC+3", 3*3600), 2025, time.August, 1, 12, 34, 56),
			want: func(out time.Time) bool {
				exp := time.Date(2025, time.August, 1, 9, 34, 56, 0, time.UTC) // 12:34:56+03 == 09:34:56Z
				return out.Location() == time.UTC && out.Equal(exp)
			},
		},
		{
			name: "already UTC stays UTC and same instant",
			in:   time.Date(2025, time.August, 2, 0, 0, 0, 0, time.UTC),
			want: func(out time.Time) bool {
				exp := time.Date(2025, time.August, 2, 0, 0, 0, 0, time.UTC)
				return out.Location() == time.UTC && out.Equal(exp)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := normalizeToUTC(tc.in)
			if !tc.want(got) {
				t.Fatalf("unexpected normalizeToUTC result: %v (loc=%v)", got, got.Location())
			}
		})
	}
}

// normalizeEventType

func Test_normalizeEventType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		exp  string
	}{
		{name: "empty stays empty", in: "", exp: ""},
		{name: "trim spaces", in: "  FETCH_ERROR ", exp: "FETCH_ERROR"},
		{name: "uppercase", in: "session_created", exp: "SESSION_CREATED"},
		{name: "spaces preserved except ends", in: " session_rejected ", exp: "SESSION_REJECTED"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			got := normalizeEventType(c.in)
			if got != c.exp {
				t.Fatalf("normalizeEventType(%q) = %q; want %q", c.in, got, c.exp)
			}
		})
	}
}

// toQuery

func Test_toQuery(t *testing.T) {
	t.Parallel()

	fromLocal := mustTimeIn(fixedZone("UTC+2", 2*3600), 2025, time.September, 10, 10, 0, 0)
	toUTC := time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      LogFilter
		want    repository.EventQuery
		wantErr error
	}{
		{
			name: "empty filter gets the default page",
			in:   LogFilter{},
			want: repository.EventQuery{Limit: DefaultLogLimit},
		},
		{
			name: "from after to -> error",
			in: LogFilter{
				From: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
				Type: "fetch_error",
			},
			wantErr: errInvalidTimeRange,
		},
		{
			name:    "negative limit -> error",
			in:      LogFilter{Limit: -1},
			wantErr: errInvalidLimit,
		},
		{
			name: "limit capped",
			in:   LogFilter{Limit: MaxLogLimit + 1},
			want: repository.EventQuery{Limit: MaxLogLimit},
		},
		{
			name: "normalize tz and type",
			in: LogFilter{
				From:  fromLocal,
				To:    toUTC,
				Type:  " fetch_error ",
				Limit: 10,
			},
			want: repository.EventQuery{
				From:  time.Date(2025, time.September, 10, 8, 0, 0, 0, time.UTC), // 10:00 +02 -> 08:00Z
				To:    toUTC,
				Type:  "FETCH_ERROR",
				Limit: 10,
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := toQuery(tc.in)

			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected err %v; got %v", tc.wantErr, err)
			}
			if err != nil {
				return
			}
			if !got.From.Equal(tc.want.From) || !got.To.Equal(tc.want.To) {
				t.Fatalf("bounds: got %v..%v; want %v..%v", got.From, got.To, tc.want.From, tc.want.To)
			}
			if got.Type != tc.want.Type || got.Limit != tc.want.Limit {
				t.Fatalf("got type=%q limit=%d; want type=%q limit=%d", got.Type, got.Limit, tc.want.Type, tc.want.Limit)
			}
		})
	}
}

// EventLogService.List

func TestEventLogService_List_DelegatesNormalizedParams(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{
		events: []models.DashboardEvent{
			{EventID: "1"},
		},
	}
	svc := NewEventLogService(frepo, nil)

	fromLocal := mustTimeIn(fixedZone("UTC+5", 5*3600), 2025, time.October, 1, 10, 0, 0)
	toLocal := mustTimeIn(fixedZone("UTC-2", -2*3600), 2025, time.October, 1, 12, 30, 0)
	ctx := context.Background()

	out, err := svc.List(ctx, LogFilter{
		From: fromLocal,
		To:   toLocal,
		Type: "  fetch_error ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].EventID != "1" {
		t.Fatalf("unexpected events: %+v", out)
	}
	if frepo.calls != 1 {
		t.Fatalf("repo List should be called once, got %d", frepo.calls)
	}

	// Check normalized values passed to repo
	wantFrom := time.Date(2025, time.October, 1, 5, 0, 0, 0, time.UTC) // 10:00 +05 -> 05:00Z
	wantTo := time.Date(2025, time.October, 1, 14, 30, 0, 0, time.UTC) // 12:30 -02 -> 14:30Z

	if !frepo.got.From.Equal(wantFrom) {
		t.Fatalf("repo from=%v; want %v", frepo.got.From, wantFrom)
	}
	if !frepo.got.To.Equal(wantTo) {
		t.Fatalf("repo to=%v; want %v", frepo.got.To, wantTo)
	}
	if frepo.got.Type != "FETCH_ERROR" || frepo.got.Limit != DefaultLogLimit {
		t.Fatalf("repo type=%q limit=%d", frepo.got.Type, frepo.got.Limit)
	}
}

func TestEventLogService_List_ValidationError(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{}
	svc := NewEventLogService(frepo, nil)

	_, err := svc.List(context.Background(), LogFilter{
		From: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, errInvalidTimeRange) {
		t.Fatalf("expected errInvalidTimeRange; got %v", err)
	}
	if frepo.calls != 0 {
		t.Fatalf("repo should not be called on validation error, calls=%d", frepo.calls)
	}
}

func TestEventLogService_List_RepoErrorPropagation(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{err: errors.New("db down")}
	svc := NewEventLogService(frepo, nil)

	_, err := svc.List(context.Background(), LogFilter{})
	if !errors.Is(err, frepo.err) {
		t.Fatalf("expected repo error to propagate; got %v", err)
	}
	if frepo.calls != 1 {
		t.Fatalf("repo should be called once, calls=%d", frepo.calls)
	}
}

func TestEventLogService_List_ZeroBoundsPassedAsZero(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{}
	svc := NewEventLogService(frepo, nil)

	_, err := svc.List(context.Background(), LogFilter{
		From: time.Time{},
		To:   time.Time{},
		Type: "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !frepo.got.From.IsZero() || !frepo.got.To.IsZero() || frepo.got.Type != "" {
		t.Fatalf("expected zero bounds and empty type; got %+v", frepo.got)
	}
}

// EventLogService.Record

func TestEventLogService_Record(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{}
	svc := NewEventLogService(frepo, nil)
	svc.Record(context.Background(), models.EventFetchError, "status fetch failed", map[string]string{"pipeline": "status"})

	if len(frepo.appended) != 1 {
		t.Fatalf("appended %d events, want 1", len(frepo.appended))
	}
	got := frepo.appended[0]
	if got.Type != models.EventFetchError || got.Description != "status fetch failed" || got.OccurredAt.IsZero() {
		t.Fatalf("unexpected event: %+v", got)
	}
}

func TestEventLogService_Record_SwallowsErrorsAndNil(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{appendErr: errors.New("disk full")}
	NewEventLogService(frepo, nil).Record(context.Background(), models.EventSessionCreated, "x", nil)

	var nilSvc *EventLogService
	nilSvc.Record(context.Background(), models.EventSessionCreated, "x", nil)
	NewEventLogService(nil, nil).Record(context.Background(), models.EventSessionCreated, "x", nil)
}
