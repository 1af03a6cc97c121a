package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"fermentation_dashboard/internal/models"

	"github.com/google/uuid"
)

const (
	sqliteTimeLayout = "2006-01-02 15:04:05"

	insertEventSQL = `
		INSERT INTO dashboard_events (id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?)
	`

	selectEventsSQL = `SELECT id, occurred_at, type, message, meta FROM dashboard_events`
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

// Append inserts a new event, filling in a missing EventID or OccurredAt.
func (r *EventSQLite) Append(ctx context.Context, e models.DashboardEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.OccurredAt.Format(sqliteTimeLayout),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Description,
		marshalMeta(e.Metadata),
	)
	return err
}

// marshalMeta returns nil for absent or unencodable metadata.
func marshalMeta(v any) *string {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// List returns the events matching q in chronological order. With a limit
// the newest q.Limit matches are kept.
func (r *EventSQLite) List(ctx context.Context, q EventQuery) ([]models.DashboardEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !q.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, q.From.UTC().Format(sqliteTimeLayout))
	}
	if !q.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, q.To.UTC().Format(sqliteTimeLayout))
	}
	if typ := strings.ToUpper(strings.TrimSpace(q.Type)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	query := selectEventsSQL
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if q.Limit > 0 {
		query += " ORDER BY occurred_at DESC LIMIT ?"
		args = append(args, q.Limit)
	} else {
		query += " ORDER BY occurred_at ASC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DashboardEvent, 0, 32)
	for rows.Next() {
		var ev models.DashboardEvent
		var metaStr sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Description, &metaStr); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if q.Limit > 0 {
		slices.Reverse(out)
	}
	return out, nil
}
