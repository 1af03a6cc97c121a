package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fermentation_dashboard/internal/models"
)

var errEmptyWidget = errors.New("widget name is empty")

type WidgetSQLite struct {
	db *sql.DB
}

func NewWidgetSQLite(db *sql.DB) *WidgetSQLite {
	return &WidgetSQLite{db: db}
}

const (
	upsertWidgetSQL = `
		INSERT INTO widget_state (widget, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(widget) DO UPDATE SET
			payload=excluded.payload,
			updated_at=excluded.updated_at
	`

	selectWidgetsSQL = `SELECT widget, payload, updated_at FROM widget_state ORDER BY widget ASC`
)

// Save inserts or replaces the row of w.Widget. A zero UpdatedAt is set to now.
func (r *WidgetSQLite) Save(ctx context.Context, w models.WidgetState) error {
	name := strings.TrimSpace(w.Widget)
	if name == "" {
		return errEmptyWidget
	}

	ts := w.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	if _, err := r.db.ExecContext(ctx, upsertWidgetSQL, name, string(w.Payload), ts); err != nil {
		return fmt.Errorf("save widget %q: %w", name, err)
	}
	return nil
}

// List returns every stored widget ordered by name.
func (r *WidgetSQLite) List(ctx context.Context) ([]models.WidgetState, error) {
	rows, err := r.db.QueryContext(ctx, selectWidgetsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WidgetState
	for rows.Next() {
		var (
			w       models.WidgetState
			payload string
		)
		if err := rows.Scan(&w.Widget, &payload, &w.UpdatedAt); err != nil {
			return nil, err
		}
		w.Payload = []byte(payload)
		w.UpdatedAt = w.UpdatedAt.UTC()
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
