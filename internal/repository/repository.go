package repository

import (
	"context"
	"database/sql"
	"time"

	"fermentation_dashboard/internal/models"
)

// WidgetRepo keeps the last rendered payload of every dashboard widget.
type WidgetRepo interface {
	Save(ctx context.Context, w models.WidgetState) error
	List(ctx context.Context) ([]models.WidgetState, error)
}

// EventQuery selects events. Zero bounds and an empty type match
// everything; a positive Limit keeps only the newest Limit events.
type EventQuery struct {
	From  time.Time
	To    time.Time
	Type  string
	Limit int
}

type EventRepo interface {
	Append(ctx context.Context, e models.DashboardEvent) error
	List(ctx context.Context, q EventQuery) ([]models.DashboardEvent, error)
}

type Repository struct {
	WidgetRepo WidgetRepo
	EventRepo  EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		WidgetRepo: NewWidgetSQLite(db),
		EventRepo:  NewEventSQLite(db),
	}
}
