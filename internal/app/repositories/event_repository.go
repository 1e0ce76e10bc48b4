package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/db"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

// IEventRepository persists campus events
type IEventRepository interface {
	List(ctx context.Context) ([]models.Event, error)
	Create(ctx context.Context, e *models.Event) error
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id int64) error
}

// EventRepository handles events database operations
type EventRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

var _ IEventRepository = (*EventRepository)(nil)

// NewEventRepository creates a new EventRepository
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var errEventNotFound = apperrors.NewResourceNotFoundError("event not found")

// List returns all events in date order
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	sql, args, err := r.sb.Select("id", "title", "description", "date", "type", "created_by", "created_at").
		From("events").
		OrderBy("date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Type, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Create inserts an event and fills in its ID and creation time
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	sql, args, err := r.sb.Insert("events").
		Columns("title", "description", "date", "type", "created_by").
		Values(e.Title, e.Description, e.Date, e.Type, e.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of an event
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	sql, args, err := r.sb.Update("events").
		Set("title", e.Title).
		Set("description", e.Description).
		Set("date", e.Date).
		Set("type", e.Type).
		Where(squirrel.Eq{"id": e.ID}).
		Suffix("RETURNING created_by, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.CreatedBy, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errEventNotFound
		}
		return fmt.Errorf("error updating event: %w", err)
	}
	return nil
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errEventNotFound
	}
	return nil
}
