package repository

import (
	"context"
	"fmt"

	"feline-finder/internal/data/entity"
	"feline-finder/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusEventRepository reads the history written by BookingRepository.Mutate.
type StatusEventRepository interface {
	ListByBooking(ctx context.Context, orgID, bookingID uuid.UUID) ([]entity.StatusEvent, error)
}

type statusEventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStatusEventRepository(db database.PgxIface, log *zap.Logger) StatusEventRepository {
	return &statusEventRepository{
		db:  db,
		log: log.With(zap.String("repository", "status_event")),
	}
}

func (r *statusEventRepository) ListByBooking(ctx context.Context, orgID, bookingID uuid.UUID) ([]entity.StatusEvent, error) {
	query := `
		SELECT id, booking_id, org_id, from_status, to_status, action, actor_id, created_at
		FROM booking_status_events
		WHERE booking_id = $1 AND org_id = $2
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, bookingID, orgID)
	if err != nil {
		r.log.Error("Failed to list status events",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("list status events for %s: %w", bookingID, err)
	}
	defer rows.Close()

	events := []entity.StatusEvent{}
	for rows.Next() {
		var ev entity.StatusEvent
		if err := rows.Scan(
			&ev.ID,
			&ev.BookingID,
			&ev.OrgID,
			&ev.FromStatus,
			&ev.ToStatus,
			&ev.Action,
			&ev.ActorID,
			&ev.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan status event row", zap.Error(err))
			return nil, fmt.Errorf("scan status event row: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status event rows: %w", err)
	}

	return events, nil
}
