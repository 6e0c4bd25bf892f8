package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feline-finder/internal/data/entity"
	"feline-finder/internal/domain"
	"feline-finder/pkg/database"
	"feline-finder/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*entity.Booking, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]entity.Booking, error)

	// Mutate locks the row, hands it to fn and writes it back when fn reports a change.
	// A status change also appends a booking_status_events row in the same transaction.
	Mutate(ctx context.Context, orgID, id uuid.UUID, action string, fn func(b *entity.Booking) (bool, error)) (*entity.Booking, error)
}

const bookingColumns = `id, org_id, adopter_id, adopter_name, cat_id, cat_name, volunteer_id, volunteer_name,
	start_time, start_tz, end_time, end_tz, calendar_id, summary, status, notes, created_at, updated_at`

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
	now func() time.Time
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
		now: time.Now,
	}
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.OrgID,
		&b.Adopter.ID,
		&b.Adopter.Name,
		&b.Cat.ID,
		&b.Cat.Name,
		&b.Volunteer.ID,
		&b.Volunteer.Name,
		&b.StartTime,
		&b.StartTZ,
		&b.EndTime,
		&b.EndTZ,
		&b.CalendarID,
		&b.Summary,
		&b.Status,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.db.Exec(ctx, query,
		b.ID,
		b.OrgID,
		b.Adopter.ID,
		b.Adopter.Name,
		b.Cat.ID,
		b.Cat.Name,
		b.Volunteer.ID,
		b.Volunteer.Name,
		b.StartTime,
		b.StartTZ,
		b.EndTime,
		b.EndTZ,
		b.CalendarID,
		b.Summary,
		b.Status,
		b.Notes,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", b.ID.String()),
			zap.String("org_id", b.OrgID.String()),
		)
		return fmt.Errorf("create booking %s: %w", b.ID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND org_id = $2`

	b, err := scanBooking(r.db.QueryRow(ctx, query, id, orgID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return b, nil
}

// ListByOrg returns every booking of the organization in creation order. The view
// composer sorts on top of this order, so it must stay deterministic.
func (r *bookingRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE org_id = $1 ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.String("org_id", orgID.String()),
		)
		return nil, fmt.Errorf("list bookings for org %s: %w", orgID, err)
	}
	defer rows.Close()

	bookings := []entity.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Mutate(ctx context.Context, orgID, id uuid.UUID, action string, fn func(b *entity.Booking) (bool, error)) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND org_id = $2 FOR UPDATE`
	current, err := scanBooking(tx.QueryRow(ctx, query, id, orgID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "booking", ID: id.String()}
	}
	if err != nil {
		r.log.Error("Failed to lock booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("lock booking %s: %w", id, err)
	}

	working := *current
	changed, err := fn(&working)
	if err != nil {
		return nil, err
	}
	if !changed {
		return current, nil
	}

	working.UpdatedAt = r.now().UTC()
	update := `
		UPDATE bookings
		SET volunteer_id = $2, volunteer_name = $3, start_time = $4, start_tz = $5,
		    end_time = $6, end_tz = $7, summary = $8, status = $9, notes = $10, updated_at = $11
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, update,
		working.ID,
		working.Volunteer.ID,
		working.Volunteer.Name,
		working.StartTime,
		working.StartTZ,
		working.EndTime,
		working.EndTZ,
		working.Summary,
		working.Status,
		working.Notes,
		working.UpdatedAt,
	); err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("action", action),
		)
		return nil, fmt.Errorf("update booking %s: %w", id, err)
	}

	if working.Status != current.Status {
		if err := insertStatusEvent(ctx, tx, current, &working, action); err != nil {
			r.log.Error("Failed to record status event",
				zap.Error(err),
				zap.String("booking_id", id.String()),
			)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking %s: %w", id, err)
	}

	return &working, nil
}

func insertStatusEvent(ctx context.Context, tx pgx.Tx, before, after *entity.Booking, action string) error {
	var actor *uuid.UUID
	if userID, ok := utils.GetUserIDFromContext(ctx); ok {
		actor = &userID
	}

	query := `
		INSERT INTO booking_status_events (id, booking_id, org_id, from_status, to_status, action, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.Exec(ctx, query,
		uuid.New(),
		after.ID,
		after.OrgID,
		before.Status,
		after.Status,
		action,
		actor,
		after.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert status event for %s: %w", after.ID, err)
	}
	return nil
}
