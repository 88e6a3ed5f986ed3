package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/internal/repository"
)

const bookingSelect = `
	SELECT
		b.id, b.user_id, b.clinic_id, c.name AS clinic_name, to_char(b.date, 'YYYY-MM-DD') AS date,
		b.time, b.client_name, b.client_age, b.client_phone, b.client_address, b.client_email,
		b.notes, b.status, b.booking_number, b.confirmation_code, b.created_at, b.updated_at
	FROM bookings b
	JOIN clinics c ON c.id = b.clinic_id
`

const uniqueViolation = "23505"

type bookingRepository struct {
	BaseRepository
}

func NewBookingRepository(base BaseRepository) repository.BookingRepository {
	return &bookingRepository{base}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking, event *model.OutboxEvent) error {
	query := `
		INSERT INTO bookings (
			id, user_id, clinic_id, date, time, client_name, client_age, client_phone,
			client_address, client_email, notes, status, confirmation_code, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING booking_number
	`
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &booking.BookingNumber, query,
			booking.ID,
			booking.UserID,
			booking.ClinicID,
			booking.Date,
			booking.Time,
			booking.ClientName,
			booking.ClientAge,
			booking.ClientPhone,
			booking.ClientAddress,
			booking.ClientEmail,
			booking.Notes,
			booking.Status,
			booking.ConfirmationCode,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return repository.ErrSlotTaken
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}
		if event == nil {
			return nil
		}
		return insertOutboxEvent(ctx, tx, event)
	})
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, bookingSelect+` WHERE b.id = $1`, id); err != nil {
		return nil, notFound(err, "booking")
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("b.user_id = $%d", len(args)))
	}
	if filter.ClinicID != nil {
		args = append(args, *filter.ClinicID)
		conds = append(conds, fmt.Sprintf("b.clinic_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("b.status = $%d", len(args)))
	}

	query := bookingSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY b.created_at DESC"

	bookings := []*model.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus, event *model.OutboxEvent) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`,
			status, id,
		)
		if err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}
		if err := expectAffected(res, "booking"); err != nil {
			return err
		}
		if event == nil {
			return nil
		}
		return insertOutboxEvent(ctx, tx, event)
	})
}

func (r *bookingRepository) SlotTaken(ctx context.Context, clinicID uuid.UUID, date, slot string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE clinic_id = $1 AND date = $2 AND time = $3 AND status <> 'cancelled'
		)
	`
	var taken bool
	if err := r.db.GetContext(ctx, &taken, query, clinicID, date, slot); err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return taken, nil
}
