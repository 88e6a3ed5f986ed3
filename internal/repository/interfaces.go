package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-booking/internal/model"
)

// ErrSlotTaken is returned when a booking collides with an active booking
// for the same clinic, date and time.
var ErrSlotTaken = errors.New("slot already booked")

type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		List(ctx context.Context, filter model.UserFilter) ([]*model.User, error)
		Update(ctx context.Context, user *model.User) error
		UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
		Delete(ctx context.Context, id uuid.UUID) error
	}

	TokenRepository interface {
		StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error
		ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error)
	}

	ClinicRepository interface {
		Create(ctx context.Context, clinic *model.Clinic) error
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		List(ctx context.Context, filter model.ClinicFilter) ([]*model.Clinic, error)
		Update(ctx context.Context, clinic *model.Clinic) error
		Delete(ctx context.Context, id uuid.UUID) error
		GetAvailableDays(ctx context.Context, id uuid.UUID) ([]string, error)
		AddVideos(ctx context.Context, clinicID uuid.UUID, videos []model.Video) error
		DeleteVideo(ctx context.Context, clinicID, videoID uuid.UUID) (*model.Video, error)
		AddDoctors(ctx context.Context, clinicID uuid.UUID, doctorIDs []uuid.UUID) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		List(ctx context.Context) ([]*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
	}

	BookingRepository interface {
		// Create inserts the booking and its outbox event atomically and
		// fills in the server-assigned booking number.
		Create(ctx context.Context, booking *model.Booking, event *model.OutboxEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus, event *model.OutboxEvent) error
		SlotTaken(ctx context.Context, clinicID uuid.UUID, date, slot string) (bool, error)
	}

	TestimonialRepository interface {
		Create(ctx context.Context, t *model.Testimonial) error
		Get(ctx context.Context, id uuid.UUID) (*model.Testimonial, error)
		List(ctx context.Context) ([]*model.Testimonial, error)
		Update(ctx context.Context, t *model.Testimonial) error
		Delete(ctx context.Context, id uuid.UUID) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		BeginTx(ctx context.Context) (*sqlx.Tx, error)
		GetPendingEventsWithLock(ctx context.Context, tx *sqlx.Tx, limit int) ([]*model.OutboxEvent, error)
		UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error
		MoveToDeadLetter(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
