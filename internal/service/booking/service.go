package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/internal/repository"
	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
	"github.com/jwalitptl/clinic-booking/pkg/logger"
	"github.com/jwalitptl/clinic-booking/pkg/metrics"
	"github.com/jwalitptl/clinic-booking/pkg/schedule"
)

// Messages returned to clients. The booking workflow translates them.
const (
	MsgClinicIDRequired = "الرجاء تقديم معرف العيادة"
	MsgClinicNotFound   = "العيادة غير موجودة"
	MsgSlotUnavailable  = "الموعد غير متاح"
	MsgInvalidDate      = "التاريخ غير صالح"
	MsgDateOutOfRange   = "يجب أن يكون التاريخ خلال الأشهر الثلاثة القادمة"
	MsgInvalidTime      = "الوقت غير صالح"
	MsgBookingNotFound  = "الحجز غير موجود"
	MsgNotAuthorized    = "غير مصرح"
	MsgAlreadyCancelled = "الحجز ملغي بالفعل"
)

const confirmationCodeLength = 8

// ClinicReader is the clinic lookup the booking rules need.
type ClinicReader interface {
	GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	ValidDays(ctx context.Context, id uuid.UUID) ([]string, error)
}

// Actor is the authenticated caller of a booking operation.
type Actor struct {
	UserID uuid.UUID
	Role   model.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

type BookingServicer interface {
	CreateBooking(ctx context.Context, actor Actor, req *model.CreateBookingRequest) (*model.Booking, error)
	CancelBooking(ctx context.Context, actor Actor, id uuid.UUID) (*model.Booking, error)
	ListMyBookings(ctx context.Context, actor Actor) ([]*model.Booking, error)
	ListBookings(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error)
	ValidDays(ctx context.Context, clinicID uuid.UUID) ([]string, error)
}

type Service struct {
	repo    repository.BookingRepository
	clinics ClinicReader
	metrics *metrics.Metrics
	logger  *logger.Logger
	now     func() time.Time
}

func NewService(repo repository.BookingRepository, clinics ClinicReader, m *metrics.Metrics, logger *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		clinics: clinics,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

type bookingEvent struct {
	BookingID        uuid.UUID           `json:"bookingId"`
	UserID           *uuid.UUID          `json:"userId,omitempty"`
	ClinicID         uuid.UUID           `json:"clinicId"`
	Date             string              `json:"date"`
	Time             string              `json:"time"`
	ClientEmail      string              `json:"clientEmail"`
	ConfirmationCode string              `json:"confirmationCode"`
	Status           model.BookingStatus `json:"status"`
}

func (s *Service) CreateBooking(ctx context.Context, actor Actor, req *model.CreateBookingRequest) (*model.Booking, error) {
	clinicID := strings.TrimSpace(req.ClinicID)
	if clinicID == "" {
		return nil, s.reject("missing_clinic", apperrors.BadRequest(MsgClinicIDRequired, nil))
	}
	id, err := uuid.Parse(clinicID)
	if err != nil {
		return nil, s.reject("clinic_not_found", apperrors.BadRequest(MsgClinicNotFound, err))
	}

	clinic, err := s.clinics.GetClinic(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, s.reject("clinic_not_found", apperrors.BadRequest(MsgClinicNotFound, err))
		}
		return nil, apperrors.Internal(err)
	}
	if clinic.Status != model.ClinicStatusActive {
		return nil, s.reject("clinic_inactive", apperrors.BadRequest(MsgClinicNotFound, nil))
	}

	if err := s.checkSlot(ctx, clinic, req.Date, req.Time); err != nil {
		return nil, err
	}

	var userID *uuid.UUID
	if actor.UserID != uuid.Nil {
		uid := actor.UserID
		userID = &uid
	}
	booking := &model.Booking{
		Base:             model.Base{ID: uuid.New()},
		UserID:           userID,
		ClinicID:         clinic.ID,
		ClinicName:       clinic.Name,
		Date:             req.Date,
		Time:             req.Time,
		ClientName:       req.ClientName,
		ClientAge:        req.ClientAge,
		ClientPhone:      req.ClientPhone,
		ClientAddress:    req.ClientAddress,
		ClientEmail:      req.ClientEmail,
		Notes:            req.Notes,
		Status:           model.BookingStatusPending,
		ConfirmationCode: newConfirmationCode(),
	}

	event, err := newEvent(model.EventBookingCreated, booking)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.repo.Create(ctx, booking, event); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, s.reject("slot_taken", apperrors.BadRequest(MsgSlotUnavailable, err))
		}
		return nil, apperrors.Internal(err)
	}

	s.metrics.BookingsCreated.Inc()
	s.logger.Info("Booking created",
		"booking_id", booking.ID.String(),
		"clinic_id", booking.ClinicID.String(),
		"booking_number", booking.BookingNumber)
	return booking, nil
}

// checkSlot enforces the booking window, the clinic's weekdays and the slot
// template, then checks the slot against active bookings.
func (s *Service) checkSlot(ctx context.Context, clinic *model.Clinic, date, slot string) error {
	day, err := schedule.ParseDate(date)
	if err != nil {
		return s.reject("bad_date", apperrors.BadRequest(MsgInvalidDate, err))
	}
	if err := schedule.InWindow(day, s.now()); err != nil {
		return s.reject("out_of_window", apperrors.BadRequest(MsgDateOutOfRange, err))
	}
	if err := schedule.ValidateDate(day, clinic.AvailableDays); err != nil {
		return s.reject("invalid_day", apperrors.BadRequest(DayUnavailableMessage(err), err))
	}
	if !schedule.IsSlot(slot) {
		return s.reject("bad_slot", apperrors.BadRequest(MsgInvalidTime, nil))
	}

	taken, err := s.repo.SlotTaken(ctx, clinic.ID, schedule.FormatDate(day), slot)
	if err != nil {
		return apperrors.Internal(err)
	}
	if taken {
		return s.reject("slot_taken", apperrors.BadRequest(MsgSlotUnavailable, nil))
	}
	return nil
}

func (s *Service) CancelBooking(ctx context.Context, actor Actor, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound(MsgBookingNotFound, err)
		}
		return nil, apperrors.Internal(err)
	}

	owner := booking.UserID != nil && *booking.UserID == actor.UserID
	if !owner && !actor.IsAdmin() {
		return nil, apperrors.Forbidden(MsgNotAuthorized, nil)
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil, apperrors.BadRequest(MsgAlreadyCancelled, nil)
	}

	booking.Status = model.BookingStatusCancelled
	event, err := newEvent(model.EventBookingCancelled, booking)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.repo.UpdateStatus(ctx, id, model.BookingStatusCancelled, event); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound(MsgBookingNotFound, err)
		}
		return nil, apperrors.Internal(err)
	}

	s.metrics.BookingsCancelled.Inc()
	return booking, nil
}

func (s *Service) ListMyBookings(ctx context.Context, actor Actor) ([]*model.Booking, error) {
	userID := actor.UserID
	return s.ListBookings(ctx, model.BookingFilter{UserID: &userID})
}

func (s *Service) ListBookings(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	bookings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list bookings: %w", err))
	}
	return bookings, nil
}

func (s *Service) ValidDays(ctx context.Context, clinicID uuid.UUID) ([]string, error) {
	days, err := s.clinics.ValidDays(ctx, clinicID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound(MsgClinicNotFound, err)
		}
		return nil, apperrors.Internal(err)
	}
	return days, nil
}

// DayUnavailableMessage names the rejected weekday, e.g.
// "يوم الأربعاء غير متاح لهذه العيادة".
func DayUnavailableMessage(err error) string {
	var dateErr *schedule.InvalidDateError
	if errors.As(err, &dateErr) {
		return dateErr.Message()
	}
	return MsgInvalidDate
}

func (s *Service) reject(reason string, err *apperrors.AppError) *apperrors.AppError {
	s.metrics.BookingsRejected.WithLabelValues(reason).Inc()
	return err
}

func newEvent(eventType string, b *model.Booking) (*model.OutboxEvent, error) {
	payload, err := json.Marshal(bookingEvent{
		BookingID:        b.ID,
		UserID:           b.UserID,
		ClinicID:         b.ClinicID,
		Date:             b.Date,
		Time:             b.Time,
		ClientEmail:      b.ClientEmail,
		ConfirmationCode: b.ConfirmationCode,
		Status:           b.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking event: %w", err)
	}
	return &model.OutboxEvent{EventType: eventType, Payload: payload}, nil
}

func newConfirmationCode() string {
	code := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(code[:confirmationCodeLength])
}
