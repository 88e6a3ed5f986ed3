package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/internal/repository"
	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
	"github.com/jwalitptl/clinic-booking/pkg/logger"
	"github.com/jwalitptl/clinic-booking/pkg/metrics"
	"github.com/jwalitptl/clinic-booking/pkg/schedule"
)

// today is a Saturday; 2026-10-19 is the Monday after.
var today = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*model.Booking
	order    []uuid.UUID
	events   []*model.OutboxEvent
	next     int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*model.Booking{}}
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *model.Booking, event *model.OutboxEvent) error {
	for _, existing := range r.bookings {
		if existing.ClinicID == b.ClinicID && existing.Date == b.Date && existing.Time == b.Time &&
			existing.Status != model.BookingStatusCancelled {
			return repository.ErrSlotTaken
		}
	}
	r.next++
	b.BookingNumber = r.next
	cp := *b
	r.bookings[b.ID] = &cp
	r.order = append(r.order, b.ID)
	r.events = append(r.events, event)
	return nil
}

func (r *fakeBookingRepo) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking: %w", apperrors.ErrRecordNotFound)
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	out := []*model.Booking{}
	for _, id := range r.order {
		b := r.bookings[id]
		if filter.UserID != nil && (b.UserID == nil || *b.UserID != *filter.UserID) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus, event *model.OutboxEvent) error {
	b, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking: %w", apperrors.ErrRecordNotFound)
	}
	b.Status = status
	r.events = append(r.events, event)
	return nil
}

func (r *fakeBookingRepo) SlotTaken(ctx context.Context, clinicID uuid.UUID, date, slot string) (bool, error) {
	for _, b := range r.bookings {
		if b.ClinicID == clinicID && b.Date == date && b.Time == slot && b.Status != model.BookingStatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

type fakeClinics struct {
	clinics map[uuid.UUID]*model.Clinic
}

func (f *fakeClinics) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	c, ok := f.clinics[id]
	if !ok {
		return nil, apperrors.NotFound(MsgClinicNotFound, apperrors.ErrRecordNotFound)
	}
	return c, nil
}

func (f *fakeClinics) ValidDays(ctx context.Context, id uuid.UUID) ([]string, error) {
	c, err := f.GetClinic(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.AvailableDays, nil
}

type fixture struct {
	svc     *Service
	repo    *fakeBookingRepo
	metrics *metrics.Metrics
	dental  *model.Clinic
	patient Actor
}

func newFixture() *fixture {
	dental := &model.Clinic{
		Base:          model.Base{ID: uuid.New()},
		Name:          "Dental",
		Status:        model.ClinicStatusActive,
		AvailableDays: []string{"Monday", "Tuesday"},
	}
	repo := newFakeBookingRepo()
	m := metrics.New("test")
	svc := NewService(repo, &fakeClinics{clinics: map[uuid.UUID]*model.Clinic{dental.ID: dental}}, m,
		logger.New(logger.Config{Output: io.Discard}))
	svc.now = func() time.Time { return today }
	return &fixture{
		svc:     svc,
		repo:    repo,
		metrics: m,
		dental:  dental,
		patient: Actor{UserID: uuid.New(), Role: model.RolePatient},
	}
}

func (f *fixture) request(date, slot string) *model.CreateBookingRequest {
	return &model.CreateBookingRequest{
		ClientName:    "Sara Ahmed",
		ClientAge:     29,
		ClientPhone:   "+201234567890",
		ClientAddress: "12 Nile St",
		ClientEmail:   "sara@example.com",
		ClinicID:      f.dental.ID.String(),
		Date:          date,
		Time:          slot,
		Notes:         "first visit",
	}
}

func assertAppError(t *testing.T, err error, code apperrors.ErrorCode, message string) {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, message, appErr.Message)
}

func TestCreateBooking_AssignsNumberAndCode(t *testing.T) {
	f := newFixture()

	booking, err := f.svc.CreateBooking(context.Background(), f.patient, f.request("2026-10-19", "10:00"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), booking.BookingNumber)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), booking.ConfirmationCode)
	assert.Equal(t, model.BookingStatusPending, booking.Status)
	assert.Equal(t, "Dental", booking.ClinicName)
	require.NotNil(t, booking.UserID)
	assert.Equal(t, f.patient.UserID, *booking.UserID)

	require.Len(t, f.repo.events, 1)
	assert.Equal(t, model.EventBookingCreated, f.repo.events[0].EventType)
	assert.Contains(t, string(f.repo.events[0].Payload), booking.ConfirmationCode)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.BookingsCreated))
}

func TestCreateBooking_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *fixture, req *model.CreateBookingRequest)
		message string
		reason  string
	}{
		{
			name:    "missing clinic id",
			mutate:  func(f *fixture, req *model.CreateBookingRequest) { req.ClinicID = " " },
			message: MsgClinicIDRequired,
			reason:  "missing_clinic",
		},
		{
			name:    "malformed clinic id",
			mutate:  func(f *fixture, req *model.CreateBookingRequest) { req.ClinicID = "dental" },
			message: MsgClinicNotFound,
			reason:  "clinic_not_found",
		},
		{
			name:    "unknown clinic",
			mutate:  func(f *fixture, req *model.CreateBookingRequest) { req.ClinicID = uuid.NewString() },
			message: MsgClinicNotFound,
			reason:  "clinic_not_found",
		},
		{
			name: "inactive clinic",
			mutate: func(f *fixture, req *model.CreateBookingRequest) {
				f.dental.Status = model.ClinicStatusInactive
			},
			message: MsgClinicNotFound,
			reason:  "clinic_inactive",
		},
		{
			name:    "wednesday not offered",
			mutate:  func(f *fixture, req *model.CreateBookingRequest) { req.Date = "2026-10-21" },
			message: "يوم الأربعاء غير متاح لهذه العيادة",
			reason:  "invalid_day",
		},
		{
			name:    "date in the past",
			mutate:  func(f *fixture, req *model.CreateBookingRequest) { req.Date = "2026-10-12" },
			message: MsgDateOutOfRange,
			reason:  "out_of_window",
		},
		{
			name:    "beyond three months",
			mutate:  func(f *fixture, req *model.CreateBookingRequest) { req.Date = "2027-02-01" },
			message: MsgDateOutOfRange,
			reason:  "out_of_window",
		},
		{
			name:    "unparseable date",
			mutate:  func(f *fixture, req *model.CreateBookingRequest) { req.Date = "19/10/2026" },
			message: MsgInvalidDate,
			reason:  "bad_date",
		},
		{
			name:    "slot outside template",
			mutate:  func(f *fixture, req *model.CreateBookingRequest) { req.Time = "09:15" },
			message: MsgInvalidTime,
			reason:  "bad_slot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := f.request("2026-10-19", "10:00")
			tt.mutate(f, req)

			_, err := f.svc.CreateBooking(context.Background(), f.patient, req)
			assertAppError(t, err, apperrors.ErrBadRequest, tt.message)
			assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.BookingsRejected.WithLabelValues(tt.reason)))
			assert.Empty(t, f.repo.bookings)
		})
	}
}

func TestCreateBooking_SlotTakenUntilCancelled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.CreateBooking(ctx, f.patient, f.request("2026-10-19", "10:00"))
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, f.patient, f.request("2026-10-19", "10:00"))
	assertAppError(t, err, apperrors.ErrBadRequest, MsgSlotUnavailable)

	_, err = f.svc.CancelBooking(ctx, f.patient, first.ID)
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, f.patient, f.request("2026-10-19", "10:00"))
	assert.NoError(t, err)
}

func TestCreateBooking_AllDaysClinic(t *testing.T) {
	f := newFixture()
	f.dental.AvailableDays = []string{"All"}

	for d := 19; d <= 25; d++ {
		_, err := f.svc.CreateBooking(context.Background(), f.patient,
			f.request(fmt.Sprintf("2026-10-%02d", d), "11:00"))
		assert.NoError(t, err, "day %d", d)
	}
}

func TestCreateBooking_NoDaysClinic(t *testing.T) {
	f := newFixture()
	f.dental.AvailableDays = []string{}

	_, err := f.svc.CreateBooking(context.Background(), f.patient, f.request("2026-10-19", "10:00"))
	assertAppError(t, err, apperrors.ErrBadRequest, "يوم الإثنين غير متاح لهذه العيادة")
	assert.ErrorIs(t, err, schedule.ErrInvalidDate)
}

func TestDayUnavailableMessage(t *testing.T) {
	err := schedule.ValidateDate(time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC), []string{"Monday"})
	assert.Equal(t, "يوم الجمعة غير متاح لهذه العيادة", DayUnavailableMessage(err))
	assert.Equal(t, MsgInvalidDate, DayUnavailableMessage(errors.New("boom")))
}

func TestCancelBooking_RoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.CreateBooking(ctx, f.patient, f.request("2026-10-20", "14:00"))
	require.NoError(t, err)

	_, err = f.svc.CancelBooking(ctx, f.patient, created.ID)
	require.NoError(t, err)

	mine, err := f.svc.ListMyBookings(ctx, f.patient)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	got := mine[0]
	assert.Equal(t, model.BookingStatusCancelled, got.Status)
	want := *created
	want.Status = model.BookingStatusCancelled
	assert.Equal(t, want, *got)

	require.Len(t, f.repo.events, 2)
	assert.Equal(t, model.EventBookingCancelled, f.repo.events[1].EventType)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.BookingsCancelled))
}

func TestCancelBooking_Authorization(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.CreateBooking(ctx, f.patient, f.request("2026-10-20", "14:00"))
	require.NoError(t, err)

	stranger := Actor{UserID: uuid.New(), Role: model.RolePatient}
	_, err = f.svc.CancelBooking(ctx, stranger, created.ID)
	assertAppError(t, err, apperrors.ErrForbidden, MsgNotAuthorized)

	admin := Actor{UserID: uuid.New(), Role: model.RoleAdmin}
	_, err = f.svc.CancelBooking(ctx, admin, created.ID)
	require.NoError(t, err)

	_, err = f.svc.CancelBooking(ctx, f.patient, created.ID)
	assertAppError(t, err, apperrors.ErrBadRequest, MsgAlreadyCancelled)
}

func TestCancelBooking_Unknown(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CancelBooking(context.Background(), f.patient, uuid.New())
	assertAppError(t, err, apperrors.ErrNotFound, MsgBookingNotFound)
}

func TestListMyBookings_OnlyOwn(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	other := Actor{UserID: uuid.New(), Role: model.RolePatient}

	_, err := f.svc.CreateBooking(ctx, f.patient, f.request("2026-10-19", "09:00"))
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(ctx, other, f.request("2026-10-19", "10:00"))
	require.NoError(t, err)

	mine, err := f.svc.ListMyBookings(ctx, f.patient)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.svc.ListBookings(ctx, model.BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestValidDays(t *testing.T) {
	f := newFixture()

	days, err := f.svc.ValidDays(context.Background(), f.dental.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Tuesday"}, days)

	_, err = f.svc.ValidDays(context.Background(), uuid.New())
	assertAppError(t, err, apperrors.ErrNotFound, MsgClinicNotFound)
}
