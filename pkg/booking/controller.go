package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/pkg/schedule"
)

var (
	// ErrInvalidForm is returned by Submit when the form does not validate.
	ErrInvalidForm = errors.New("booking form is invalid")
	// ErrBusy is returned by Submit while another submission is in flight.
	ErrBusy = errors.New("booking submission in progress")
)

// API is the part of the REST client the controller needs. *client.Client
// implements it.
type API interface {
	ValidDaysSource
	ActiveClinics(ctx context.Context) ([]*model.Clinic, error)
	CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	MyBookings(ctx context.Context) ([]*model.Booking, error)
}

// State is a snapshot of the controller. Renderers may keep it; later
// changes never write to it.
type State struct {
	// Version increases with every snapshot.
	Version     uint64
	Clinics     []model.Clinic
	Form        Form
	DateDisplay string
	ValidDays   []string
	// DateEnabled is false until a clinic with at least one bookable day
	// is resolved.
	DateEnabled  bool
	Slots        []string
	SlotsMessage string
	Errors       Errors
	CanSubmit    bool
	Loading      bool
	Bookings     []model.Booking
	Notice       *Notice
}

type Render func(State)

type Option func(*Controller)

// WithClock sets the time source for the booking window.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithAfterFunc sets the timer used to dismiss notices. after must not run
// f before returning.
func WithAfterFunc(after AfterFunc) Option {
	return func(c *Controller) { c.after = after }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller owns the booking form state. Every transition updates state
// under the lock and then calls Render with a fresh snapshot. Calls that
// reach the API block the caller; they may be made from any goroutine.
type Controller struct {
	api      API
	resolver *Resolver
	render   Render
	notices  *Notices
	now      func() time.Time
	after    AfterFunc
	logger   *zap.Logger

	mu          sync.Mutex
	version     uint64
	clinics     []*model.Clinic
	form        Form
	dateDisplay string
	validDays   []string
	slots       []string
	slotsMsg    string
	loading     bool
	bookings    []*model.Booking
}

func NewController(api API, render Render, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		resolver: NewResolver(api),
		render:   render,
		now:      time.Now,
		after:    defaultAfter,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.notices = NewNotices(c.after, c.refresh)
	return c
}

// State returns the current snapshot without rendering.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// LoadClinics fetches the clinics offered by the form. Only active clinics
// are kept.
func (c *Controller) LoadClinics(ctx context.Context) error {
	c.setLoading(true)
	clinics, err := c.api.ActiveClinics(ctx)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.notices.Error(errorText(err, MsgLoadFailed))
		c.logger.Warn("failed to load clinics", zap.Error(err))
	} else {
		c.clinics = c.clinics[:0]
		for _, cl := range clinics {
			if cl.Status == model.ClinicStatusActive {
				c.clinics = append(c.clinics, cl)
			}
		}
		if len(c.clinics) == 0 {
			c.notices.Error(MsgNoClinics)
		}
	}
	c.commitLocked()
	return err
}

// LoadMyBookings replaces the local list with the caller's bookings.
func (c *Controller) LoadMyBookings(ctx context.Context) error {
	c.setLoading(true)
	bookings, err := c.api.MyBookings(ctx)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.notices.Error(errorText(err, MsgLoadFailed))
	} else {
		c.bookings = bookings
	}
	c.commitLocked()
	return err
}

// Edit changes the plain fields of the form. Clinic, date and time keep
// their values; they change only through their own handlers.
func (c *Controller) Edit(fn func(*Form)) {
	c.mu.Lock()
	clinicID, date, slot := c.form.ClinicID, c.form.Date, c.form.Time
	fn(&c.form)
	c.form.ClinicID, c.form.Date, c.form.Time = clinicID, date, slot
	c.commitLocked()
}

// OnClinicChange clears date, time, valid days and slots and then resolves
// the new clinic's availability. A response that arrives after a later
// clinic change is dropped. On failure the cleared state is kept and an
// error notice is shown.
func (c *Controller) OnClinicChange(ctx context.Context, clinicID string) error {
	c.mu.Lock()
	c.form.ClinicID = clinicID
	c.form.Date = time.Time{}
	c.form.Time = ""
	c.dateDisplay = ""
	c.validDays = nil
	c.slots = nil
	c.slotsMsg = ""
	lookup := c.resolver.Begin(clinicID)
	c.commitLocked()

	if clinicID == "" {
		return nil
	}

	days, err := lookup.Fetch(ctx)

	c.mu.Lock()
	if !lookup.Current() {
		c.mu.Unlock()
		c.logger.Debug("dropped stale availability",
			zap.String("clinic_id", clinicID), zap.Uint64("request_id", lookup.ID))
		return nil
	}
	if err != nil {
		c.notices.Error(errorText(err, MsgLoadFailed))
		c.commitLocked()
		return err
	}
	c.validDays = days
	c.recomputeSlotsLocked()
	c.commitLocked()
	return nil
}

// OnDateChange sets the date and clears the time. A zero date clears the
// selection.
func (c *Controller) OnDateChange(date time.Time) {
	c.mu.Lock()
	c.form.Date = date
	c.form.Time = ""
	c.dateDisplay = ""
	if !date.IsZero() {
		c.dateDisplay = schedule.DisplayDate(date)
	}
	c.recomputeSlotsLocked()
	c.commitLocked()
}

// SelectTime picks a slot. Times outside the offered slots are ignored.
func (c *Controller) SelectTime(slot string) bool {
	c.mu.Lock()
	offered := false
	for _, s := range c.slots {
		if s == slot {
			offered = true
			break
		}
	}
	if offered {
		c.form.Time = slot
	}
	c.commitLocked()
	return offered
}

// Submit validates the form and creates the booking. On success the
// booking is appended to the local list and the form is cleared.
func (c *Controller) Submit(ctx context.Context) (*model.Booking, error) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if !Validate(c.form, c.validDays, c.now()).Valid() {
		c.notices.Error(MsgFormInvalid)
		c.commitLocked()
		return nil, ErrInvalidForm
	}
	req := c.form.Request()
	c.loading = true
	c.commitLocked()

	booking, err := c.api.CreateBooking(ctx, req)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.notices.Error(errorText(err, MsgCreateFailed))
		c.commitLocked()
		c.logger.Warn("failed to create booking", zap.String("clinic_id", req.ClinicID), zap.Error(err))
		return nil, err
	}
	c.bookings = append(c.bookings, booking)
	c.notices.Success(fmt.Sprintf(MsgCreated, booking.ConfirmationCode))
	c.resetLocked()
	c.commitLocked()
	return booking, nil
}

// Cancel cancels a booking and marks the matching local entry cancelled.
// Order and the other entries are unchanged. An id that is not in the
// local list leaves it untouched.
func (c *Controller) Cancel(ctx context.Context, id uuid.UUID) error {
	_, err := c.api.CancelBooking(ctx, id)

	c.mu.Lock()
	if err != nil {
		c.notices.Error(errorText(err, MsgCancelFailed))
		c.commitLocked()
		return err
	}
	for i, b := range c.bookings {
		if b.ID == id {
			updated := *b
			updated.Status = model.BookingStatusCancelled
			c.bookings[i] = &updated
			break
		}
	}
	c.notices.Success(MsgCancelled)
	c.commitLocked()
	return nil
}

// Reset clears the form and the availability state.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.resetLocked()
	c.commitLocked()
}

// resetLocked also starts an empty lookup so that availability still in
// flight is dropped when it arrives.
func (c *Controller) resetLocked() {
	c.resolver.Begin("")
	c.form = Form{}
	c.dateDisplay = ""
	c.validDays = nil
	c.slots = nil
	c.slotsMsg = ""
}

func (c *Controller) recomputeSlotsLocked() {
	c.slots = nil
	c.slotsMsg = ""
	if c.form.ClinicID == "" || c.form.Date.IsZero() {
		return
	}
	c.slots = Slots(c.validDays)
	if len(c.slots) == 0 {
		c.slotsMsg = MsgNoSlots
	}
}

func (c *Controller) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.commitLocked()
}

// refresh renders the current state; used when a notice expires.
func (c *Controller) refresh() {
	c.mu.Lock()
	c.commitLocked()
}

// commitLocked takes a snapshot, releases the lock and renders.
func (c *Controller) commitLocked() {
	c.version++
	s := c.snapshotLocked()
	c.mu.Unlock()
	if c.render != nil {
		c.render(s)
	}
}

func (c *Controller) snapshotLocked() State {
	errs := Validate(c.form, c.validDays, c.now())
	s := State{
		Version:      c.version,
		Form:         c.form,
		DateDisplay:  c.dateDisplay,
		ValidDays:    append([]string(nil), c.validDays...),
		DateEnabled:  c.form.ClinicID != "" && schedule.HasAvailability(c.validDays),
		Slots:        append([]string(nil), c.slots...),
		SlotsMessage: c.slotsMsg,
		Errors:       errs,
		CanSubmit:    errs.Valid() && !c.loading,
		Loading:      c.loading,
		Notice:       c.notices.Current(),
	}
	if c.validDays != nil && s.ValidDays == nil {
		s.ValidDays = []string{}
	}
	s.Clinics = make([]model.Clinic, len(c.clinics))
	for i, cl := range c.clinics {
		s.Clinics[i] = *cl
	}
	s.Bookings = make([]model.Booking, len(c.bookings))
	for i, b := range c.bookings {
		s.Bookings[i] = *b
	}
	return s
}
