package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking/internal/model"
)

// MsgClinicRequired mirrors the server text for a missing clinic id.
const MsgClinicRequired = "الرجاء تقديم معرف العيادة"

func (c *Client) CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	var booking model.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", nil, req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) CancelBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := c.do(ctx, http.MethodPut, "/bookings/"+id.String()+"/cancel", nil, nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) MyBookings(ctx context.Context) ([]*model.Booking, error) {
	var bookings []*model.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/my", nil, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

type BookingQuery struct {
	ClinicID *uuid.UUID
	UserID   *uuid.UUID
	Status   model.BookingStatus
}

// AllBookings lists every booking. It is checked against the session role
// before any request is made: no session is Unauthorized, a non-admin
// session is Forbidden.
func (c *Client) AllBookings(ctx context.Context, q BookingQuery) ([]*model.Booking, error) {
	if !c.session.IsAuthenticated() {
		c.unauthorized()
		return nil, ErrUnauthorized
	}
	if !c.session.IsAdmin() {
		return nil, ErrForbidden
	}

	query := url.Values{}
	if q.ClinicID != nil {
		query.Set("clinicId", q.ClinicID.String())
	}
	if q.UserID != nil {
		query.Set("userId", q.UserID.String())
	}
	if q.Status != "" {
		query.Set("status", string(q.Status))
	}

	var bookings []*model.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings", query, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ValidDays returns the weekday tokens a clinic accepts bookings on. The
// result may be empty or the single token "All".
func (c *Client) ValidDays(ctx context.Context, clinicID string) ([]string, error) {
	if clinicID == "" {
		return nil, validationError(MsgClinicRequired)
	}
	var resp model.ValidDaysResponse
	if err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(clinicID)+"/valid-days", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.ValidDays == nil {
		return []string{}, nil
	}
	return resp.ValidDays, nil
}
