package model

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	Base
	UserID           *uuid.UUID    `json:"user,omitempty" db:"user_id"`
	ClinicID         uuid.UUID     `json:"clinicId" db:"clinic_id"`
	ClinicName       string        `json:"clinicName,omitempty" db:"clinic_name"`
	Date             string        `json:"date" db:"date"`
	Time             string        `json:"time,omitempty" db:"time"`
	ClientName       string        `json:"clientName" db:"client_name"`
	ClientAge        int           `json:"clientAge,omitempty" db:"client_age"`
	ClientPhone      string        `json:"clientPhone" db:"client_phone"`
	ClientAddress    string        `json:"clientAddress" db:"client_address"`
	ClientEmail      string        `json:"clientEmail" db:"client_email"`
	Notes            string        `json:"notes,omitempty" db:"notes"`
	Status           BookingStatus `json:"status" db:"status"`
	BookingNumber    int64         `json:"bookingNumber" db:"booking_number"`
	ConfirmationCode string        `json:"confirmationCode" db:"confirmation_code"`
}

// CreateBookingRequest is the wire payload of POST /bookings. ClinicID is
// checked by the service so that a missing id gets its own message.
type CreateBookingRequest struct {
	ClientName    string `json:"clientName" binding:"required,min=3"`
	ClientAge     int    `json:"clientAge" binding:"omitempty,min=1"`
	ClientPhone   string `json:"clientPhone" binding:"required,phone"`
	ClientAddress string `json:"clientAddress" binding:"required,min=5"`
	ClientEmail   string `json:"clientEmail" binding:"required,email"`
	ClinicID      string `json:"clinicId"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	Notes         string `json:"notes"`
}

type BookingFilter struct {
	UserID   *uuid.UUID
	ClinicID *uuid.UUID
	Status   BookingStatus
}
