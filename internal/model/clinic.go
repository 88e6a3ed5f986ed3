package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ClinicStatus string

const (
	ClinicStatusActive   ClinicStatus = "active"
	ClinicStatusInactive ClinicStatus = "inactive"
)

type SpecializationType string

const (
	SpecializationGeneral     SpecializationType = "general"
	SpecializationSpecialized SpecializationType = "specialized"
)

type Clinic struct {
	Base
	Name               string             `json:"name" db:"name"`
	Email              string             `json:"email" db:"email"`
	Phone              string             `json:"phone" db:"phone"`
	Address            string             `json:"address" db:"address"`
	SpecializationType SpecializationType `json:"specializationType" db:"specialization_type"`
	Specialties        pq.StringArray     `json:"specialties" db:"specialties"`
	Status             ClinicStatus       `json:"status" db:"status"`
	AvailableDays      pq.StringArray     `json:"availableDays" db:"available_days"`
	Price              float64            `json:"price" db:"price"`
	About              string             `json:"about" db:"about"`
	SpecialWords       pq.StringArray     `json:"specialWords" db:"special_words"`
	Videos             []Video            `json:"videos" db:"-"`
	Doctors            []DoctorRef        `json:"doctors" db:"-"`
	BookingCounters
}

// BookingCounters are derived from the bookings table on read.
type BookingCounters struct {
	BookingsToday      int `json:"bookingsToday" db:"bookings_today"`
	BookingsLast7Days  int `json:"bookingsLast7Days" db:"bookings_last_7_days"`
	BookingsLast30Days int `json:"bookingsLast30Days" db:"bookings_last_30_days"`
	TotalBookings      int `json:"totalBookings" db:"total_bookings"`
}

type Video struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ClinicID  uuid.UUID `json:"-" db:"clinic_id"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// DoctorRef is the doctor summary embedded in a clinic.
type DoctorRef struct {
	ID             uuid.UUID          `json:"id" db:"id"`
	Name           string             `json:"name" db:"name"`
	Specialization SpecializationType `json:"specialization" db:"specialization"`
	Image          string             `json:"image,omitempty" db:"image"`
}

type ClinicRequest struct {
	Name               string   `json:"name" form:"name" binding:"required"`
	Email              string   `json:"email" form:"email" binding:"required,email"`
	Phone              string   `json:"phone" form:"phone" binding:"required,phone"`
	Address            string   `json:"address" form:"address" binding:"required"`
	SpecializationType string   `json:"specializationType" form:"specializationType" binding:"required,oneof=general specialized"`
	Specialties        []string `json:"specialties" form:"-" binding:"required_if=SpecializationType specialized"`
	Status             string   `json:"status" form:"status" binding:"omitempty,oneof=active inactive"`
	AvailableDays      []string `json:"availableDays" form:"-" binding:"required,min=1,dive,weekday"`
	Price              float64  `json:"price" form:"price" binding:"gte=0"`
	About              string   `json:"about" form:"about" binding:"required,min=10"`
	SpecialWords       []string `json:"specialWords" form:"-"`
}

type ClinicFilter struct {
	Name   string `form:"name"`
	Status string `form:"status"`
}

type AddDoctorsRequest struct {
	DoctorIDs []uuid.UUID `json:"doctorIds" binding:"required,min=1"`
}

type ValidDaysResponse struct {
	ValidDays []string `json:"validDays"`
}
