package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type DoctorStatus string

const (
	DoctorStatusAvailable   DoctorStatus = "available"
	DoctorStatusUnavailable DoctorStatus = "unavailable"
)

type Doctor struct {
	Base
	Name              string             `json:"name" db:"name"`
	Email             string             `json:"email" db:"email"`
	Phone             string             `json:"phone" db:"phone"`
	Address           string             `json:"address" db:"address"`
	YearsOfExperience int                `json:"yearsOfExperience" db:"years_of_experience"`
	Specialization    SpecializationType `json:"specialization" db:"specialization"`
	Specialties       pq.StringArray     `json:"specialties" db:"specialties"`
	Clinics           []uuid.UUID        `json:"clinics" db:"-"`
	Schedules         Schedules          `json:"schedules" db:"schedules"`
	Status            DoctorStatus       `json:"status" db:"status"`
	Image             string             `json:"image,omitempty" db:"image"`
}

type Schedule struct {
	Clinic    *uuid.UUID `json:"clinic,omitempty"`
	Days      []string   `json:"days" binding:"required,min=1,dive,weekday"`
	StartTime string     `json:"startTime,omitempty" binding:"omitempty,clock"`
	EndTime   string     `json:"endTime,omitempty" binding:"omitempty,clock"`
}

// Schedules is stored as a JSONB column.
type Schedules []Schedule

func (s Schedules) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

func (s *Schedules) Scan(src interface{}) error {
	return scanJSON(src, s)
}

type DoctorRequest struct {
	Name              string      `json:"name" form:"name" binding:"required,min=3"`
	Email             string      `json:"email" form:"email" binding:"required,email"`
	Phone             string      `json:"phone" form:"phone" binding:"required,phone"`
	Address           string      `json:"address" form:"address" binding:"required"`
	YearsOfExperience int         `json:"yearsOfExperience" form:"yearsOfExperience" binding:"gte=0"`
	Specialization    string      `json:"specialization" form:"specialization" binding:"required,oneof=general specialized"`
	Specialties       []string    `json:"specialties" form:"-" binding:"required_if=Specialization specialized"`
	Clinics           []uuid.UUID `json:"clinics" form:"-"`
	Schedules         []Schedule  `json:"schedules" form:"-" binding:"dive"`
	Status            string      `json:"status" form:"status" binding:"omitempty,oneof=available unavailable"`
}
