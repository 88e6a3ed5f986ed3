// Package booking drives the patient booking form: clinic availability,
// date and time selection, validation, submission and cancellation. State
// changes are pushed to a render callback as immutable snapshots.
package booking

import (
	"errors"
	"time"

	playground "github.com/go-playground/validator/v10"

	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/pkg/schedule"
	appvalidator "github.com/jwalitptl/clinic-booking/pkg/validator"
)

// Form is the booking form as the user has filled it. A zero Date means no
// date is selected.
type Form struct {
	ClientName    string    `json:"clientName" validate:"required,min=3"`
	ClientAge     int       `json:"clientAge" validate:"required,min=1"`
	ClientPhone   string    `json:"clientPhone" validate:"required,phone"`
	ClientAddress string    `json:"clientAddress" validate:"required,min=5"`
	ClientEmail   string    `json:"clientEmail" validate:"required,email"`
	ClinicID      string    `json:"clinicId" validate:"required"`
	Date          time.Time `json:"date" validate:"-"`
	Time          string    `json:"time" validate:"required"`
	Notes         string    `json:"notes"`
}

// Request builds the create payload, with the date in YYYY-MM-DD.
func (f Form) Request() model.CreateBookingRequest {
	return model.CreateBookingRequest{
		ClientName:    f.ClientName,
		ClientAge:     f.ClientAge,
		ClientPhone:   f.ClientPhone,
		ClientAddress: f.ClientAddress,
		ClientEmail:   f.ClientEmail,
		ClinicID:      f.ClinicID,
		Date:          schedule.FormatDate(f.Date),
		Time:          f.Time,
		Notes:         f.Notes,
	}
}

// Error codes reported in Errors.
const (
	CodeRequired    = "required"
	CodeMin         = "min"
	CodePhone       = "phone"
	CodeEmail       = "email"
	CodeInvalidDate = "invalidDate"
	CodeOutOfRange  = "outOfRange"
)

var codeMessages = map[string]string{
	CodeRequired:   "هذا الحقل مطلوب",
	CodeMin:        "القيمة أقصر أو أصغر من المسموح",
	CodePhone:      "رقم الهاتف غير صالح",
	CodeEmail:      "البريد الإلكتروني غير صالح",
	CodeOutOfRange: "يجب أن يكون التاريخ خلال الأشهر الثلاثة القادمة",
}

type FieldError struct {
	Code    string
	Message string
}

// Errors maps json field names to their first failing rule.
type Errors map[string]FieldError

func (e Errors) Valid() bool {
	return len(e) == 0
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

var formValidator = mustValidator()

func mustValidator() *playground.Validate {
	v, err := appvalidator.New("validate")
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks the whole form against the clinic's resolved valid days.
// now anchors the booking window. It has no side effects.
func Validate(f Form, validDays []string, now time.Time) Errors {
	errs := Errors{}

	var fieldErrs playground.ValidationErrors
	if err := formValidator.Struct(f); errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			code := fe.Tag()
			errs[fe.Field()] = FieldError{Code: code, Message: codeMessages[code]}
		}
	}

	if fe, ok := validateDate(f.Date, validDays, now); !ok {
		errs["date"] = fe
	}
	return errs
}

func validateDate(date time.Time, validDays []string, now time.Time) (FieldError, bool) {
	if date.IsZero() {
		return FieldError{Code: CodeRequired, Message: codeMessages[CodeRequired]}, false
	}
	if err := schedule.ValidateDate(date, validDays); err != nil {
		var dateErr *schedule.InvalidDateError
		if errors.As(err, &dateErr) {
			return FieldError{Code: CodeInvalidDate, Message: dateErr.Message()}, false
		}
		return FieldError{Code: CodeInvalidDate, Message: err.Error()}, false
	}
	if err := schedule.InWindow(date, now); err != nil {
		return FieldError{Code: CodeOutOfRange, Message: codeMessages[CodeOutOfRange]}, false
	}
	return FieldError{}, true
}
