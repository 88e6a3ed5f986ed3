package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-booking/pkg/schedule"
)

func validForm() Form {
	return Form{
		ClientName:    "Mona Ali",
		ClientAge:     31,
		ClientPhone:   "01012345678",
		ClientAddress: "5 Nile Corniche",
		ClientEmail:   "mona@example.com",
		ClinicID:      "clinic-1",
		Date:          monday,
		Time:          "10:00",
	}
}

func TestValidate_ValidForm(t *testing.T) {
	errs := Validate(validForm(), []string{"Monday"}, now)
	assert.True(t, errs.Valid(), errs)
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Form)
		field string
		code  string
	}{
		{"name required", func(f *Form) { f.ClientName = "" }, "clientName", CodeRequired},
		{"name too short", func(f *Form) { f.ClientName = "Mo" }, "clientName", CodeMin},
		{"age missing", func(f *Form) { f.ClientAge = 0 }, "clientAge", CodeRequired},
		{"age negative", func(f *Form) { f.ClientAge = -4 }, "clientAge", CodeMin},
		{"phone letters", func(f *Form) { f.ClientPhone = "01o12345678" }, "clientPhone", CodePhone},
		{"phone short", func(f *Form) { f.ClientPhone = "+12345" }, "clientPhone", CodePhone},
		{"address short", func(f *Form) { f.ClientAddress = "Nile" }, "clientAddress", CodeMin},
		{"email syntax", func(f *Form) { f.ClientEmail = "mona.example.com" }, "clientEmail", CodeEmail},
		{"clinic required", func(f *Form) { f.ClinicID = "" }, "clinicId", CodeRequired},
		{"time required", func(f *Form) { f.Time = "" }, "time", CodeRequired},
		{"date required", func(f *Form) { f.Date = time.Time{} }, "date", CodeRequired},
		{"date in the past", func(f *Form) { f.Date = monday.AddDate(0, 0, -14) }, "date", CodeOutOfRange},
		{"date beyond window", func(f *Form) { f.Date = monday.AddDate(0, 6, 0) }, "date", CodeOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.edit(&f)
			errs := Validate(f, []string{schedule.All}, now)
			require.Len(t, errs, 1, errs)
			assert.Equal(t, tt.code, errs[tt.field].Code)
			assert.NotEmpty(t, errs[tt.field].Message)
		})
	}
}

func TestValidate_NotesOptional(t *testing.T) {
	f := validForm()
	f.Notes = ""
	assert.True(t, Validate(f, []string{"Monday"}, now).Valid())
}

func TestValidate_MondayWednesday(t *testing.T) {
	valid := []string{"Monday", "Wednesday"}

	f := validForm()
	f.Date = tuesday
	errs := Validate(f, valid, now)
	assert.Equal(t, CodeInvalidDate, errs["date"].Code)
	assert.Equal(t, "يوم الثلاثاء غير متاح لهذه العيادة", errs["date"].Message)

	for _, d := range []time.Time{monday, wednesday} {
		f := validForm()
		f.Date = d
		assert.True(t, Validate(f, valid, now).Valid(), d.Weekday().String())
	}
}

func TestValidate_EmptyValidDaysRejectsEveryDate(t *testing.T) {
	for i := 0; i < 7; i++ {
		f := validForm()
		f.Date = monday.AddDate(0, 0, i)
		assert.Equal(t, CodeInvalidDate, Validate(f, []string{}, now)["date"].Code)
	}
}

func TestForm_RequestNormalizesDate(t *testing.T) {
	f := validForm()
	f.Date = monday.Add(23 * time.Hour)
	req := f.Request()
	assert.Equal(t, "2024-01-22", req.Date)
	assert.Equal(t, f.ClientName, req.ClientName)
	assert.Equal(t, f.ClinicID, req.ClinicID)
}
