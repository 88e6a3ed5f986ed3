package validator

import (
	"errors"
	"testing"

	playground "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Phone string   `json:"phone" validate:"required,phone"`
	Days  []string `json:"days" validate:"dive,weekday"`
	Start string   `validate:"omitempty,clock"`
}

func TestNew(t *testing.T) {
	v, err := New("validate")
	require.NoError(t, err)

	require.NoError(t, v.Struct(sample{Phone: "01012345678", Days: []string{"Monday", "All"}, Start: "08:30"}))

	err = v.Struct(sample{Phone: "+12", Days: []string{"Caturday"}, Start: "25:00"})
	var verrs playground.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	got := map[string]string{}
	for _, fe := range verrs {
		got[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"phone": "phone", "days[0]": "weekday", "Start": "clock"}, got)
}

func TestPhonePattern(t *testing.T) {
	for _, ok := range []string{"0123456789", "+201012345678", "123456789012345"} {
		assert.True(t, PhonePattern.MatchString(ok), ok)
	}
	for _, bad := range []string{"", "12345", "+20-101-234", "1234567890123456", "phone"} {
		assert.False(t, PhonePattern.MatchString(bad), bad)
	}
}
