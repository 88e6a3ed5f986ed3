// Package validator configures go-playground/validator with the custom
// rules shared by request binding on the server and form validation in the
// booking client.
package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	playground "github.com/go-playground/validator/v10"

	"github.com/jwalitptl/clinic-booking/pkg/schedule"
)

// PhonePattern accepts an optional leading '+' followed by 10 to 15 digits.
var PhonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)

// Rules maps custom tag names to their checks.
var Rules = map[string]playground.Func{
	"phone": func(fl playground.FieldLevel) bool {
		return PhonePattern.MatchString(fl.Field().String())
	},
	"weekday": func(fl playground.FieldLevel) bool {
		return schedule.IsWeekday(fl.Field().String())
	},
	"clock": func(fl playground.FieldLevel) bool {
		return schedule.IsClock(fl.Field().String())
	},
}

// New returns a validator reading rules from tagName with Rules installed.
func New(tagName string) (*playground.Validate, error) {
	v := playground.New()
	v.SetTagName(tagName)
	if err := Install(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Install registers Rules on v and makes errors report json field names.
func Install(v *playground.Validate) error {
	for tag, fn := range Rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}
	v.RegisterTagNameFunc(JSONName)
	return nil
}

// JSONName is the json name of a struct field, or its Go name when the
// field has none.
func JSONName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
