package middleware

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	appvalidator "github.com/jwalitptl/clinic-booking/pkg/validator"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the shared custom rules on gin's validator
// engine and reports fields by their json names. Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		registerErr = appvalidator.Install(v)
	})
	return registerErr
}
