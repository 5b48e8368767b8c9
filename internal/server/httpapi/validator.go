package httpapi

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const usernameTag = "username"

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._]{3,30}$`)
	registerOnce    sync.Once
)

// registerValidators adds the custom rules to gin's validator engine.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation(usernameTag, validUsername)
	})
}

func validUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}
