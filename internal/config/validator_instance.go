package config

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/inapp/internal/style"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return strings.ToLower(field.Name)
			}
			return name
		})

		_ = v.RegisterValidation("appearance", func(fl validator.FieldLevel) bool {
			raw := fl.Field().String()
			if raw == "" {
				return true
			}
			_, err := style.ParseAppearance(raw)
			return err == nil
		})

		_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
			raw := fl.Field().String()
			if raw == "" {
				return true
			}
			_, err := zerolog.ParseLevel(strings.ToLower(raw))
			return err == nil
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns a configured validator instance for use outside the config package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}
