// Package validate собирает validator.Validate с правилами предметной области:
// codicefiscale, cap, notfuture, mail, paramname, а также поддержкой dates.Date.
package validate

import (
	"reflect"
	"regexp"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
)

var (
	codiceFiscaleRe = regexp.MustCompile(`^[A-Z]{6}[0-9]{2}[A-Z][0-9]{2}[A-Z][0-9]{3}[A-Z]$`)
	capRe           = regexp.MustCompile(`^[0-9]{5}$`)
	mailRe          = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	paramNameRe     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// New возвращает валидатор с зарегистрированными правилами.
func New() *validator.Validate {
	v := validator.New()

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(dates.Date); ok {
			return d.Time
		}
		return nil
	}, dates.Date{})

	// Ошибки регистрации возможны только при пустом теге.
	_ = v.RegisterValidation("codicefiscale", func(fl validator.FieldLevel) bool {
		return codiceFiscaleRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("cap", func(fl validator.FieldLevel) bool {
		return capRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("mail", func(fl validator.FieldLevel) bool {
		return mailRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("paramname", func(fl validator.FieldLevel) bool {
		return paramNameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !t.After(time.Now())
	})

	return v
}

// Email проверяет адрес тем же правилом, что и тег mail.
func Email(s string) bool {
	return mailRe.MatchString(s)
}
