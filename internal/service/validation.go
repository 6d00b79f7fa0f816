package service

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/schooltrack/attendance-api/internal/models"
)

// registerDateValidation installs the shared custom validators. Dates must be
// zero-padded ISO YYYY-MM-DD so that lexicographic range comparisons hold.
func registerDateValidation(v *validator.Validate) {
	_ = v.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) != len("2006-01-02") {
			return false
		}
		_, err := time.Parse("2006-01-02", value)
		return err == nil
	})
	_ = v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
}
