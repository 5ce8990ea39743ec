package scheduling

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/medpoint/practice-scheduling/internal/localization"
)

// CreateAppointmentInput is the booking request as seen by the scheduler.
type CreateAppointmentInput struct {
	DoctorID     int       `validate:"required,gt=0"`
	PatientName  string    `validate:"required"`
	PatientEmail string    `validate:"required,email"`
	PatientPhone string    `validate:"required,phone"`
	Date         time.Time `validate:"required"`
	Notes        string    `validate:"-"`
}

// E.164-ish: optional +, first digit 1-9, 2 to 15 digits total.
var phoneRegexp = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// The built-in e164 tag requires the leading +, the booking form does not.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegexp.MatchString(fl.Field().String())
	})
	return v
}

// validationKey maps a failed rule to its stable message key. Every field
// failure gets a distinct key so clients can attach messages to form fields.
func validationKey(fe validator.FieldError) string {
	switch fe.StructField() {
	case "DoctorID":
		if fe.Tag() == "required" {
			return localization.KeyAppointmentsDoctorRequired
		}
		return localization.KeyAppointmentsDoctorIDPositive
	case "PatientName":
		return localization.KeyPatientsNameRequired
	case "PatientEmail":
		if fe.Tag() == "required" {
			return localization.KeyPatientsEmailRequired
		}
		return localization.KeyPatientsInvalidEmail
	case "PatientPhone":
		if fe.Tag() == "required" {
			return localization.KeyPatientsPhoneRequired
		}
		return localization.KeyPatientsInvalidPhone
	case "Date":
		return localization.KeyAppointmentsDateRequired
	}
	return localization.KeyCommonInvalidRequest
}

// validateCreate runs the structural checks that do not touch the store.
// now is the injected clock reading; the date must be strictly after it.
func validateCreate(v *validator.Validate, messages *localization.Catalog, input CreateAppointmentInput, now time.Time) *Error {
	if err := v.Struct(input); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			key := validationKey(errs[0])
			return newError(KindValidation, key, messages.Lookup(key))
		}
		return newError(KindValidation, localization.KeyCommonInvalidRequest, messages.Lookup(localization.KeyCommonInvalidRequest))
	}

	if !input.Date.After(now) {
		key := localization.KeyAppointmentsDateMustBeFuture
		return newError(KindValidation, key, messages.Lookup(key))
	}

	return nil
}
