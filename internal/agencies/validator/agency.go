package validator

import (
	"errors"
	"fmt"
	"strings"

	"tourdesk/pkg/logger"
	"tourdesk/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type AgencyValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAgencyValidator(log *logger.Logger) *AgencyValidator {
	v := validator.New()

	if err := v.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}

	log.Info("Agency validator initialized successfully")

	return &AgencyValidator{
		validate: v,
		logger:   log,
	}
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	return model.IsValidDate(strings.TrimSpace(fl.Field().String()))
}

func (v *AgencyValidator) Validate(agency *model.Agency) error {
	return v.check(v.validate.Struct(agency))
}

func (v *AgencyValidator) ValidateUpdate(update *model.AgencyUpdate) error {
	return v.check(v.validate.Struct(update))
}

func (v *AgencyValidator) ValidateSchedule(schedule *model.AgencyUnavailableSchedule) error {
	return v.check(v.validate.Struct(schedule))
}

func (v *AgencyValidator) ValidateScheduleUpdate(update *model.AgencyUnavailableScheduleUpdate) error {
	return v.check(v.validate.Struct(update))
}

func (v *AgencyValidator) check(err error) error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return v.translateValidationErrors(validationErrs)
	}
	return err
}

func (v *AgencyValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +972501234567)", err.Field())
		case "calendar_date":
			message = fmt.Sprintf("%s must be in YYYY-MM-DD format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
