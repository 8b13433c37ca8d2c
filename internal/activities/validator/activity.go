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

type ActivityValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewActivityValidator(log *logger.Logger) *ActivityValidator {
	v := validator.New()

	if err := v.RegisterValidation("clock_time", validateClockTime); err != nil {
		log.Fatal("Failed to register 'clock_time' validator", "error", err)
	}
	if err := v.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}

	log.Info("Activity validator initialized successfully")

	return &ActivityValidator{
		validate: v,
		logger:   log,
	}
}

func validateClockTime(fl validator.FieldLevel) bool {
	return model.IsValidClock(strings.TrimSpace(fl.Field().String()))
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	return model.IsValidDate(strings.TrimSpace(fl.Field().String()))
}

func (v *ActivityValidator) Validate(activity *model.Activity) error {
	if err := v.validate.Struct(activity); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateSchedules(activity.DailySchedules)
}

func (v *ActivityValidator) ValidateUpdate(update *model.ActivityUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.MinParticipants != nil && update.MaxParticipants != nil {
		if *update.MaxParticipants < *update.MinParticipants {
			return ValidationErrors{
				ValidationError{
					Field:   "MaxParticipants",
					Message: "max_participants must be greater than or equal to min_participants",
				},
			}
		}
	}

	if update.DailySchedules != nil {
		return v.validateSchedules(*update.DailySchedules)
	}

	return nil
}

// validateSchedules enforces the cross-field schedule rules: each weekday
// appears at most once, every slot ends after it starts, and slots on the
// same day do not overlap each other.
func (v *ActivityValidator) validateSchedules(schedules []model.DailySchedule) error {
	seen := map[int]bool{}

	for _, ds := range schedules {
		if seen[ds.DayOfWeek] {
			return ValidationErrors{
				ValidationError{
					Field:   "DailySchedules",
					Message: fmt.Sprintf("day_of_week %d appears more than once", ds.DayOfWeek),
				},
			}
		}
		seen[ds.DayOfWeek] = true

		if err := v.validateDaySlots(ds); err != nil {
			return err
		}
	}

	return nil
}

func (v *ActivityValidator) validateDaySlots(ds model.DailySchedule) error {
	type window struct {
		start, end int
	}
	windows := make([]window, 0, len(ds.TimeSlots))

	for i, slot := range ds.TimeSlots {
		start, err := model.ParseClock(slot.StartTime)
		if err != nil {
			return ValidationErrors{
				ValidationError{
					Field:   fmt.Sprintf("TimeSlots[%d].StartTime", i),
					Message: "start_time must be in HH:mm 24-hour format",
				},
			}
		}
		end, err := model.ParseClock(slot.EndTime)
		if err != nil {
			return ValidationErrors{
				ValidationError{
					Field:   fmt.Sprintf("TimeSlots[%d].EndTime", i),
					Message: "end_time must be in HH:mm 24-hour format",
				},
			}
		}
		if end <= start {
			return ValidationErrors{
				ValidationError{
					Field:   fmt.Sprintf("TimeSlots[%d].EndTime", i),
					Message: "end_time must be after start_time",
				},
			}
		}

		for _, w := range windows {
			if model.ClockOverlaps(start, end, w.start, w.end) {
				return ValidationErrors{
					ValidationError{
						Field:   fmt.Sprintf("TimeSlots[%d]", i),
						Message: fmt.Sprintf("slot %s-%s overlaps another slot on day %d", slot.StartTime, slot.EndTime, ds.DayOfWeek),
					},
				}
			}
		}
		windows = append(windows, window{start: start, end: end})
	}

	return nil
}

func (v *ActivityValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "gtefield":
			message = fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
		case "clock_time":
			message = fmt.Sprintf("%s must be in HH:mm 24-hour format", err.Field())
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
