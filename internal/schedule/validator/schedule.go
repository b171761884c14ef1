package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bookable/pkg/logger"
	"bookable/pkg/model"
	"bookable/pkg/timeslot"

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

type ScheduleValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewScheduleValidator(log *logger.Logger) *ScheduleValidator {
	v := validator.New()

	if err := v.RegisterValidation("clock_time", validateClockTime); err != nil {
		log.Fatal("Failed to register 'clock_time' validator", "error", err)
	}
	if err := v.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}

	log.Info("Schedule validator initialized successfully")

	return &ScheduleValidator{
		validate: v,
		logger:   log,
	}
}

func validateClockTime(fl validator.FieldLevel) bool {
	token := strings.TrimSpace(fl.Field().String())
	if token == "" {
		return true
	}
	_, err := timeslot.ParseClock(token)
	return err == nil
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	token := strings.TrimSpace(fl.Field().String())
	if token == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", token)
	return err == nil
}

func (v *ScheduleValidator) ValidateTemplate(t *model.WeekTemplate) error {
	if err := v.structErrors(t); err != nil {
		return err
	}

	var windowErrs ValidationErrors
	for day := time.Sunday; day <= time.Saturday; day++ {
		rule := t.RuleFor(day)
		if !rule.Enabled {
			continue
		}

		if rule.StartTime == "" || rule.EndTime == "" || rule.SlotDurationMin == 0 {
			windowErrs = append(windowErrs, ValidationError{
				Field:   day.String(),
				Message: "enabled day needs start_time, end_time and slot_duration_min",
			})
			continue
		}

		start, serr := timeslot.ParseClock(rule.StartTime)
		end, eerr := timeslot.ParseClock(rule.EndTime)
		if serr != nil || eerr != nil {
			continue // already reported by the clock_time tag
		}
		if start >= end {
			windowErrs = append(windowErrs, ValidationError{
				Field:   day.String(),
				Message: "end_time must be after start_time",
			})
			continue
		}
		if rule.SlotDurationMin > end-start {
			windowErrs = append(windowErrs, ValidationError{
				Field:   day.String(),
				Message: "slot_duration_min does not fit between start_time and end_time",
			})
		}
	}

	if len(windowErrs) > 0 {
		return windowErrs
	}
	return nil
}

func (v *ScheduleValidator) ValidateOverride(o *model.DateOverride) error {
	if err := v.structErrors(o); err != nil {
		return err
	}

	start, serr := timeslot.ParseClock(o.StartTime)
	end, eerr := timeslot.ParseClock(o.EndTime)
	if serr == nil && eerr == nil && start >= end {
		return ValidationErrors{{
			Field:   "EndTime",
			Message: "end_time must be after start_time",
		}}
	}
	return nil
}

func (v *ScheduleValidator) ValidateBlockedDate(b *model.BlockedDate) error {
	return v.structErrors(b)
}

func (v *ScheduleValidator) ValidateService(s *model.Service) error {
	return v.structErrors(s)
}

func (v *ScheduleValidator) structErrors(obj any) error {
	if err := v.validate.Struct(obj); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ScheduleValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "clock_time":
			message = fmt.Sprintf("%s must be a valid HH:MM or h:mm AM/PM clock time", err.Field())
		case "calendar_date":
			message = fmt.Sprintf("%s must be a YYYY-MM-DD calendar date", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object ID", err.Field())
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA timezone name", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
