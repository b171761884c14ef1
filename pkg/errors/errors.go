package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeTimeout      = "TIMEOUT"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInvalidInput = "INVALID_INPUT"

	// Booking engine specific codes. Callers branch on these to decide
	// whether to re-show the form or re-query availability.
	CodeInvalidTimeFormat = "INVALID_TIME_FORMAT"
	CodeInvalidDateFormat = "INVALID_DATE_FORMAT"
	CodeInvalidSlotFormat = "INVALID_SLOT_FORMAT"
	CodeInvalidConfig     = "INVALID_CONFIG"
	CodeMissingField      = "MISSING_FIELD"
	CodeOwnerNotFound     = "OWNER_NOT_FOUND"
	CodeServiceNotFound   = "SERVICE_NOT_FOUND"
	CodeSlotAlreadyBooked = "SLOT_ALREADY_BOOKED"
	CodeExternalService   = "EXTERNAL_SERVICE_UNAVAILABLE"
	CodeEmailDelivery     = "EMAIL_DELIVERY_FAILED"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) ToJSON() []byte {
	response := ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
	data, _ := json.Marshal(response)
	return data
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Timeout(message string) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    message,
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

func Unavailable(service string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

func InvalidTimeFormat(token string) *AppError {
	return &AppError{
		Code:       CodeInvalidTimeFormat,
		Message:    "Time must be in HH:MM or h:mm AM/PM format",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"time": token},
	}
}

func InvalidDateFormat(date string) *AppError {
	return &AppError{
		Code:       CodeInvalidDateFormat,
		Message:    "Date must be in YYYY-MM-DD format",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"date": date},
	}
}

func InvalidSlotFormat(token string) *AppError {
	return &AppError{
		Code:       CodeInvalidSlotFormat,
		Message:    "Slot must be a start time or a 'start - end' range",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"slot": token},
	}
}

func InvalidConfig(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidConfig,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func MissingField(fields ...string) *AppError {
	return &AppError{
		Code:       CodeMissingField,
		Message:    "Required fields are missing",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"fields": fields},
	}
}

func OwnerNotFound(ownerID string) *AppError {
	return &AppError{
		Code:       CodeOwnerNotFound,
		Message:    "Owner not found",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"owner_id": ownerID},
	}
}

func ServiceNotFound(serviceID string) *AppError {
	return &AppError{
		Code:       CodeServiceNotFound,
		Message:    "Service not found",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"service_id": serviceID},
	}
}

func SlotAlreadyBooked(start, end string) *AppError {
	return &AppError{
		Code:       CodeSlotAlreadyBooked,
		Message:    fmt.Sprintf("The %s - %s slot is no longer available", start, end),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"start_time": start, "end_time": end},
	}
}

func ExternalService(service string, err error) *AppError {
	return &AppError{
		Code:       CodeExternalService,
		Message:    fmt.Sprintf("%s is unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
