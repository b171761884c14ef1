package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	unwrapped := errors.Unwrap(appErr)
	if unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestBookingEngineConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"invalid time", InvalidTimeFormat("25:99"), CodeInvalidTimeFormat, http.StatusBadRequest},
		{"invalid date", InvalidDateFormat("2025-13-40"), CodeInvalidDateFormat, http.StatusBadRequest},
		{"invalid slot", InvalidSlotFormat("noonish"), CodeInvalidSlotFormat, http.StatusBadRequest},
		{"invalid config", InvalidConfig("duration does not fit window"), CodeInvalidConfig, http.StatusUnprocessableEntity},
		{"missing field", MissingField("email", "date"), CodeMissingField, http.StatusBadRequest},
		{"owner not found", OwnerNotFound("abc"), CodeOwnerNotFound, http.StatusNotFound},
		{"service not found", ServiceNotFound("svc"), CodeServiceNotFound, http.StatusNotFound},
		{"slot already booked", SlotAlreadyBooked("10:00", "10:30"), CodeSlotAlreadyBooked, http.StatusConflict},
		{"external service", ExternalService("weather provider", errors.New("timeout")), CodeExternalService, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.HTTPStatus, tt.wantStatus)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := SlotAlreadyBooked("10:00", "10:30")

	if !IsCode(err, CodeSlotAlreadyBooked) {
		t.Errorf("IsCode should match the slot conflict code")
	}
	if IsCode(err, CodeNotFound) {
		t.Errorf("IsCode should not match an unrelated code")
	}
	if IsCode(errors.New("plain"), CodeSlotAlreadyBooked) {
		t.Errorf("IsCode should be false for non-AppError values")
	}
}

func TestAsAppError(t *testing.T) {
	plain := errors.New("boom")
	converted := AsAppError(plain)

	if converted.Code != CodeInternal {
		t.Errorf("expected plain errors to convert to %s, got %s", CodeInternal, converted.Code)
	}
	if errors.Unwrap(converted) != plain {
		t.Errorf("converted error should wrap the original")
	}
}
