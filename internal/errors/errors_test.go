package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "test error")
	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "test error" {
		t.Errorf("expected message 'test error', got %s", err.Message)
	}
	if err.Err != nil {
		t.Errorf("expected nil wrapped error, got %v", err.Err)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("original error")
	err := Wrap(originalErr, CodeDatabase, "database operation failed")

	if err.Code != CodeDatabase {
		t.Errorf("expected code %s, got %s", CodeDatabase, err.Code)
	}
	if err.Err != originalErr {
		t.Errorf("expected wrapped error to be original error")
	}
}

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "error without wrapped error",
			err:      New(CodeValidation, "title and thumbnail required"),
			expected: "[VALIDATION_ERROR] title and thumbnail required",
		},
		{
			name:     "error with wrapped error",
			err:      Wrap(errors.New("inner"), CodeDatabase, "db error"),
			expected: "[DATABASE_ERROR] db error: inner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	originalErr := errors.New("original")
	err := fmt.Errorf("outer: %w", Wrap(originalErr, CodeDatabase, "wrapped"))

	if !errors.Is(err, originalErr) {
		t.Errorf("expected errors.Is to reach the original error")
	}
}

func TestAppErrorWithContext(t *testing.T) {
	err := New(CodeValidation, "test").
		WithContext("field", "title").
		WithContext("kind", "movie")

	if len(err.Context) != 2 {
		t.Errorf("expected 2 context items, got %d", len(err.Context))
	}
	if err.Context["field"] != "title" {
		t.Errorf("expected field context 'title', got %v", err.Context["field"])
	}
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("content", "abc")
	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.Message != "content not found: abc" {
		t.Errorf("unexpected message: %s", err.Message)
	}
	if !IsNotFound(err) {
		t.Error("expected IsNotFound to be true")
	}
}

func TestConfigError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		originalErr := errors.New("file not found")
		err := ConfigError("config load failed", originalErr)
		if err.Code != CodeConfig {
			t.Errorf("expected code %s, got %s", CodeConfig, err.Code)
		}
		if err.Err != originalErr {
			t.Errorf("expected wrapped error to be original error")
		}
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := ConfigError("missing required field", nil)
		if err.Err != nil {
			t.Errorf("expected nil wrapped error, got %v", err.Err)
		}
	})
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(ValidationError("x")) {
		t.Error("expected validation error")
	}
	if !IsValidationError(New(CodeInvalidInput, "x")) {
		t.Error("expected invalid input to count as validation")
	}
	if IsValidationError(errors.New("plain")) {
		t.Error("plain error should not be a validation error")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"app error", ValidationError("test"), CodeValidation},
		{"wrapped app error", fmt.Errorf("ctx: %w", DatabaseError("test", errors.New("inner"))), CodeDatabase},
		{"standard error", errors.New("standard"), CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{ValidationError("x"), http.StatusBadRequest},
		{New(CodeInvalidPosition, "x"), http.StatusBadRequest},
		{NotFoundError("content", "1"), http.StatusNotFound},
		{InvalidCredentials(), http.StatusUnauthorized},
		{Unauthorized("no session"), http.StatusUnauthorized},
		{New(CodeTop10Full, "full"), http.StatusConflict},
		{DatabaseError("boom", errors.New("x")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.expected {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.expected)
		}
	}
}

func TestMessage(t *testing.T) {
	if got := Message(ValidationError("Title and thumbnail required")); got != "Title and thumbnail required" {
		t.Errorf("unexpected message: %s", got)
	}
	if got := Message(DatabaseError("failed to update content", errors.New("disk full"))); got != "failed to update content: disk full" {
		t.Errorf("database errors should surface the underlying message, got %s", got)
	}
	if got := Message(errors.New("plain")); got != "plain" {
		t.Errorf("unexpected message: %s", got)
	}
}
