package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMissingColumn, "column %q not found", "value")

	if err.Code != ErrCodeMissingColumn {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMissingColumn)
	}

	if err.Message != `column "value" not found` {
		t.Errorf("Message = %v, want %v", err.Message, `column "value" not found`)
	}

	expected := `MISSING_COLUMN: column "value" not found`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidInput, cause, "failed to read")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeNegativeValue, "test"),
			code:     ErrCodeNegativeValue,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeNegativeValue, "test"),
			code:     ErrCodeUnknownFilter,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvalidMetric, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeInvalidMetric,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("render: %w", New(ErrCodeMissingColumn, "inner")),
			code:     ErrCodeMissingColumn,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeUnknownFilter, "test"), ErrCodeUnknownFilter},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsConfiguration(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeMissingColumn, "x"), true},
		{New(ErrCodeUnknownFilter, "x"), true},
		{New(ErrCodeNegativeValue, "x"), true},
		{New(ErrCodeInvalidColumnType, "x"), true},
		{New(ErrCodeInvalidMetric, "x"), true},
		{New(ErrCodeInvalidFilter, "x"), true},
		{New(ErrCodeInvalidFormat, "x"), false},
		{New(ErrCodeInternal, "x"), false},
		{errors.New("plain"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsConfiguration(tt.err); got != tt.want {
			t.Errorf("IsConfiguration(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
