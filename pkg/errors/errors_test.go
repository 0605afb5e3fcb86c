package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "missing %s", "organization")

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}
	if err.Message != "missing organization" {
		t.Errorf("Message = %v, want %v", err.Message, "missing organization")
	}

	expected := "INVALID_CONFIG: missing organization"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 128")
	err := Wrap(ErrCodeCloneFailed, cause, "clone %s", "api")

	if err.Code != ErrCodeCloneFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeCloneFailed)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if err.Error() != "CLONE_FAILED: clone api: exit status 128" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeListFailed, "x"), ErrCodeListFailed, true},
		{"different code", New(ErrCodeListFailed, "x"), ErrCodeCloneFailed, false},
		{"wrapped by fmt", fmt.Errorf("scan: %w", New(ErrCodeCloneFailed, "x")), ErrCodeCloneFailed, true},
		{"plain error", errors.New("x"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
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
	if got := GetCode(fmt.Errorf("wrap: %w", New(ErrCodeRateLimited, "slow down"))); got != ErrCodeRateLimited {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeRateLimited)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidConfig, "token is required"), "token is required"},
		{"coded with cause", Wrap(ErrCodeCloneFailed, errors.New("exit status 128"), "clone api"), "clone api: exit status 128"},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPanic(t *testing.T) {
	err := Panic("index out of range")
	if err.Code != ErrCodeInternal || err.Message != "panic: index out of range" {
		t.Errorf("Panic(string) = %+v", err)
	}

	cause := errors.New("nil map")
	err = Panic(cause)
	if !errors.Is(err, cause) {
		t.Error("Panic(error) should wrap the error")
	}
}
