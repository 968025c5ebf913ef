package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeLayoutUnderspecified, "node %d: no x anchor", 7)

	if err.Code != ErrCodeLayoutUnderspecified {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeLayoutUnderspecified)
	}

	if err.Message != "node 7: no x anchor" {
		t.Errorf("Message = %v, want %v", err.Message, "node 7: no x anchor")
	}

	expected := "LAYOUT_UNDERSPECIFIED: node 7: no x anchor"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidConfig, cause, "decode config")

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	want := "INVALID_CONFIG: decode config: underlying error"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
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
			err:      New(ErrCodeLayoutCycle, "test"),
			code:     ErrCodeLayoutCycle,
			expected: true,
		},
		{
			name:     "different code",
			err:      New(ErrCodeLayoutCycle, "test"),
			code:     ErrCodeNotFound,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      wrapFmt(New(ErrCodeUnknownNode, "test")),
			code:     ErrCodeUnknownNode,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInternal,
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

func TestIsLayout(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeLayoutUnderspecified, "x"), true},
		{New(ErrCodeLayoutCycle, "x"), true},
		{New(ErrCodeUnknownNode, "x"), true},
		{New(ErrCodeInvalidConfig, "x"), false},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := IsLayout(tt.err); got != tt.want {
			t.Errorf("IsLayout(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "missing %s", "x")); got != "missing x" {
		t.Errorf("UserMessage() = %q, want %q", got, "missing x")
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInternal, "x")); got != ErrCodeInternal {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInternal)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func wrapFmt(err error) error {
	return &wrapper{err}
}

type wrapper struct{ err error }

func (w *wrapper) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapper) Unwrap() error { return w.err }
