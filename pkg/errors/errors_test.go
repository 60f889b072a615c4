package errors

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "no cause",
			err:  New(ErrCodeNotFound, "vertex %d is not in the graph", 4),
			want: "NOT_FOUND: vertex 4 is not in the graph",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeInvalidConfig, errors.New("unexpected EOF"), "load %s", "physics.toml"),
			want: "INVALID_CONFIG: load physics.toml: unexpected EOF",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutermostCodeWins(t *testing.T) {
	// Mirrors config.Validate on a negative friction.
	inner := ValidateNonNegative("friction", -1)
	err := Wrap(ErrCodeInvalidConfig, inner, "invalid friction")

	if !Is(err, ErrCodeInvalidConfig) {
		t.Errorf("Is(INVALID_CONFIG) = false, want true")
	}
	if Is(err, ErrCodeInvalidArgument) {
		t.Errorf("Is(INVALID_ARGUMENT) = true, want false for the wrapped code")
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is(err, inner) = false, want the cause reachable")
	}
	if got := UserMessage(err); got != "invalid friction" {
		t.Errorf("UserMessage() = %q, want %q", got, "invalid friction")
	}
}

func TestCodeThroughFmtWrap(t *testing.T) {
	base := New(ErrCodeFileNotFound, "open graph.json")
	err := fmt.Errorf("simulate: %w", base)

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"fmt wrapped", err, ErrCodeFileNotFound, true},
		{"other code", err, ErrCodeNotFound, false},
		{"plain error", errors.New("boom"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInvalidArgument, false},
		{"empty code never matches", errors.New("boom"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
	if GetCode(err) != ErrCodeFileNotFound {
		t.Errorf("GetCode() = %q, want %q", GetCode(err), ErrCodeFileNotFound)
	}
	if GetCode(errors.New("boom")) != "" {
		t.Error("GetCode(plain) should be empty")
	}
}

func TestUserMessageUncoded(t *testing.T) {
	if got := UserMessage(errors.New("context canceled")); got != "context canceled" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(ValidateFinite("gravity", math.Inf(1))); got != "gravity must be finite, got +Inf" {
		t.Errorf("UserMessage() = %q", got)
	}
}
