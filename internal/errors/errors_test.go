package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		msg  string
	}{
		{"NotFound", NotFound("poll not found"), ErrNotFound, "poll not found"},
		{"Validation", Validation("question is required"), ErrValidation, "question is required"},
		{"Validationf", Validationf("need at least %d options", 2), ErrValidation, "need at least 2 options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, tt.err.Kind)
			}
			if tt.err.Message != tt.msg {
				t.Errorf("expected message %q, got %q", tt.msg, tt.err.Message)
			}
			if tt.err.Err != nil {
				t.Errorf("expected no underlying error, got %v", tt.err.Err)
			}
		})
	}
}

func TestUnavailable_WrapsCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := Unavailable(cause)

	if err.Kind != ErrUnavailable {
		t.Errorf("expected ErrUnavailable, got %v", err.Kind)
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Error() != "backend unavailable: database is locked" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestIs_MatchesKind(t *testing.T) {
	err := fmt.Errorf("loading poll: %w", Unavailable(errors.New("boom")))

	if !errors.Is(err, &Error{Kind: ErrUnavailable}) {
		t.Error("expected wrapped error to match ErrUnavailable kind")
	}
	if errors.Is(err, &Error{Kind: ErrNotFound}) {
		t.Error("did not expect a NotFound match")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ErrInternal},
		{"plain", errors.New("x"), ErrInternal},
		{"direct", NotFound("x"), ErrNotFound},
		{"wrapped", fmt.Errorf("ctx: %w", Validation("x")), ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if ErrUnavailable.String() != "unavailable" {
		t.Errorf("unexpected name %q", ErrUnavailable.String())
	}
	if Kind(99).String() != "kind(99)" {
		t.Errorf("unexpected name %q", Kind(99).String())
	}
}
