package http

import (
	"errors"
	"strings"
	"testing"
)

func containsFieldMsg(fe []FieldError, field, fragment string) bool {
	for _, e := range fe {
		if e.Field == field && strings.Contains(e.Message, fragment) {
			return true
		}
	}
	return false
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		UserID string `validate:"hex32"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{UserID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	for _, s := range []string{
		"",
		strings.Repeat("A", 32), // uppercase
		"deadbeef",              // too short
		strings.Repeat("g", 32), // non-hex char
		strings.Repeat("a", 33),
	} {
		err := cv.Validate(P{UserID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "UserID", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, ToFieldErrors(err))
		}
	}
}

func TestDec2Validation(t *testing.T) {
	type P struct {
		Amount float64 `validate:"dec2"`
	}
	cv := NewValidator()

	for _, v := range []float64{100, 99.99, 0.25, 1.2} {
		if err := cv.Validate(P{Amount: v}); err != nil {
			t.Fatalf("expected dec2 OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{1.234, 0.001} {
		err := cv.Validate(P{Amount: v})
		if err == nil {
			t.Fatalf("expected dec2 error for %v", v)
		}
		if !containsFieldMsg(ToFieldErrors(err), "Amount", "at most 2 decimal places") {
			t.Fatalf("expected dec2 message for %v, got %+v", v, ToFieldErrors(err))
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name string  `validate:"required"`
		Term int     `validate:"gt=0,lte=120"`
		Kind string  `validate:"oneof=scheduled acceleration"`
		Amt  float64 `validate:"dec2"`
	}
	cv := NewValidator()

	err := cv.Validate(P{
		Name: "",
		Term: 0,
		Kind: "balloon",
		Amt:  1.005,
	})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "Name", "is required") {
		t.Fatalf("missing required message: %+v", fe)
	}
	if !containsFieldMsg(fe, "Term", "greater than 0") {
		t.Fatalf("missing gt message: %+v", fe)
	}
	if !containsFieldMsg(fe, "Kind", "one of: scheduled acceleration") {
		t.Fatalf("missing oneof message: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe)
	}
}
