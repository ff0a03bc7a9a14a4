package flags

import (
	"strings"
	"testing"
)

type onboarding struct {
	WelcomeShown bool
	TourStep     *string
	Attempts     int
	hidden       bool // probes the unexported-field error path
}

func TestNewRejectsNonStructPointers(t *testing.T) {
	tests := []struct {
		name   string
		target any
	}{
		{"nil", nil},
		{"value", onboarding{}},
		{"nil pointer", (*onboarding)(nil)},
		{"pointer to non-struct", new(int)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.target); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSetAssignsFields(t *testing.T) {
	var target onboarding
	object, err := New(&target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := object.Set("WelcomeShown", true); err != nil {
		t.Fatalf("Set bool: %v", err)
	}
	if !target.WelcomeShown {
		t.Fatal("bool field not assigned")
	}

	step := "profile"
	if err := object.Set("TourStep", &step); err != nil {
		t.Fatalf("Set pointer: %v", err)
	}
	if target.TourStep == nil || *target.TourStep != "profile" {
		t.Fatalf("pointer field = %v", target.TourStep)
	}

	if err := object.Set("TourStep", nil); err != nil {
		t.Fatalf("Set nil: %v", err)
	}
	if target.TourStep != nil {
		t.Fatal("expected nil assignment to clear the pointer field")
	}
}

func TestValidateAndSetErrors(t *testing.T) {
	var target onboarding
	object, err := New(&target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name    string
		field   string
		value   any
		wantSub string
	}{
		{"unknown field", "Missing", true, "does not exist"},
		{"unexported field", "hidden", true, "not settable"},
		{"type mismatch", "WelcomeShown", "yes", "cannot assign"},
		{"nil into non-nilable", "Attempts", nil, "cannot hold nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := object.Validate(tt.field, tt.value)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tt.wantSub)
			}

			if err := object.Set(tt.field, tt.value); err == nil {
				t.Fatal("expected Set to fail the same way")
			}
		})
	}
}

func TestValidateDoesNotAssign(t *testing.T) {
	var target onboarding
	object, err := New(&target)
	if err != nil {
		t.Fatal(err)
	}

	if err := object.Validate("WelcomeShown", true); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if target.WelcomeShown {
		t.Fatal("Validate mutated the target")
	}
}
