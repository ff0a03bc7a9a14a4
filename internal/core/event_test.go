package core

import (
	"context"
	"errors"
	"testing"

	"github.com/matt-riley/onboardz/internal/flags"
	"github.com/matt-riley/onboardz/internal/store"
)

type testFlags struct {
	WelcomeShown bool
	TourStep     *string
}

func newTestRuntime(t *testing.T, target any) *runtime {
	t.Helper()
	object, err := flags.New(target)
	if err != nil {
		t.Fatalf("flags.New: %v", err)
	}
	return &runtime{store: store.NewMemory(), flags: object}
}

func TestEventFiresOnlyWhenAllConditionsHold(t *testing.T) {
	tests := []struct {
		name string
		a, b bool
		want bool
	}{
		{"both satisfied", true, true, true},
		{"first unsatisfied", false, true, false},
		{"second unsatisfied", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fl testFlags
			rt := newTestRuntime(t, &fl)

			event := NewBoolEvent("welcome", "WelcomeShown",
				&stubCond{trigger: TriggerAll, result: tt.a},
				&stubCond{trigger: TriggerAll, result: tt.b},
			)

			fired, err := event.check(context.Background(), rt)
			if err != nil {
				t.Fatalf("check: %v", err)
			}
			if fired != tt.want {
				t.Fatalf("fired = %v, want %v", fired, tt.want)
			}
			if fl.WelcomeShown != tt.want {
				t.Fatalf("flag = %v, want %v", fl.WelcomeShown, tt.want)
			}
		})
	}
}

func TestEventHandlerReceivesContextValue(t *testing.T) {
	rt := &runtime{store: store.NewMemory()}

	var got any
	calls := 0
	event := NewEvent("promo",
		[]Condition{&stubCond{trigger: TriggerAll, result: true}},
		WithValue("spring-sale"),
		WithHandler(func(_ context.Context, value any) error {
			calls++
			got = value
			return nil
		}),
	)

	fired, err := event.check(context.Background(), rt)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !fired {
		t.Fatal("expected fire")
	}
	if calls != 1 {
		t.Fatalf("handler called %d times, want exactly 1 per check", calls)
	}
	if got != "spring-sale" {
		t.Fatalf("handler value = %v", got)
	}
}

func TestEventHandlerErrorPropagates(t *testing.T) {
	rt := &runtime{store: store.NewMemory()}
	sentinel := errors.New("handler failed")

	event := NewEvent("promo",
		[]Condition{&stubCond{trigger: TriggerAll, result: true}},
		WithHandler(func(context.Context, any) error { return sentinel }),
	)

	if _, err := event.check(context.Background(), rt); !errors.Is(err, sentinel) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestEventWithoutDefaultLeavesFlagUntouched(t *testing.T) {
	fl := testFlags{WelcomeShown: true}
	rt := newTestRuntime(t, &fl)

	event := NewEvent("welcome",
		[]Condition{&stubCond{trigger: TriggerAll, result: false}},
		WithValue(true),
		WithFlag("WelcomeShown"),
	)

	fired, err := event.check(context.Background(), rt)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if fired {
		t.Fatal("expected unsatisfied")
	}
	if !fl.WelcomeShown {
		t.Fatal("flag was reset without a configured default policy")
	}
}

func TestEventAppliesConfiguredDefaultOnFailedCheck(t *testing.T) {
	fl := testFlags{WelcomeShown: true}
	rt := newTestRuntime(t, &fl)

	event := NewBoolEvent("welcome", "WelcomeShown",
		&stubCond{trigger: TriggerAll, result: false},
	)

	if fired, err := event.check(context.Background(), rt); err != nil || fired {
		t.Fatalf("fired=%v err=%v", fired, err)
	}
	if fl.WelcomeShown {
		t.Fatal("expected default false to be applied")
	}
}

func TestEventOptionalFlagAcceptsNilDefault(t *testing.T) {
	step := "resume"
	fl := testFlags{TourStep: &step}
	rt := newTestRuntime(t, &fl)

	next := "profile"
	event := NewEvent("tour",
		[]Condition{&stubCond{trigger: TriggerAll, result: false}},
		WithValue(&next),
		WithFlag("TourStep"),
		WithDefault(nil),
	)

	if err := event.validate(rt); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, err := event.check(context.Background(), rt); err != nil {
		t.Fatalf("check: %v", err)
	}
	if fl.TourStep != nil {
		t.Fatalf("expected nil default, got %v", *fl.TourStep)
	}
}

func TestEventTriggersAreConditionUnion(t *testing.T) {
	event := NewEvent("mixed",
		[]Condition{
			&stubCond{trigger: TriggerLaunch},
			&stubCond{trigger: TriggerManual},
		},
		WithHandler(func(context.Context, any) error { return nil }),
	)
	if got := event.Triggers(); got != TriggerAll {
		t.Fatalf("got %v, want all", got)
	}

	empty := NewEvent("empty", nil, WithHandler(func(context.Context, any) error { return nil }))
	if got := empty.Triggers(); got != TriggerAll {
		t.Fatalf("conditionless event: got %v, want all", got)
	}
}

func TestEventValidate(t *testing.T) {
	var fl testFlags
	rt := newTestRuntime(t, &fl)
	noop := func(context.Context, any) error { return nil }

	tests := []struct {
		name  string
		event *Event
		rt    *runtime
	}{
		{
			"missing name",
			NewEvent("", nil, WithHandler(noop)),
			rt,
		},
		{
			"no action",
			NewEvent("bare", nil),
			rt,
		},
		{
			"default without flag",
			NewEvent("orphan-default", nil, WithHandler(noop), WithDefault(false)),
			rt,
		},
		{
			"flag binding without flags object",
			NewEvent("no-object", nil, WithValue(true), WithFlag("WelcomeShown")),
			&runtime{store: store.NewMemory()},
		},
		{
			"unknown field",
			NewEvent("ghost", nil, WithValue(true), WithFlag("Missing")),
			rt,
		},
		{
			"unassignable value",
			NewEvent("typed", nil, WithValue("yes"), WithFlag("WelcomeShown")),
			rt,
		},
		{
			"unassignable default",
			NewEvent("typed-default", nil, WithValue(true), WithFlag("WelcomeShown"), WithDefault("no")),
			rt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.event.validate(tt.rt); err == nil {
				t.Fatal("expected a configuration error")
			}
		})
	}

	valid := NewBoolEvent("ok", "WelcomeShown", &stubCond{trigger: TriggerAll})
	if err := valid.validate(rt); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}
}
