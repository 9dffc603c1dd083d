package formstate_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-logbook/pkg/formstate"
	"github.com/goliatone/go-logbook/pkg/model"
)

func apply(t *testing.T, state formstate.State, actions ...formstate.Action) formstate.State {
	t.Helper()
	for _, action := range actions {
		next, err := formstate.Apply(state, action)
		if err != nil {
			t.Fatalf("apply %s: %v", action.Type(), err)
		}
		state = next
	}
	return state
}

func field(t *testing.T, state formstate.State, name string) formstate.FieldState {
	t.Helper()
	f, ok := state.Field(name)
	if !ok {
		t.Fatalf("field %q missing", name)
	}
	return f
}

func populated(t *testing.T) formstate.State {
	t.Helper()
	return apply(t, formstate.Initial(),
		formstate.Change(model.FieldDate, "2024-05-01"),
		formstate.Change(model.FieldAircraftType, "C"),
		formstate.Blur(model.FieldAircraftType),
		formstate.Change(model.FieldDeparture, "EGLL"),
		formstate.Check(model.FieldPilotInCommand, false),
		formstate.SubmitStart{},
		formstate.SubmitError{Form: []string{"server unavailable"}},
	)
}

func TestInitialState(t *testing.T) {
	state := formstate.Initial()

	if state.IsSubmitting() {
		t.Fatalf("initial state must not be submitting")
	}
	if len(state.FormErrors()) != 0 {
		t.Fatalf("initial state must not carry form errors")
	}
	for _, f := range state.Fields() {
		if f.Touched {
			t.Fatalf("%s: initial state must not be touched", f.Name)
		}
		if f.Error != "" {
			t.Fatalf("%s: initial state must not carry errors", f.Name)
		}
		if f.Name == model.FieldPilotInCommand {
			if f.Value != formstate.BoolValue(true) {
				t.Fatalf("pilotInCommand should default to true, got %v", f.Value)
			}
			continue
		}
		if f.Value != formstate.TextValue("") {
			t.Fatalf("%s: expected empty value, got %v", f.Name, f.Value)
		}
	}
	if diff := cmp.Diff(model.FlightEntry().Names(), state.Names()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldChangeSetsValueAndError(t *testing.T) {
	values := map[string][]string{
		model.FieldDate:          {"", "2024-05-01", "01/05/2024"},
		model.FieldAircraftType:  {"", "C1", "C172", "Boeing 737-800 Extended Range"},
		model.FieldRegistration:  {"G-ABCD", "N12345", "G--A"},
		model.FieldDeparture:     {"EGLL", "LHR", "LONDON"},
		model.FieldArrival:       {"K0A9", "X"},
		model.FieldDepartureTime: {"09:30", "2024-05-01T09:30", "9.30"},
		model.FieldArrivalTime:   {"23:59", "25:00"},
		model.FieldTotalTime:     {"", "1.5", "1:30", "30"},
		model.FieldRemarks:       {"", "Night VFR"},
	}

	for name, cases := range values {
		for _, v := range cases {
			state := apply(t, formstate.Initial(), formstate.Change(name, v))
			got := field(t, state, name)
			if got.Value != formstate.TextValue(v) {
				t.Fatalf("%s=%q: value = %v", name, v, got.Value)
			}
			if want := formstate.Validate(name, formstate.TextValue(v)); got.Error != want {
				t.Fatalf("%s=%q: error = %q, want %q", name, v, got.Error, want)
			}
		}
	}
}

func TestFieldChangeDoesNotMutateInput(t *testing.T) {
	before := formstate.Initial()
	snapshot := before.Fields()

	after := apply(t, before,
		formstate.Change(model.FieldAircraftType, "PA28"),
		formstate.Blur(model.FieldAircraftType),
		formstate.SubmitStart{},
	)

	if diff := cmp.Diff(snapshot, before.Fields()); diff != "" {
		t.Fatalf("input state was mutated (-want +got):\n%s", diff)
	}
	if before.IsSubmitting() {
		t.Fatalf("input state submitting flag was mutated")
	}
	if !before.Equal(formstate.Initial()) {
		t.Fatalf("initial template was mutated")
	}
	if after.Equal(before) {
		t.Fatalf("expected a different state after actions")
	}
}

func TestFieldBlurIsIdempotent(t *testing.T) {
	once := apply(t, formstate.Initial(), formstate.Blur(model.FieldRegistration))
	twice := apply(t, once, formstate.Blur(model.FieldRegistration))

	if !once.Equal(twice) {
		t.Fatalf("blur is not idempotent")
	}
	for _, f := range twice.Fields() {
		if f.Touched != (f.Name == model.FieldRegistration) {
			t.Fatalf("%s: touched = %v", f.Name, f.Touched)
		}
	}
}

func TestResetAndSubmitSuccessReturnInitial(t *testing.T) {
	states := []formstate.State{
		formstate.Initial(),
		populated(t),
		apply(t, formstate.Initial(), formstate.SubmitStart{}),
		apply(t, formstate.Initial(), formstate.ValidateAll{}),
	}
	for i, state := range states {
		for _, action := range []formstate.Action{formstate.Reset{}, formstate.SubmitSuccess{}} {
			got := apply(t, state, action)
			if !got.Equal(formstate.Initial()) {
				t.Fatalf("state %d: %s did not return the initial state", i, action.Type())
			}
			if again := apply(t, got, action); !again.Equal(formstate.Initial()) {
				t.Fatalf("state %d: %s is not idempotent", i, action.Type())
			}
		}
	}
}

func TestScenarioChangeThenBlur(t *testing.T) {
	state := apply(t, formstate.Initial(),
		formstate.Change(model.FieldAircraftType, "C172"),
		formstate.Blur(model.FieldAircraftType),
	)

	want := formstate.FieldState{
		Name:    model.FieldAircraftType,
		Label:   "Aircraft type",
		Kind:    model.InputText,
		Value:   formstate.TextValue("C172"),
		Error:   formstate.Validate(model.FieldAircraftType, formstate.TextValue("C172")),
		Touched: true,
	}
	if diff := cmp.Diff(want, field(t, state, model.FieldAircraftType)); diff != "" {
		t.Fatalf("aircraftType mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarioSubmitStartThenError(t *testing.T) {
	state := apply(t, formstate.Initial(), formstate.SubmitStart{})
	if !state.IsSubmitting() {
		t.Fatalf("expected submitting after SubmitStart")
	}

	state = apply(t, state, formstate.SubmitError{Field: model.FieldDeparture, Error: "required"})
	if state.IsSubmitting() {
		t.Fatalf("expected idle after SubmitError")
	}
	if got := field(t, state, model.FieldDeparture).Error; got != "required" {
		t.Fatalf("departure error = %q, want required", got)
	}
}

func TestScenarioSubmitSuccessFromPopulated(t *testing.T) {
	state := apply(t, populated(t), formstate.SubmitStart{}, formstate.SubmitSuccess{})
	if !state.Equal(formstate.Initial()) {
		t.Fatalf("expected initial state after SubmitSuccess")
	}
}

func TestSubmitErrorMergesMappingAndFormErrors(t *testing.T) {
	state := apply(t, formstate.Initial(),
		formstate.SubmitStart{},
		formstate.SubmitError{
			Errors: map[string]string{
				model.FieldRegistration: "unknown registration",
				model.FieldArrival:      "airfield closed",
			},
			Form: []string{"could not save", "could not save", ""},
		},
	)

	if got := state.Errors(); !cmp.Equal(got, map[string]string{
		model.FieldRegistration: "unknown registration",
		model.FieldArrival:      "airfield closed",
	}) {
		t.Fatalf("unexpected field errors: %v", got)
	}
	if diff := cmp.Diff([]string{"could not save"}, state.FormErrors()); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}

	next := apply(t, state, formstate.SubmitStart{})
	if len(next.FormErrors()) != 0 {
		t.Fatalf("SubmitStart should clear form errors")
	}
}

func TestSubmitErrorOverriddenByNextChange(t *testing.T) {
	state := apply(t, formstate.Initial(),
		formstate.SubmitError{Field: model.FieldDeparture, Error: "required"},
		formstate.Change(model.FieldDeparture, "EGLL"),
	)
	if got := field(t, state, model.FieldDeparture).Error; got != "" {
		t.Fatalf("expected change to recompute error, got %q", got)
	}
}

func TestValidateAll(t *testing.T) {
	state := apply(t, formstate.Initial(),
		formstate.Change(model.FieldAircraftType, "C172"),
		formstate.ValidateAll{},
	)

	for _, f := range state.Fields() {
		if !f.Touched {
			t.Fatalf("%s: expected touched", f.Name)
		}
		if want := formstate.Validate(f.Name, f.Value); f.Error != want {
			t.Fatalf("%s: error = %q, want %q", f.Name, f.Error, want)
		}
	}
	if field(t, state, model.FieldDate).Error != "required" {
		t.Fatalf("expected blank date to be required")
	}
	if field(t, state, model.FieldAircraftType).VisibleError() != "" {
		t.Fatalf("expected valid aircraft type")
	}
}

func TestProgrammingErrorsAreRejected(t *testing.T) {
	initial := formstate.Initial()
	cases := []struct {
		name   string
		action formstate.Action
		err    error
	}{
		{"unknown change", formstate.Change("username", "x"), formstate.ErrUnknownField},
		{"unknown blur", formstate.Blur("email"), formstate.ErrUnknownField},
		{"unknown submit error field", formstate.SubmitError{Field: "password", Error: "x"}, formstate.ErrUnknownField},
		{"unknown submit error map", formstate.SubmitError{Errors: map[string]string{"password": "x"}}, formstate.ErrUnknownField},
		{"bool to text", formstate.Check(model.FieldRemarks, true), formstate.ErrValueKind},
		{"text to checkbox", formstate.Change(model.FieldPilotInCommand, "yes"), formstate.ErrValueKind},
		{"nil action", nil, formstate.ErrUnknownAction},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := formstate.Apply(initial, tc.action)
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			if !got.Equal(initial) {
				t.Fatalf("state changed on error")
			}
		})
	}
}

func TestMustApplyPanicsOnUnknownField(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	formstate.MustApply(formstate.Initial(), formstate.Blur("username"))
}

func TestRecordGathersValues(t *testing.T) {
	state := apply(t, formstate.Initial(),
		formstate.Change(model.FieldDate, "2024-05-01"),
		formstate.Change(model.FieldAircraftType, "C172"),
		formstate.Change(model.FieldRegistration, "G-ABCD"),
		formstate.Change(model.FieldDeparture, "EGLL"),
		formstate.Change(model.FieldArrival, "EGKK"),
		formstate.Change(model.FieldDepartureTime, "09:00"),
		formstate.Change(model.FieldArrivalTime, "10:30"),
		formstate.Check(model.FieldPilotInCommand, false),
	)

	rec := state.Record()
	if rec.AircraftType != "C172" || rec.Arrival != "EGKK" || rec.PilotInCommand {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Remarks != nil || rec.ID != nil {
		t.Fatalf("expected optional fields to be absent: %+v", rec)
	}

	withRemarks := apply(t, state, formstate.Change(model.FieldRemarks, "circuits"))
	if got := withRemarks.Record().RemarksText(); got != "circuits" {
		t.Fatalf("remarks = %q", got)
	}
}
