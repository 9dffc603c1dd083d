package form_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-logbook/pkg/flight"
	"github.com/goliatone/go-logbook/pkg/form"
	"github.com/goliatone/go-logbook/pkg/formstate"
	"github.com/goliatone/go-logbook/pkg/model"
	"github.com/goliatone/go-logbook/pkg/testsupport"
)

func fill(t *testing.T, f *form.Form, rec flight.Record) {
	t.Helper()
	for name, value := range rec.Values() {
		var err error
		switch typed := value.(type) {
		case bool:
			_, err = f.Check(name, typed)
		case string:
			_, err = f.Change(name, typed)
		}
		if err != nil {
			t.Fatalf("fill %s: %v", name, err)
		}
	}
}

// blockingSaver parks every Save until release is closed and reports each
// call on started.
type blockingSaver struct {
	started chan flight.Record
	release chan struct{}
	err     error
}

func newBlockingSaver() *blockingSaver {
	return &blockingSaver{started: make(chan flight.Record, 1), release: make(chan struct{})}
}

func (s *blockingSaver) Save(ctx context.Context, rec flight.Record) (flight.Record, error) {
	s.started <- rec
	<-s.release
	if s.err != nil {
		return flight.Record{}, s.err
	}
	return rec.WithID(99), nil
}

type submitResult struct {
	rec flight.Record
	err error
}

func submitAsync(f *form.Form) <-chan submitResult {
	done := make(chan submitResult, 1)
	go func() {
		rec, err := f.Submit(context.Background())
		done <- submitResult{rec: rec, err: err}
	}()
	return done
}

func TestNewMountsInitialState(t *testing.T) {
	f := form.New()
	if !f.State().Equal(formstate.Initial()) {
		t.Fatalf("expected initial state")
	}
	if f.Closed() {
		t.Fatalf("new form must be open")
	}
}

func TestDispatchUpdatesState(t *testing.T) {
	f := form.New()

	if _, err := f.Change(model.FieldAircraftType, "C172"); err != nil {
		t.Fatalf("change: %v", err)
	}
	state, err := f.Blur(model.FieldAircraftType)
	if err != nil {
		t.Fatalf("blur: %v", err)
	}

	field, _ := state.Field(model.FieldAircraftType)
	want := formstate.FieldState{
		Name:    model.FieldAircraftType,
		Label:   "Aircraft type",
		Kind:    model.InputText,
		Value:   formstate.TextValue("C172"),
		Touched: true,
	}
	if diff := cmp.Diff(want, field); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}
	if !f.State().Equal(state) {
		t.Fatalf("State must return the last applied snapshot")
	}

	reset, err := f.Reset()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !reset.Equal(formstate.Initial()) {
		t.Fatalf("reset must restore the initial state")
	}
}

func TestDispatchRejectsProgrammingErrors(t *testing.T) {
	f := form.New()
	before := f.State()

	if _, err := f.Change("username", "x"); !errors.Is(err, formstate.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := f.Check(model.FieldRemarks, true); !errors.Is(err, formstate.ErrValueKind) {
		t.Fatalf("expected ErrValueKind, got %v", err)
	}
	if !f.State().Equal(before) {
		t.Fatalf("rejected actions must not change the state")
	}
}

func TestSubmitInvalidDoesNotSave(t *testing.T) {
	recorder := form.NewRecorder()
	f := form.New(form.WithSaver(recorder))

	_, err := f.Submit(context.Background())
	if !errors.Is(err, form.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if recorder.Len() != 0 {
		t.Fatalf("invalid entries must not reach the saver")
	}

	state := f.State()
	if state.IsSubmitting() {
		t.Fatalf("invalid submit must not start submitting")
	}
	for _, field := range state.Fields() {
		if !field.Touched {
			t.Fatalf("field %s not touched after submit", field.Name)
		}
	}
	departure, _ := state.Field(model.FieldDeparture)
	if departure.VisibleError() != "required" {
		t.Fatalf("expected visible required error, got %q", departure.VisibleError())
	}
}

func TestSubmitSavesAndResets(t *testing.T) {
	recorder := form.NewRecorder()
	f := form.New(form.WithSaver(recorder), form.WithID("f1"))

	rec := testsupport.SampleRecord()
	rec.TotalTime = ""
	fill(t, f, rec)

	saved, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := testsupport.SampleRecord().WithID(1)
	if diff := cmp.Diff(want, saved); diff != "" {
		t.Fatalf("saved record mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]flight.Record{want}, recorder.Records()); diff != "" {
		t.Fatalf("recorder mismatch (-want +got):\n%s", diff)
	}
	if !f.State().Equal(formstate.Initial()) {
		t.Fatalf("a successful save must reset the form")
	}
}

func TestSubmitSanitisesRemarks(t *testing.T) {
	recorder := form.NewRecorder()
	f := form.New(form.WithSaver(recorder))

	rec := testsupport.SampleRecord()
	markup := "<b>Night</b> circuits<script>alert(1)</script>"
	rec.Remarks = &markup
	fill(t, f, rec)

	saved, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if saved.RemarksText() != "Night circuits" {
		t.Fatalf("remarks not sanitised: %q", saved.RemarksText())
	}
}

func TestSubmitUnderivableTotalTime(t *testing.T) {
	recorder := form.NewRecorder()
	f := form.New(form.WithSaver(recorder))

	rec := testsupport.SampleRecord()
	rec.TotalTime = ""
	rec.ArrivalTime = rec.DepartureTime
	fill(t, f, rec)

	if _, err := f.Submit(context.Background()); !errors.Is(err, form.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	total, _ := f.State().Field(model.FieldTotalTime)
	if total.VisibleError() != form.DerivationError {
		t.Fatalf("expected derivation error, got %q", total.VisibleError())
	}
	if recorder.Len() != 0 {
		t.Fatalf("nothing must be saved")
	}
}

func TestSubmitFailureKeepsValues(t *testing.T) {
	boom := errors.New("backend unavailable")
	f := form.New(form.WithSaver(form.SaverFunc(func(context.Context, flight.Record) (flight.Record, error) {
		return flight.Record{}, boom
	})))
	fill(t, f, testsupport.SampleRecord())

	_, err := f.Submit(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected saver error, got %v", err)
	}

	state := f.State()
	if state.IsSubmitting() {
		t.Fatalf("failure must clear submitting")
	}
	if diff := cmp.Diff([]string{"backend unavailable"}, state.FormErrors()); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(testsupport.SampleRecord(), state.Record()); diff != "" {
		t.Fatalf("entered values must be kept (-want +got):\n%s", diff)
	}
}

func TestSubmitSaveErrorIsSplitByField(t *testing.T) {
	f := form.New(form.WithSaver(form.SaverFunc(func(context.Context, flight.Record) (flight.Record, error) {
		return flight.Record{}, &form.SaveError{
			Status: 422,
			Errors: map[string][]string{
				"body.registration": {"not on the register"},
				"/flight/arrival":   {"unknown airfield", "closed"},
				"":                  {"check your entry"},
			},
		}
	})))
	fill(t, f, testsupport.SampleRecord())

	_, err := f.Submit(context.Background())
	var saveErr *form.SaveError
	if !errors.As(err, &saveErr) || saveErr.Status != 422 {
		t.Fatalf("expected SaveError, got %v", err)
	}

	state := f.State()
	wantErrors := map[string]string{
		model.FieldRegistration: "not on the register",
		model.FieldArrival:      "unknown airfield; closed",
	}
	if diff := cmp.Diff(wantErrors, state.Errors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"check your entry"}, state.FormErrors()); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}

	// The next change recomputes the merged error.
	next, err := f.Change(model.FieldRegistration, "G-WXYZ")
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if field, _ := next.Field(model.FieldRegistration); field.Error != "" {
		t.Fatalf("expected the merged error to clear, got %q", field.Error)
	}
}

func TestSubmitWhileSubmitting(t *testing.T) {
	saver := newBlockingSaver()
	f := form.New(form.WithSaver(saver))
	fill(t, f, testsupport.SampleRecord())

	done := submitAsync(f)
	<-saver.started

	if !f.State().IsSubmitting() {
		t.Fatalf("expected submitting while the save runs")
	}
	if _, err := f.Submit(context.Background()); !errors.Is(err, form.ErrSubmitting) {
		t.Fatalf("expected ErrSubmitting, got %v", err)
	}

	close(saver.release)
	res := <-done
	if res.err != nil {
		t.Fatalf("submit: %v", res.err)
	}
	if res.rec.ID == nil || *res.rec.ID != 99 {
		t.Fatalf("unexpected saved record: %#v", res.rec)
	}
}

func TestResetDuringSaveDiscardsOutcome(t *testing.T) {
	saver := newBlockingSaver()
	saver.err = errors.New("late failure")
	f := form.New(form.WithSaver(saver))
	fill(t, f, testsupport.SampleRecord())

	done := submitAsync(f)
	<-saver.started

	if _, err := f.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := f.Change(model.FieldDeparture, "EGCC"); err != nil {
		t.Fatalf("change: %v", err)
	}
	before := f.State()

	close(saver.release)
	if res := <-done; !errors.Is(res.err, form.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", res.err)
	}
	if !f.State().Equal(before) {
		t.Fatalf("a stale outcome must leave the state untouched")
	}
}

func TestDispatchRefusesSubmitTransitions(t *testing.T) {
	saver := newBlockingSaver()
	saver.err = errors.New("late failure")
	f := form.New(form.WithSaver(saver))
	fill(t, f, testsupport.SampleRecord())

	done := submitAsync(f)
	<-saver.started
	before := f.State()

	actions := []formstate.Action{
		formstate.SubmitStart{},
		formstate.SubmitSuccess{},
		formstate.SubmitError{Form: []string{"x"}},
	}
	for _, action := range actions {
		if _, err := f.Dispatch(action); !errors.Is(err, form.ErrSubmitAction) {
			t.Fatalf("%s: expected ErrSubmitAction, got %v", action.Type(), err)
		}
	}
	if !f.State().Equal(before) {
		t.Fatalf("refused actions must not change the state")
	}

	if _, err := f.Submit(context.Background()); !errors.Is(err, form.ErrSubmitting) {
		t.Fatalf("expected ErrSubmitting, got %v", err)
	}
	select {
	case <-saver.started:
		t.Fatalf("a second save started while the first was in flight")
	default:
	}

	close(saver.release)
	res := <-done
	if !errors.Is(res.err, saver.err) {
		t.Fatalf("expected the save failure, got %v", res.err)
	}
	state := f.State()
	if state.IsSubmitting() {
		t.Fatalf("the failed save must end the submission")
	}
	if diff := cmp.Diff([]string{"late failure"}, state.FormErrors()); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	if got, _ := state.Field(model.FieldDeparture); got.Value.Text != testsupport.SampleRecord().Departure {
		t.Fatalf("the failed save must keep the entered values, got %q", got.Value.Text)
	}
}

func TestCloseDuringSaveDiscardsOutcome(t *testing.T) {
	saver := newBlockingSaver()
	f := form.New(form.WithSaver(saver))
	fill(t, f, testsupport.SampleRecord())

	done := submitAsync(f)
	<-saver.started
	before := f.State()

	f.Close()
	f.Close()
	close(saver.release)

	if res := <-done; !errors.Is(res.err, form.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", res.err)
	}
	if !f.State().Equal(before) {
		t.Fatalf("closing must freeze the state")
	}
	if _, err := f.Blur(model.FieldDate); !errors.Is(err, form.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := f.Submit(context.Background()); !errors.Is(err, form.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSubmitCancelledContext(t *testing.T) {
	f := form.New()
	fill(t, f, testsupport.SampleRecord())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.Submit(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if diff := cmp.Diff([]string{"The save was cancelled."}, f.State().FormErrors()); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}
