package form

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/goliatone/go-logbook/pkg/flight"
	"github.com/goliatone/go-logbook/pkg/formstate"
	"github.com/goliatone/go-logbook/pkg/model"
	"github.com/goliatone/go-logbook/pkg/render"
)

const tracerName = "github.com/goliatone/go-logbook/pkg/form"

// DerivationError is the totalTime error set when the field was left empty
// and the block time cannot be computed from the departure and arrival times.
const DerivationError = "could not be derived from the departure and arrival times"

// Form is one mounted entry form. It is safe for concurrent use; actions are
// applied one at a time and readers get immutable snapshots.
type Form struct {
	mu         sync.Mutex
	state      formstate.State
	generation uint64
	closed     bool
	lastActive time.Time

	id      string
	engine  *formstate.Engine
	saver   Saver
	logger  *zap.Logger
	metrics *Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// New mounts a form at the engine's initial state.
func New(options ...Option) *Form {
	f := &Form{
		engine: formstate.Default(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	if f.saver == nil {
		f.saver = NewRecorder()
	}
	if f.tracer == nil {
		f.tracer = otel.Tracer(tracerName)
	}
	if f.id != "" {
		f.logger = f.logger.With(zap.String("form", f.id))
	}
	f.state = f.engine.Initial()
	f.lastActive = f.now()
	return f
}

// ID returns the instance name given with WithID.
func (f *Form) ID() string {
	return f.id
}

// Engine returns the engine the form is mounted on.
func (f *Form) Engine() *formstate.Engine {
	return f.engine
}

// State returns the current snapshot.
func (f *Form) State() formstate.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// LastActive reports when the form last received an action.
func (f *Form) LastActive() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastActive
}

// Closed reports whether the form has been unmounted.
func (f *Form) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Dispatch applies action and returns the new state. On error the state is
// left as it was. A Reset also discards any save in flight. The submit
// lifecycle actions are refused with ErrSubmitAction; use Submit.
func (f *Form) Dispatch(action formstate.Action) (formstate.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return f.state, ErrClosed
	}
	switch action.(type) {
	case formstate.SubmitStart, formstate.SubmitSuccess, formstate.SubmitError:
		return f.state, fmt.Errorf("%w: %s", ErrSubmitAction, action.Type())
	case formstate.Reset:
		f.generation++
	}
	return f.applyLocked(action)
}

// Change sets a text field's value.
func (f *Form) Change(field, value string) (formstate.State, error) {
	return f.Dispatch(formstate.Change(field, value))
}

// Check sets the checkbox field's value.
func (f *Form) Check(field string, checked bool) (formstate.State, error) {
	return f.Dispatch(formstate.Check(field, checked))
}

// Blur marks a field touched.
func (f *Form) Blur(field string) (formstate.State, error) {
	return f.Dispatch(formstate.Blur(field))
}

// Reset returns the form to its initial state.
func (f *Form) Reset() (formstate.State, error) {
	return f.Dispatch(formstate.Reset{})
}

// Close unmounts the form. A save still in flight completes but its outcome
// is discarded. Close is idempotent.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	f.generation++
	f.logger.Debug("form closed")
}

func (f *Form) applyLocked(action formstate.Action) (formstate.State, error) {
	next, err := f.engine.Apply(f.state, action)
	if err != nil {
		return f.state, err
	}
	f.state = next
	f.lastActive = f.now()
	if action != nil {
		f.metrics.action(string(action.Type()))
	}
	return next, nil
}

// Submit validates the entry and hands it to the Saver. It returns the saved
// record on success; the form is then back at its initial state.
//
// Submit returns ErrSubmitting while another save runs, ErrInvalid when a
// field fails validation (nothing is saved), ErrStale when the form was
// reset or closed during the save, and the Saver's error, wrapped, when the
// save fails. In the last case the failure is merged into the state and the
// entered values are kept.
func (f *Form) Submit(ctx context.Context) (flight.Record, error) {
	ctx, span := f.tracer.Start(ctx, "logbook.form.submit", trace.WithAttributes(
		attribute.String("logbook.form_id", f.id),
	))
	defer span.End()

	record, generation, err := f.startSubmission()
	if err != nil {
		span.SetAttributes(attribute.String("logbook.outcome", outcomeOf(err)))
		if !errors.Is(err, ErrInvalid) {
			span.SetStatus(codes.Error, err.Error())
		}
		return flight.Record{}, err
	}

	started := f.now()
	saved, saveErr := f.saver.Save(ctx, record)
	f.metrics.save(f.now().Sub(started))

	outcome, err := f.finishSubmission(generation, saved, saveErr)
	span.SetAttributes(attribute.String("logbook.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return flight.Record{}, err
	}
	return saved, nil
}

// startSubmission runs the locked first half of Submit: validate, gather
// the record and mark the form submitting.
func (f *Form) startSubmission() (flight.Record, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return flight.Record{}, 0, ErrClosed
	}
	if f.state.IsSubmitting() {
		f.metrics.submission(OutcomeBusy)
		return flight.Record{}, 0, ErrSubmitting
	}

	validated, err := f.applyLocked(formstate.ValidateAll{})
	if err != nil {
		return flight.Record{}, 0, err
	}
	if validated.HasErrors() {
		f.metrics.submission(OutcomeInvalid)
		return flight.Record{}, 0, invalidError(validated)
	}

	record := validated.Record()
	if strings.TrimSpace(record.TotalTime) == "" {
		total, err := flight.DeriveTotalTime(record.DepartureTime, record.ArrivalTime)
		if err != nil {
			f.logger.Debug("total time derivation failed", zap.Error(err))
			next, applyErr := f.applyLocked(formstate.SubmitError{
				Field: model.FieldTotalTime,
				Error: DerivationError,
			})
			if applyErr != nil {
				return flight.Record{}, 0, applyErr
			}
			f.metrics.submission(OutcomeInvalid)
			return flight.Record{}, 0, invalidError(next)
		}
		record.TotalTime = total
	}
	if record.Remarks != nil {
		clean := render.SanitizeText(*record.Remarks)
		if clean == "" {
			record.Remarks = nil
		} else {
			record.Remarks = &clean
		}
	}

	if _, err := f.applyLocked(formstate.SubmitStart{}); err != nil {
		return flight.Record{}, 0, err
	}
	return record, f.generation, nil
}

// finishSubmission folds the save outcome back into the state unless the
// form moved on while the save ran.
func (f *Form) finishSubmission(generation uint64, saved flight.Record, saveErr error) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.generation != generation {
		f.metrics.submission(OutcomeStale)
		f.logger.Info("discarding stale save outcome", zap.Error(saveErr))
		return OutcomeStale, ErrStale
	}

	if saveErr != nil {
		action := f.submitErrorFor(saveErr)
		if _, err := f.applyLocked(action); err != nil {
			// The reducer rejected the mapped errors; keep the failure visible.
			f.logger.Warn("mapping save error failed", zap.Error(err))
			_, _ = f.applyLocked(formstate.SubmitError{Form: []string{saveErr.Error()}})
		}
		f.metrics.submission(OutcomeFailed)
		f.logger.Warn("flight save failed", zap.Error(saveErr))
		return OutcomeFailed, fmt.Errorf("form: save: %w", saveErr)
	}

	if _, err := f.applyLocked(formstate.SubmitSuccess{}); err != nil {
		return OutcomeFailed, err
	}
	f.metrics.submission(OutcomeSaved)
	fields := []zap.Field{zap.String("registration", saved.Registration), zap.String("date", saved.Date)}
	if saved.ID != nil {
		fields = append(fields, zap.Int64("id", *saved.ID))
	}
	f.logger.Info("flight saved", fields...)
	return OutcomeSaved, nil
}

// submitErrorFor splits a save failure into field and form errors. Paths
// that name no declared field end up as form errors.
func (f *Form) submitErrorFor(err error) formstate.SubmitError {
	var saveErr *SaveError
	if !errors.As(err, &saveErr) {
		return formstate.SubmitError{Form: []string{failureMessage(err)}}
	}

	mapping := render.MapErrorPayload(f.state.Names(), saveErr.Errors)
	action := formstate.SubmitError{
		Errors: mapping.FieldErrors(),
		Form:   mapping.Form,
	}
	if saveErr.Message != "" {
		action.Form = render.MergeFormErrors([]string{saveErr.Message}, action.Form...)
	}
	if len(action.Errors) == 0 && len(action.Form) == 0 {
		action.Form = []string{failureMessage(saveErr.Err)}
	}
	return action
}

func failureMessage(err error) string {
	switch {
	case err == nil:
		return "The flight could not be saved."
	case errors.Is(err, context.DeadlineExceeded):
		return "The save timed out. Please try again."
	case errors.Is(err, context.Canceled):
		return "The save was cancelled."
	default:
		return err.Error()
	}
}

func invalidError(state formstate.State) error {
	errs := state.Errors()
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(names, ", "))
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrInvalid):
		return OutcomeInvalid
	case errors.Is(err, ErrSubmitting):
		return OutcomeBusy
	default:
		return OutcomeFailed
	}
}
