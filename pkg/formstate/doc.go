// Package formstate is the state engine behind the logbook entry form.
//
// A State holds one FieldState per declared field (value, error, touched)
// plus the submission status. Apply is a pure reducer: it takes a State and
// an Action and returns a new State, never modifying its input, so a State
// handed to a renderer stays a consistent snapshot. Field errors are
// recomputed eagerly on every FieldChange by a single-field validator and
// become visible once the field has been touched.
//
// Field names are resolved against the form declaration; an unknown name is
// a programming error and Apply rejects it with ErrUnknownField.
package formstate
