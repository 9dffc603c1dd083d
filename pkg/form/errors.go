package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalid is returned by Submit when a field fails validation. The
	// field errors are visible on the state.
	ErrInvalid = errors.New("form: entry has invalid fields")
	// ErrSubmitting is returned by Submit while a save is in flight.
	ErrSubmitting = errors.New("form: save already in progress")
	// ErrStale is returned by Submit when the form was reset or closed while
	// the save ran; the outcome was discarded.
	ErrStale = errors.New("form: save outcome discarded")
	// ErrClosed is returned once the form has been unmounted.
	ErrClosed = errors.New("form: form is closed")
	// ErrSubmitAction is returned by Dispatch for SubmitStart, SubmitSuccess
	// and SubmitError. Those transitions belong to Submit.
	ErrSubmitAction = errors.New("form: submit transitions are driven by Submit")
)

// SaveError is a failure reported by a Saver. Errors maps record paths
// ("registration", "body.departure", "" for the record as a whole) to
// messages and is split into field and form errors on the state.
type SaveError struct {
	Status  int
	Message string
	Errors  map[string][]string
	Err     error
}

func (e *SaveError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var parts []string
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if len(e.Errors) > 0 {
		keys := make([]string, 0, len(e.Errors))
		for key := range e.Errors {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			msg := strings.Join(e.Errors[key], "; ")
			if key != "" {
				msg = key + ": " + msg
			}
			parts = append(parts, msg)
		}
	}
	if len(parts) == 0 && e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		parts = append(parts, "save failed")
	}
	if e.Status != 0 {
		return fmt.Sprintf("form: save rejected (status %d): %s", e.Status, strings.Join(parts, ", "))
	}
	return "form: save rejected: " + strings.Join(parts, ", ")
}

func (e *SaveError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
