package formstate

import (
	"fmt"
	"sort"
)

// Apply returns the state that results from applying action to state. The
// input state is never modified. On error the input state is returned
// unchanged together with the error.
func (e *Engine) Apply(state State, action Action) (State, error) {
	switch a := action.(type) {
	case FieldChange:
		msg, err := e.Validate(a.Field, a.Value)
		if err != nil {
			return state, err
		}
		if err := e.requireField(state, a.Field); err != nil {
			return state, err
		}
		next := state.clone()
		field := next.fields[a.Field]
		field.Value = a.Value
		field.Error = msg
		next.fields[a.Field] = field
		return next, nil

	case FieldBlur:
		if err := e.requireField(state, a.Field); err != nil {
			return state, err
		}
		if state.fields[a.Field].Touched {
			return state, nil
		}
		next := state.clone()
		field := next.fields[a.Field]
		field.Touched = true
		next.fields[a.Field] = field
		return next, nil

	case SubmitStart:
		next := state.clone()
		next.submitting = true
		next.formErrors = nil
		return next, nil

	case SubmitSuccess, Reset:
		return e.initial, nil

	case SubmitError:
		return e.applySubmitError(state, a)

	case ValidateAll:
		next := state.clone()
		for _, name := range next.order {
			field := next.fields[name]
			msg, err := e.Validate(name, field.Value)
			if err != nil {
				return state, err
			}
			field.Error = msg
			field.Touched = true
			next.fields[name] = field
		}
		return next, nil

	case nil:
		return state, fmt.Errorf("%w: nil action", ErrUnknownAction)
	default:
		return state, fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
}

func (e *Engine) applySubmitError(state State, a SubmitError) (State, error) {
	if a.Field != "" {
		if err := e.requireField(state, a.Field); err != nil {
			return state, err
		}
	}
	names := make([]string, 0, len(a.Errors))
	for name := range a.Errors {
		if err := e.requireField(state, name); err != nil {
			return state, err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	next := state.clone()
	next.submitting = false
	if a.Field != "" {
		field := next.fields[a.Field]
		field.Error = a.Error
		next.fields[a.Field] = field
	}
	for _, name := range names {
		field := next.fields[name]
		field.Error = a.Errors[name]
		next.fields[name] = field
	}
	if len(a.Form) > 0 {
		next.formErrors = mergeMessages(next.formErrors, a.Form)
	}
	return next, nil
}

func (e *Engine) requireField(state State, name string) error {
	if _, ok := state.fields[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

func mergeMessages(existing, extra []string) []string {
	out := make([]string, 0, len(existing)+len(extra))
	seen := make(map[string]struct{}, len(existing)+len(extra))
	for _, msg := range append(append([]string(nil), existing...), extra...) {
		if msg == "" {
			continue
		}
		if _, ok := seen[msg]; ok {
			continue
		}
		seen[msg] = struct{}{}
		out = append(out, msg)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
