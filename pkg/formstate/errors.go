package formstate

import "errors"

var (
	// ErrUnknownField is returned when an action references a field the
	// form does not declare.
	ErrUnknownField = errors.New("formstate: unknown field")
	// ErrValueKind is returned when a boolean is supplied to a text field or
	// text to a checkbox.
	ErrValueKind = errors.New("formstate: value kind does not match field")
	// ErrUnknownAction is returned for nil or unrecognised actions.
	ErrUnknownAction = errors.New("formstate: unknown action")
)
