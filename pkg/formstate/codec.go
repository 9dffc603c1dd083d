package formstate

import (
	"fmt"
	"strings"
)

// Message is the wire form of an action as sent by the live form channel
// and the JSON endpoints.
type Message struct {
	Type   Type              `json:"type"`
	Field  string            `json:"field,omitempty"`
	Value  any               `json:"value,omitempty"`
	Error  string            `json:"error,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
	Form   []string          `json:"form,omitempty"`
}

// Decode converts a wire message into an Action, coercing the value to the
// field's kind.
func (e *Engine) Decode(msg Message) (Action, error) {
	field := strings.TrimSpace(msg.Field)
	switch Type(strings.ToUpper(strings.TrimSpace(string(msg.Type)))) {
	case TypeFieldChange:
		value, err := e.Coerce(field, msg.Value)
		if err != nil {
			return nil, err
		}
		return FieldChange{Field: field, Value: value}, nil
	case TypeFieldBlur:
		if _, ok := e.initial.fields[field]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		return FieldBlur{Field: field}, nil
	case TypeSubmitStart:
		return SubmitStart{}, nil
	case TypeSubmitSuccess:
		return SubmitSuccess{}, nil
	case TypeSubmitError:
		return SubmitError{Field: field, Error: msg.Error, Errors: msg.Errors, Form: msg.Form}, nil
	case TypeReset:
		return Reset{}, nil
	case TypeValidateAll:
		return ValidateAll{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, msg.Type)
	}
}
