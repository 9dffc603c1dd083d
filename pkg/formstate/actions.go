package formstate

// Type names an action variant. The string values match the action names
// used on the wire by the live form channel.
type Type string

const (
	TypeFieldChange   Type = "FIELD_CHANGE"
	TypeFieldBlur     Type = "FIELD_BLUR"
	TypeSubmitStart   Type = "FORM_SUBMIT"
	TypeSubmitSuccess Type = "SUBMIT_SUCCESS"
	TypeSubmitError   Type = "SUBMIT_ERROR"
	TypeReset         Type = "RESET_FORM"
	TypeValidateAll   Type = "VALIDATE_ALL"
)

// Action is one discrete user or submission event. The set of variants is
// closed; see the types below.
type Action interface {
	Type() Type
	isAction()
}

// FieldChange sets a field's value and recomputes its error.
type FieldChange struct {
	Field string
	Value Value
}

// FieldBlur marks a field as touched.
type FieldBlur struct {
	Field string
}

// SubmitStart marks the form as submitting.
type SubmitStart struct{}

// SubmitSuccess returns the form to its initial state.
type SubmitSuccess struct{}

// SubmitError clears the submitting flag and merges errors surfaced by a
// failed save. Field/Error carry a single field error, Errors a mapping, and
// Form form-level messages; any combination may be set.
type SubmitError struct {
	Field  string
	Error  string
	Errors map[string]string
	Form   []string
}

// Reset returns the form to its initial state.
type Reset struct{}

// ValidateAll recomputes every field's error and marks every field touched,
// so a submit attempt reveals all problems at once.
type ValidateAll struct{}

func (FieldChange) Type() Type   { return TypeFieldChange }
func (FieldBlur) Type() Type     { return TypeFieldBlur }
func (SubmitStart) Type() Type   { return TypeSubmitStart }
func (SubmitSuccess) Type() Type { return TypeSubmitSuccess }
func (SubmitError) Type() Type   { return TypeSubmitError }
func (Reset) Type() Type         { return TypeReset }
func (ValidateAll) Type() Type   { return TypeValidateAll }

func (FieldChange) isAction()   {}
func (FieldBlur) isAction()     {}
func (SubmitStart) isAction()   {}
func (SubmitSuccess) isAction() {}
func (SubmitError) isAction()   {}
func (Reset) isAction()         {}
func (ValidateAll) isAction()   {}

// Change is shorthand for a text FieldChange.
func Change(field, value string) FieldChange {
	return FieldChange{Field: field, Value: TextValue(value)}
}

// Check is shorthand for a checkbox FieldChange.
func Check(field string, checked bool) FieldChange {
	return FieldChange{Field: field, Value: BoolValue(checked)}
}

// Blur is shorthand for FieldBlur.
func Blur(field string) FieldBlur {
	return FieldBlur{Field: field}
}
