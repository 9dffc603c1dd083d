package formstate

import (
	"encoding/json"

	"github.com/goliatone/go-logbook/pkg/flight"
	"github.com/goliatone/go-logbook/pkg/model"
)

// FieldState is the per-field slice of the form state. Error == "" means the
// field currently has no error.
type FieldState struct {
	Name    string          `json:"name"`
	Label   string          `json:"label"`
	Kind    model.InputKind `json:"inputKind"`
	Value   Value           `json:"value"`
	Error   string          `json:"error,omitempty"`
	Touched bool            `json:"touched"`
}

// VisibleError returns the error only once the field has been touched.
func (f FieldState) VisibleError() string {
	if !f.Touched {
		return ""
	}
	return f.Error
}

// State is an immutable snapshot of a mounted form. The zero State has no
// fields; build states with Initial or Engine.Initial.
type State struct {
	order      []string
	fields     map[string]FieldState
	submitting bool
	formErrors []string
}

// Field returns the state of a single field.
func (s State) Field(name string) (FieldState, bool) {
	field, ok := s.fields[name]
	return field, ok
}

// Fields returns every field in declaration order.
func (s State) Fields() []FieldState {
	out := make([]FieldState, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.fields[name])
	}
	return out
}

// Names returns the declared field names in order.
func (s State) Names() []string {
	return append([]string(nil), s.order...)
}

// IsSubmitting reports whether a save is in flight.
func (s State) IsSubmitting() bool {
	return s.submitting
}

// FormErrors returns form-level messages surfaced by the last failed save.
func (s State) FormErrors() []string {
	return append([]string(nil), s.formErrors...)
}

// HasErrors reports whether any field carries an error.
func (s State) HasErrors() bool {
	for _, field := range s.fields {
		if field.Error != "" {
			return true
		}
	}
	return false
}

// Errors returns the non-empty field errors keyed by field name.
func (s State) Errors() map[string]string {
	out := make(map[string]string)
	for name, field := range s.fields {
		if field.Error != "" {
			out[name] = field.Error
		}
	}
	return out
}

// Values returns the current values as strings and booleans keyed by field
// name.
func (s State) Values() map[string]any {
	out := make(map[string]any, len(s.fields))
	for name, field := range s.fields {
		out[name] = field.Value.Interface()
	}
	return out
}

// Record gathers the current values into a flight record. Blank remarks are
// left absent; fields the record does not know are ignored.
func (s State) Record() flight.Record {
	text := func(name string) *string {
		field, ok := s.fields[name]
		if !ok || field.Value.IsBool() {
			return nil
		}
		v := field.Value.Text
		return &v
	}

	partial := flight.Partial{
		Date:          text(model.FieldDate),
		AircraftType:  text(model.FieldAircraftType),
		Registration:  text(model.FieldRegistration),
		Departure:     text(model.FieldDeparture),
		Arrival:       text(model.FieldArrival),
		DepartureTime: text(model.FieldDepartureTime),
		ArrivalTime:   text(model.FieldArrivalTime),
		TotalTime:     text(model.FieldTotalTime),
	}
	if field, ok := s.fields[model.FieldPilotInCommand]; ok && field.Value.IsBool() {
		pic := field.Value.Checked
		partial.PilotInCommand = &pic
	}
	if remarks := text(model.FieldRemarks); remarks != nil && *remarks != "" {
		partial.Remarks = remarks
	}
	return flight.FromObject(partial)
}

// Equal reports whether two states are deeply equal.
func (s State) Equal(other State) bool {
	if s.submitting != other.submitting {
		return false
	}
	if len(s.order) != len(other.order) || len(s.fields) != len(other.fields) {
		return false
	}
	for i, name := range s.order {
		if other.order[i] != name {
			return false
		}
		if s.fields[name] != other.fields[name] {
			return false
		}
	}
	if len(s.formErrors) != len(other.formErrors) {
		return false
	}
	for i, msg := range s.formErrors {
		if other.formErrors[i] != msg {
			return false
		}
	}
	return true
}

type stateJSON struct {
	Fields       []FieldState `json:"fields"`
	IsSubmitting bool         `json:"isSubmitting"`
	FormErrors   []string     `json:"formErrors,omitempty"`
}

// MarshalJSON encodes the state with its fields in declaration order.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{
		Fields:       s.Fields(),
		IsSubmitting: s.submitting,
		FormErrors:   s.formErrors,
	})
}

// clone returns a State owning fresh containers so the reducer can update it
// without touching the original.
func (s State) clone() State {
	out := State{
		order:      s.order,
		fields:     make(map[string]FieldState, len(s.fields)),
		submitting: s.submitting,
	}
	for name, field := range s.fields {
		out.fields[name] = field
	}
	if len(s.formErrors) > 0 {
		out.formErrors = append([]string(nil), s.formErrors...)
	}
	return out
}
