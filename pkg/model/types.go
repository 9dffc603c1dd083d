package model

import "strings"

// InputKind identifies the control a field renders as.
type InputKind string

const (
	InputText     InputKind = "text"
	InputDate     InputKind = "date"
	InputTime     InputKind = "time"
	InputNumber   InputKind = "number"
	InputTextarea InputKind = "textarea"
	InputCheckbox InputKind = "checkbox"
)

// Boolean reports whether the control carries a boolean value.
func (k InputKind) Boolean() bool {
	return k == InputCheckbox
}

// Width is a grid hint for renderers that lay fields out in columns.
type Width string

const (
	WidthFull Width = "full"
	WidthHalf Width = "half"
)

// Field names of the logbook entry form, in declaration order.
const (
	FieldDate           = "date"
	FieldAircraftType   = "aircraftType"
	FieldRegistration   = "registration"
	FieldDeparture      = "departure"
	FieldArrival        = "arrival"
	FieldDepartureTime  = "departureTime"
	FieldArrivalTime    = "arrivalTime"
	FieldTotalTime      = "totalTime"
	FieldPilotInCommand = "pilotInCommand"
	FieldRemarks        = "remarks"
)

// Field declares one input slot of the form.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Label       string            `json:"label" yaml:"label"`
	Kind        InputKind         `json:"kind" yaml:"kind"`
	Required    bool              `json:"required" yaml:"required"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Help        string            `json:"help,omitempty" yaml:"help,omitempty"`
	Width       Width             `json:"width,omitempty" yaml:"width,omitempty"`
	ColSpan     int               `json:"colSpan,omitempty" yaml:"colSpan,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Action is a button rendered alongside the fields.
type Action struct {
	Kind  string `json:"kind" yaml:"kind"`
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Definition is the full form declaration.
type Definition struct {
	ID       string            `json:"id" yaml:"id"`
	Title    string            `json:"title" yaml:"title"`
	Subtitle string            `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Fields   []Field           `json:"fields" yaml:"fields"`
	Actions  []Action          `json:"actions,omitempty" yaml:"actions,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Field returns the declaration for name.
func (d Definition) Field(name string) (Field, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns the field names in declaration order.
func (d Definition) Names() []string {
	names := make([]string, 0, len(d.Fields))
	for _, field := range d.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Clone returns a deep copy so decorators can work on their own value.
func (d Definition) Clone() Definition {
	out := d
	out.Fields = make([]Field, len(d.Fields))
	for i, field := range d.Fields {
		field.Metadata = cloneStrings(field.Metadata)
		out.Fields[i] = field
	}
	out.Actions = append([]Action(nil), d.Actions...)
	out.Metadata = cloneStrings(d.Metadata)
	return out
}

func cloneStrings(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// NormalizeName trims whitespace around a field name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
