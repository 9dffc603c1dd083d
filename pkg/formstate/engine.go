package formstate

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-logbook/pkg/model"
	"github.com/goliatone/go-logbook/pkg/validation"
)

// Engine binds a form declaration to its validators. It is immutable after
// construction and safe for concurrent use.
type Engine struct {
	def     model.Definition
	initial State
	rules   map[string]validation.Rule
}

// Option configures an Engine.
type Option func(*Engine)

// WithRule overrides or adds the validator for a field.
func WithRule(field string, rule validation.Rule) Option {
	return func(e *Engine) {
		e.rules[strings.TrimSpace(field)] = rule
	}
}

// NewEngine builds an engine for def. Fields without a rule (custom
// declarations, checkboxes) always validate.
func NewEngine(def model.Definition, options ...Option) (*Engine, error) {
	if len(def.Fields) == 0 {
		return nil, fmt.Errorf("formstate: definition %q declares no fields", def.ID)
	}

	e := &Engine{
		def:   def.Clone(),
		rules: FlightRules(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}

	initial := State{
		order:  make([]string, 0, len(def.Fields)),
		fields: make(map[string]FieldState, len(def.Fields)),
	}
	for _, field := range e.def.Fields {
		name := model.NormalizeName(field.Name)
		if name == "" {
			return nil, fmt.Errorf("formstate: definition %q has a field with an empty name", def.ID)
		}
		if _, exists := initial.fields[name]; exists {
			return nil, fmt.Errorf("formstate: definition %q declares field %q twice", def.ID, name)
		}
		initial.order = append(initial.order, name)
		initial.fields[name] = FieldState{
			Name:  name,
			Label: field.Label,
			Kind:  field.Kind,
			Value: initialValue(field),
		}
	}
	e.initial = initial

	for name := range e.rules {
		if _, ok := initial.fields[name]; !ok {
			delete(e.rules, name)
		}
	}
	return e, nil
}

// MustEngine panics when NewEngine fails. Useful for init-time wiring.
func MustEngine(def model.Definition, options ...Option) *Engine {
	e, err := NewEngine(def, options...)
	if err != nil {
		panic(err)
	}
	return e
}

func initialValue(field model.Field) Value {
	if field.Kind.Boolean() {
		// pilotInCommand is the only checkbox and defaults to checked.
		return BoolValue(field.Name == model.FieldPilotInCommand)
	}
	return TextValue("")
}

// Definition returns the declaration the engine was built from.
func (e *Engine) Definition() model.Definition {
	return e.def.Clone()
}

// Initial returns the initial template: empty values, pilotInCommand
// checked, nothing touched, not submitting.
func (e *Engine) Initial() State {
	return e.initial
}

// Validate runs the field's validator. Booleans always pass.
func (e *Engine) Validate(field string, value Value) (string, error) {
	declared, ok := e.initial.fields[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if err := checkKind(declared, value); err != nil {
		return "", err
	}
	if value.IsBool() {
		return "", nil
	}
	rule := e.rules[field]
	if rule == nil {
		return "", nil
	}
	return rule(value.Text), nil
}

// Coerce converts a raw binding value (string or bool) into a Value of the
// field's kind. Checkbox text such as "on" becomes a boolean; a boolean
// supplied to a text field is rejected.
func (e *Engine) Coerce(field string, raw any) (Value, error) {
	declared, ok := e.initial.fields[field]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	value, err := ValueOf(raw)
	if err != nil {
		return Value{}, err
	}
	if declared.Kind.Boolean() && !value.IsBool() {
		checked, err := ParseBool(value.Text)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(checked), nil
	}
	if err := checkKind(declared, value); err != nil {
		return Value{}, err
	}
	return value, nil
}

func checkKind(field FieldState, value Value) error {
	if field.Kind.Boolean() != value.IsBool() {
		return fmt.Errorf("%w: field %q expects %s, got %s", ErrValueKind, field.Name, expectedKind(field), value.Kind)
	}
	return nil
}

func expectedKind(field FieldState) ValueKind {
	if field.Kind.Boolean() {
		return KindBool
	}
	return KindText
}

var defaultEngine = MustEngine(model.FlightEntry())

// Default returns the engine for the logbook entry form.
func Default() *Engine {
	return defaultEngine
}

// Initial returns the initial state of the logbook entry form.
func Initial() State {
	return defaultEngine.Initial()
}

// Apply reduces an action against the logbook entry form.
func Apply(state State, action Action) (State, error) {
	return defaultEngine.Apply(state, action)
}

// MustApply is Apply that panics on programming errors.
func MustApply(state State, action Action) State {
	next, err := defaultEngine.Apply(state, action)
	if err != nil {
		panic(err)
	}
	return next
}

// Validate runs the logbook validator for field. It panics when field is not
// declared, since only the input bindings produce field names.
func Validate(field string, value Value) string {
	msg, err := defaultEngine.Validate(field, value)
	if err != nil {
		panic(err)
	}
	return msg
}
