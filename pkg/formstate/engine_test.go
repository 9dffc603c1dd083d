package formstate

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-logbook/pkg/model"
	"github.com/goliatone/go-logbook/pkg/validation"
)

func TestNewEngineRejectsDuplicateFields(t *testing.T) {
	def := model.Definition{
		ID: "dup",
		Fields: []model.Field{
			{Name: "a", Kind: model.InputText},
			{Name: " a ", Kind: model.InputText},
		},
	}
	if _, err := NewEngine(def); err == nil {
		t.Fatalf("expected duplicate field error")
	}
	if _, err := NewEngine(model.Definition{ID: "empty"}); err == nil {
		t.Fatalf("expected empty definition error")
	}
}

func TestWithRuleOverridesValidator(t *testing.T) {
	engine := MustEngine(model.FlightEntry(), WithRule(model.FieldRemarks, validation.Required("remarks please")))

	msg, err := engine.Validate(model.FieldRemarks, TextValue(""))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if msg != "remarks please" {
		t.Fatalf("expected override message, got %q", msg)
	}
	if Validate(model.FieldRemarks, TextValue("")) != "" {
		t.Fatalf("default engine must not be affected")
	}
}

func TestCoerce(t *testing.T) {
	engine := Default()
	cases := []struct {
		field string
		raw   any
		want  Value
		err   error
	}{
		{model.FieldPilotInCommand, "on", BoolValue(true), nil},
		{model.FieldPilotInCommand, "", BoolValue(false), nil},
		{model.FieldPilotInCommand, false, BoolValue(false), nil},
		{model.FieldPilotInCommand, "maybe", Value{}, ErrValueKind},
		{model.FieldRemarks, "hello", TextValue("hello"), nil},
		{model.FieldRemarks, nil, TextValue(""), nil},
		{model.FieldRemarks, true, Value{}, ErrValueKind},
		{model.FieldRemarks, 12, Value{}, ErrValueKind},
		{"username", "x", Value{}, ErrUnknownField},
	}
	for _, tc := range cases {
		got, err := engine.Coerce(tc.field, tc.raw)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("%s %v: expected %v, got %v", tc.field, tc.raw, tc.err, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s %v: %v", tc.field, tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%s %v: got %v, want %v", tc.field, tc.raw, got, tc.want)
		}
	}
}

func TestDecode(t *testing.T) {
	engine := Default()

	action, err := engine.Decode(Message{Type: "field_change", Field: model.FieldPilotInCommand, Value: "off"})
	if err != nil {
		t.Fatalf("decode change: %v", err)
	}
	if action != (FieldChange{Field: model.FieldPilotInCommand, Value: BoolValue(false)}) {
		t.Fatalf("unexpected action %#v", action)
	}

	if _, err := engine.Decode(Message{Type: TypeFieldBlur, Field: "nope"}); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected unknown field, got %v", err)
	}
	if _, err := engine.Decode(Message{Type: "EXPLODE"}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected unknown action, got %v", err)
	}
	if action, err := engine.Decode(Message{Type: TypeReset}); err != nil || action.Type() != TypeReset {
		t.Fatalf("decode reset: %v %v", action, err)
	}
}

func TestStateJSON(t *testing.T) {
	state := MustApply(Initial(), Change(model.FieldAircraftType, "C1"))
	raw, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)
	for _, want := range []string{`"isSubmitting":false`, `"name":"date"`, `"value":true`, `"error":"must be at least 3 characters"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
	if strings.Index(body, `"name":"date"`) > strings.Index(body, `"name":"remarks"`) {
		t.Fatalf("fields are not in declaration order: %s", body)
	}

	var value Value
	if err := json.Unmarshal([]byte(`true`), &value); err != nil || value != BoolValue(true) {
		t.Fatalf("unmarshal bool value: %v %v", value, err)
	}
	if err := json.Unmarshal([]byte(`3`), &value); !errors.Is(err, ErrValueKind) {
		t.Fatalf("expected value kind error, got %v", err)
	}
}
