package formstate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags the payload carried by a Value.
type ValueKind int

const (
	KindText ValueKind = iota
	KindBool
)

func (k ValueKind) String() string {
	if k == KindBool {
		return "bool"
	}
	return "text"
}

// Value is a field value: text for every control except checkboxes, which
// carry a boolean. The zero Value is empty text.
type Value struct {
	Kind    ValueKind
	Text    string
	Checked bool
}

// TextValue wraps a string.
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// BoolValue wraps a checkbox state.
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Checked: b}
}

// IsBool reports whether the value carries a boolean.
func (v Value) IsBool() bool {
	return v.Kind == KindBool
}

// Interface returns the value as a string or bool.
func (v Value) Interface() any {
	if v.IsBool() {
		return v.Checked
	}
	return v.Text
}

// String renders the value for display.
func (v Value) String() string {
	if v.IsBool() {
		return strconv.FormatBool(v.Checked)
	}
	return v.Text
}

// MarshalJSON encodes the value as a JSON string or boolean.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON accepts a JSON string or boolean.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ValueOf converts a decoded string, bool, or nil into a Value.
func ValueOf(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return TextValue(""), nil
	case string:
		return TextValue(typed), nil
	case bool:
		return BoolValue(typed), nil
	case Value:
		return typed, nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported value type %T", ErrValueKind, raw)
	}
}

// ParseBool interprets the textual checkbox encodings browsers and terminals
// produce ("on", "true", "1", "yes" and their negatives).
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes", "y":
		return true, nil
	case "", "off", "false", "0", "no", "n":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q is not a checkbox value", ErrValueKind, raw)
	}
}
