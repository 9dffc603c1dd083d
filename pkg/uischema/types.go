package uischema

import "strings"

// Store keeps the parsed form layouts keyed by form id. It is safe for
// concurrent readers when treated as immutable after construction.
type Store struct {
	forms map[string]Form
}

// Form describes the layout overrides for one form declaration.
type Form struct {
	ID     string
	Source string
	Form   FormConfig
	Fields map[string]FieldConfig
}

// FormConfig captures the heading and action buttons.
type FormConfig struct {
	Title    string            `json:"title" yaml:"title"`
	Subtitle string            `json:"subtitle" yaml:"subtitle"`
	Actions  []ActionConfig    `json:"actions" yaml:"actions"`
	Metadata map[string]string `json:"metadata" yaml:"metadata"`
}

// ActionConfig serialises buttons rendered alongside the form. Icon holds
// inline SVG markup and is sanitised when loaded.
type ActionConfig struct {
	Kind  string `json:"kind" yaml:"kind"`
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// FieldConfig customises how a single field is presented.
type FieldConfig struct {
	Label        string            `json:"label,omitempty" yaml:"label,omitempty"`
	HelpText     string            `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Placeholder  string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Width        string            `json:"width,omitempty" yaml:"width,omitempty"`
	Grid         *GridConfig       `json:"grid,omitempty" yaml:"grid,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	OriginalPath string            `json:"-" yaml:"-"`
}

// GridConfig describes a field's presence in the layout grid.
type GridConfig struct {
	Span int `json:"span,omitempty" yaml:"span,omitempty"`
}

// NormalizeFieldKey trims a field key and strips a leading JSON pointer or
// "fields." prefix so "/departure" and "fields.departure" both address
// "departure".
func NormalizeFieldKey(key string) string {
	trimmed := strings.TrimSpace(key)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	trimmed = strings.TrimPrefix(trimmed, "fields.")
	return strings.TrimSpace(trimmed)
}
