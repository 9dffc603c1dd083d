package uischema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-logbook/pkg/model"
)

// ErrUnknownField is wrapped when a layout addresses a field the form does
// not declare.
var ErrUnknownField = errors.New("uischema: unknown field")

// Decorator applies layout overrides to a form declaration.
type Decorator struct {
	store *Store
}

var _ model.Decorator = (*Decorator)(nil)

// NewDecorator builds a Decorator backed by the provided store. When store is
// nil or empty, the decorator is a no-op.
func NewDecorator(store *Store) *Decorator {
	return &Decorator{store: store}
}

// Decorate applies the layout registered under def.ID. Layout keys that do
// not name a declared field are rejected and def is left untouched.
func (d *Decorator) Decorate(def *model.Definition) error {
	if d == nil || d.store.Empty() || def == nil {
		return nil
	}

	form, ok := d.store.Form(def.ID)
	if !ok {
		return nil
	}

	var unknown []string
	for name := range form.Fields {
		if _, declared := def.Field(name); !declared {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: form %q (file %s): %s", ErrUnknownField, def.ID, form.Source, strings.Join(unknown, ", "))
	}

	applyFormConfig(def, form.Form)
	for i := range def.Fields {
		if cfg, ok := form.Fields[def.Fields[i].Name]; ok {
			applyFieldConfig(&def.Fields[i], cfg)
		}
	}
	return nil
}

func applyFormConfig(def *model.Definition, cfg FormConfig) {
	if cfg.Title != "" {
		def.Title = cfg.Title
	}
	if cfg.Subtitle != "" {
		def.Subtitle = cfg.Subtitle
	}
	if len(cfg.Actions) > 0 {
		def.Actions = make([]model.Action, 0, len(cfg.Actions))
		for _, action := range cfg.Actions {
			def.Actions = append(def.Actions, model.Action{
				Kind:  action.Kind,
				Label: action.Label,
				Icon:  action.Icon,
			})
		}
	}
	def.Metadata = mergeStrings(def.Metadata, cfg.Metadata)
}

func applyFieldConfig(field *model.Field, cfg FieldConfig) {
	if cfg.Label != "" {
		field.Label = cfg.Label
	}
	if cfg.HelpText != "" {
		field.Help = cfg.HelpText
	}
	if cfg.Placeholder != "" {
		field.Placeholder = cfg.Placeholder
	}
	if cfg.Width != "" {
		field.Width = model.Width(cfg.Width)
	}
	if cfg.Grid != nil && cfg.Grid.Span > 0 {
		field.ColSpan = cfg.Grid.Span
	}
	field.Metadata = mergeStrings(field.Metadata, cfg.Metadata)
}

func mergeStrings(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
