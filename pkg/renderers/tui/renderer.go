package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-logbook/pkg/flight"
	"github.com/goliatone/go-logbook/pkg/formstate"
	"github.com/goliatone/go-logbook/pkg/model"
	"github.com/goliatone/go-logbook/pkg/render"
)

// Name identifies the terminal renderer.
const Name = "tui"

// Renderer runs terminal prompt sessions over the entry form. Every answer
// is dispatched as FieldChange followed by FieldBlur, so the reducer decides
// what is valid; a field is asked again while its error is visible.
type Renderer struct {
	driver            PromptDriver
	engine            *formstate.Engine
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       NewSurveyDriver(),
		engine:       formstate.Default(),
		outputFormat: OutputFormatJSON,
		theme:        Theme{ErrorPrefix: "✗ "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}
	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field starting from view.State and returns the
// collected values. Nothing is submitted.
func (r *Renderer) Render(ctx context.Context, view render.View, _ render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}

	form := &detached{engine: r.engine, state: view.State}
	def := view.Definition
	if len(def.Fields) == 0 {
		def = r.engine.Definition()
	}
	if err := r.Fill(ctx, def, form); err != nil {
		return nil, err
	}
	return r.serialize(def, form.State().Values())
}

// Fill prompts for every declared field in order.
func (r *Renderer) Fill(ctx context.Context, def model.Definition, form Dispatcher) error {
	for _, field := range def.Fields {
		if err := r.promptField(ctx, field, form); err != nil {
			return err
		}
	}
	return nil
}

// Run fills form, confirms, and submits it. When the submission is rejected
// the errors are printed, the user may retry, and only the fields carrying
// visible errors are asked again. The saved record is returned serialized.
func (r *Renderer) Run(ctx context.Context, def model.Definition, form Form) ([]byte, error) {
	if r.driver == nil {
		return nil, ErrNoDriver
	}
	if err := r.Fill(ctx, def, form); err != nil {
		return nil, err
	}

	for {
		save, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Save flight?", Default: true})
		if err != nil {
			return nil, err
		}
		if !save {
			return nil, ErrAborted
		}

		saved, submitErr := form.Submit(ctx)
		if submitErr == nil {
			return r.serialize(def, RecordValues(saved))
		}

		state := form.State()
		if err := r.reportErrors(ctx, def, state, submitErr); err != nil {
			return nil, err
		}

		retry, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Edit and try again?", Default: true})
		if err != nil {
			return nil, err
		}
		if !retry {
			return nil, submitErr
		}
		for _, field := range def.Fields {
			current, ok := state.Field(field.Name)
			if !ok || current.VisibleError() == "" {
				continue
			}
			if err := r.promptField(ctx, field, form); err != nil {
				return nil, err
			}
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, form Dispatcher) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		current, ok := form.State().Field(field.Name)
		if !ok {
			return fmt.Errorf("tui: %w: %q", formstate.ErrUnknownField, field.Name)
		}

		value, err := r.ask(ctx, field, current)
		if err != nil {
			return err
		}
		if _, err := form.Dispatch(formstate.FieldChange{Field: field.Name, Value: value}); err != nil {
			return err
		}
		state, err := form.Dispatch(formstate.FieldBlur{Field: field.Name})
		if err != nil {
			return err
		}

		updated, _ := state.Field(field.Name)
		msg := updated.VisibleError()
		if msg == "" {
			return nil
		}
		if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, displayLabel(field), msg)); err != nil {
			return err
		}
	}
}

func (r *Renderer) ask(ctx context.Context, field model.Field, current formstate.FieldState) (formstate.Value, error) {
	label := displayLabel(field)
	help := displayHelp(field)

	switch {
	case field.Kind.Boolean():
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: current.Value.Checked,
			Help:    help,
		})
		if err != nil {
			return formstate.Value{}, err
		}
		return formstate.BoolValue(checked), nil
	case field.Kind == model.InputTextarea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: current.Value.Text,
			Help:    help,
		})
		if err != nil {
			return formstate.Value{}, err
		}
		return formstate.TextValue(text), nil
	default:
		text, err := r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: current.Value.Text,
			Help:    help,
		})
		if err != nil {
			return formstate.Value{}, err
		}
		return formstate.TextValue(strings.TrimSpace(text)), nil
	}
}

func (r *Renderer) reportErrors(ctx context.Context, def model.Definition, state formstate.State, cause error) error {
	for _, msg := range state.FormErrors() {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
	reported := len(state.FormErrors()) > 0
	for _, field := range def.Fields {
		current, ok := state.Field(field.Name)
		if !ok || current.VisibleError() == "" {
			continue
		}
		reported = true
		if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, displayLabel(field), current.VisibleError())); err != nil {
			return err
		}
	}
	if !reported && cause != nil {
		return r.driver.Info(ctx, r.theme.ErrorPrefix+cause.Error())
	}
	return nil
}

func (r *Renderer) serialize(def model.Definition, values map[string]any) ([]byte, error) {
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(def, values)), nil
	default:
		return json.Marshal(values)
	}
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func displayHelp(field model.Field) string {
	switch {
	case field.Help != "" && field.Placeholder != "":
		return fmt.Sprintf("%s (e.g. %s)", field.Help, field.Placeholder)
	case field.Help != "":
		return field.Help
	case field.Placeholder != "":
		return "e.g. " + field.Placeholder
	default:
		return ""
	}
}

func formatValue(value any) string {
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for key, value := range values {
		flattened.Set(key, formatValue(value))
	}
	return flattened.Encode()
}

// prettyPrint lists declared fields in order with their labels, then any
// extra keys (id) sorted by name.
func prettyPrint(def model.Definition, values map[string]any) string {
	var b strings.Builder
	seen := make(map[string]struct{}, len(values))

	if id, ok := values["id"]; ok {
		fmt.Fprintf(&b, "ID: %s\n", formatValue(id))
		seen["id"] = struct{}{}
	}
	for _, field := range def.Fields {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		seen[field.Name] = struct{}{}
		fmt.Fprintf(&b, "%s: %s\n", displayLabel(field), formatValue(value))
	}

	extra := make([]string, 0)
	for key := range values {
		if _, ok := seen[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		fmt.Fprintf(&b, "%s: %s\n", key, formatValue(values[key]))
	}
	return b.String()
}

// RecordValues flattens a saved record for serialization.
func RecordValues(rec flight.Record) map[string]any {
	values := rec.Values()
	if rec.ID != nil {
		values["id"] = *rec.ID
	}
	return values
}
