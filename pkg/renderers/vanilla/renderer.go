package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-logbook/pkg/model"
	"github.com/goliatone/go-logbook/pkg/render"
	rendertemplate "github.com/goliatone/go-logbook/pkg/render/template"
	gotemplate "github.com/goliatone/go-logbook/pkg/render/template/gotemplate"
)

// Name identifies the HTML renderer.
const Name = "vanilla"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	classes          Classes
	inlineStyles     bool
	scriptURL        string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithClasses adds classes to the chrome elements.
func WithClasses(classes Classes) Option {
	return func(cfg *config) {
		cfg.classes = classes
	}
}

// WithInlineStyles embeds the default stylesheet when the theme does not
// provide one.
func WithInlineStyles(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

// WithScriptURL sets the URL of the live runtime script. The script is only
// referenced when the form has a live endpoint.
func WithScriptURL(url string) Option {
	return func(cfg *config) {
		cfg.scriptURL = strings.TrimSpace(url)
	}
}

// Renderer draws the entry form as a plain HTML form.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	classes      Classes
	inlineStyles bool
	scriptURL    string
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), inlineStyles: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		classes:      cfg.classes.withDefaults(),
		inlineStyles: cfg.inlineStyles,
		scriptURL:    cfg.scriptURL,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"form":    r.buildForm(view, options),
		"classes": r.classes,
		"theme":   r.buildTheme(options),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type formView struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Subtitle   string        `json:"subtitle"`
	Endpoints  endpointsView `json:"endpoints"`
	Hidden     []hiddenView  `json:"hidden"`
	Fields     []fieldView   `json:"fields"`
	Actions    []actionView  `json:"actions"`
	Submitting bool          `json:"submitting"`
	FormErrors []string      `json:"formErrors"`
	Script     string        `json:"script"`
}

type endpointsView struct {
	Submit string `json:"submit"`
	Change string `json:"change"`
	Blur   string `json:"blur"`
	Reset  string `json:"reset"`
	Live   string `json:"live"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type fieldView struct {
	Name        string `json:"name"`
	ControlID   string `json:"controlId"`
	ErrorID     string `json:"errorId"`
	HelpID      string `json:"helpId"`
	Label       string `json:"label"`
	Kind        string `json:"kind"`
	InputType   string `json:"inputType"`
	InputMode   string `json:"inputMode"`
	Value       string `json:"value"`
	Checked     bool   `json:"checked"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder"`
	Help        string `json:"help"`
	Error       string `json:"error"`
	Touched     bool   `json:"touched"`
	Textarea    bool   `json:"textarea"`
	Checkbox    bool   `json:"checkbox"`
	Width       string `json:"width"`
	ColSpan     string `json:"colSpan"`
}

type actionView struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

type themeView struct {
	Name       string `json:"name"`
	Variant    string `json:"variant"`
	Style      string `json:"style"`
	Stylesheet string `json:"stylesheet"`
	InlineCSS  string `json:"inlineCss"`
}

func (r *Renderer) buildForm(view render.View, options render.RenderOptions) formView {
	def := view.Definition
	out := formView{
		ID:       options.FormID,
		Title:    def.Title,
		Subtitle: def.Subtitle,
		Endpoints: endpointsView{
			Submit: options.Endpoints.Submit,
			Change: options.Endpoints.Change,
			Blur:   options.Endpoints.Blur,
			Reset:  options.Endpoints.Reset,
			Live:   options.Endpoints.Live,
		},
		Submitting: view.State.IsSubmitting(),
		FormErrors: view.State.FormErrors(),
	}
	if out.ID == "" {
		out.ID = def.ID
	}
	if out.Endpoints.Live != "" {
		out.Script = r.scriptURL
	}

	hidden := options.HiddenFields
	if options.FormID != "" {
		hidden = render.MergeHiddenFields(hidden, render.FormID(options.FormID))
	}
	for _, field := range render.SortedHiddenFields(hidden) {
		out.Hidden = append(out.Hidden, hiddenView{Name: field.Name, Value: field.Value})
	}

	for _, state := range view.State.Fields() {
		decl, _ := def.Field(state.Name)
		fv := fieldView{
			Name:        state.Name,
			ControlID:   controlID(state.Name),
			ErrorID:     errorID(state.Name),
			HelpID:      helpID(state.Name),
			Label:       state.Label,
			Kind:        string(state.Kind),
			InputType:   inputType(state.Kind, state.Value.Text),
			InputMode:   inputMode(state.Kind),
			Required:    decl.Required,
			Placeholder: decl.Placeholder,
			Help:        decl.Help,
			Error:       state.VisibleError(),
			Touched:     state.Touched,
			Textarea:    state.Kind == model.InputTextarea,
			Checkbox:    state.Kind.Boolean(),
			Width:       string(decl.Width),
		}
		if fv.Label == "" {
			fv.Label = decl.Label
		}
		if fv.Width == "" {
			fv.Width = string(model.WidthFull)
		}
		if decl.ColSpan > 0 {
			fv.ColSpan = strconv.Itoa(decl.ColSpan)
		}
		if state.Value.IsBool() {
			fv.Checked = state.Value.Checked
		} else {
			fv.Value = state.Value.Text
		}
		out.Fields = append(out.Fields, fv)
	}

	for _, action := range def.Actions {
		out.Actions = append(out.Actions, actionView{
			Kind:  action.Kind,
			Label: action.Label,
			Icon:  action.Icon,
		})
	}
	return out
}

func (r *Renderer) buildTheme(options render.RenderOptions) themeView {
	var out themeView
	if cfg := options.Theme; cfg != nil {
		out.Name = cfg.Theme
		out.Variant = cfg.Variant
		vars := cfg.CSSVars
		if len(vars) == 0 {
			vars = render.CSSVars(cfg.Tokens)
		}
		out.Style = render.CSSVarsStyle(vars)
		if cfg.AssetURL != nil {
			out.Stylesheet = cfg.AssetURL("stylesheet")
		}
	}
	if out.Stylesheet == "" && r.inlineStyles {
		out.InlineCSS = defaultStylesheet()
	}
	return out
}
