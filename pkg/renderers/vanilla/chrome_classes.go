package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm    ChromeClass = "logbook-form"
	ClassHeader  ChromeClass = "logbook-header"
	ClassGrid    ChromeClass = "logbook-grid"
	ClassField   ChromeClass = "logbook-field"
	ClassActions ChromeClass = "logbook-actions"
	ClassErrors  ChromeClass = "logbook-errors"
)

// Classes overrides the chrome classes emitted by the renderer. Empty
// entries fall back to the defaults above.
type Classes struct {
	Form    string `json:"form"`
	Header  string `json:"header"`
	Grid    string `json:"grid"`
	Field   string `json:"field"`
	Actions string `json:"actions"`
	Errors  string `json:"errors"`
}

func (c Classes) withDefaults() Classes {
	pick := func(value string, fallback ChromeClass) string {
		if cleaned := sanitizeClassList(value); cleaned != "" {
			return string(fallback) + " " + cleaned
		}
		return string(fallback)
	}
	return Classes{
		Form:    pick(c.Form, ClassForm),
		Header:  pick(c.Header, ClassHeader),
		Grid:    pick(c.Grid, ClassGrid),
		Field:   pick(c.Field, ClassField),
		Actions: pick(c.Actions, ClassActions),
		Errors:  pick(c.Errors, ClassErrors),
	}
}
