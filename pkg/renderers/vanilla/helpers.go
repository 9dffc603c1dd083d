package vanilla

import (
	"strings"

	"github.com/goliatone/go-logbook/pkg/model"
)

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "lb-" + trimmed
}

func errorID(name string) string {
	id := controlID(name)
	if id == "" {
		return ""
	}
	return id + "-error"
}

func helpID(name string) string {
	id := controlID(name)
	if id == "" {
		return ""
	}
	return id + "-help"
}

// sanitizeClassList drops reserved "logbook-" tokens so overrides only add
// classes.
func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "logbook-") {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

// inputType maps a field kind to the HTML input type. Time fields accept a
// bare clock or a date-time, so they switch to datetime-local once the value
// carries a date. Total time accepts "1:30" and stays a text input.
func inputType(kind model.InputKind, value string) string {
	switch kind {
	case model.InputDate:
		return "date"
	case model.InputTime:
		if strings.Contains(value, "T") {
			return "datetime-local"
		}
		return "time"
	case model.InputCheckbox:
		return "checkbox"
	default:
		return "text"
	}
}

func inputMode(kind model.InputKind) string {
	if kind == model.InputNumber {
		return "decimal"
	}
	return ""
}
