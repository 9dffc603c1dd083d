package render

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeText strips every tag from user-entered free text (remarks) and
// returns plain text. Script and style bodies are dropped entirely.
func SanitizeText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	if !strings.ContainsAny(raw, "<>") {
		return raw
	}
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(raw)))
}
