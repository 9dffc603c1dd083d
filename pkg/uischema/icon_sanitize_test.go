package uischema

import (
	"strings"
	"testing"
)

func TestSanitizeIconMarkup(t *testing.T) {
	input := `  <svg viewBox="0 0 24 24" onload="steal()"><script>alert('x')</script><path d="M5 13l4 4L19 7" onclick="x()"/><foreignObject><b>x</b></foreignObject></svg>`
	got := sanitizeIconMarkup(input)

	for _, banned := range []string{"script", "onload", "onclick", "foreignObject", "<b>"} {
		if strings.Contains(got, banned) {
			t.Fatalf("expected %q to be removed, got %q", banned, got)
		}
	}
	// The HTML tokenizer lowercases attribute names.
	for _, kept := range []string{"<svg", `viewbox="0 0 24 24"`, `<path d="m5 13l4 4l19 7"`} {
		if !strings.Contains(strings.ToLower(got), kept) {
			t.Fatalf("expected %q to remain, got %q", kept, got)
		}
	}
	if sanitizeIconMarkup("   ") != "" {
		t.Fatalf("expected blank markup to stay blank")
	}
}
