package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-logbook/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.CSRFToken("_csrf", "token123"),
		render.FormID("01HX0000000000000000000000"),
		render.Hidden("generation", 4),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing":   "keep",
		"_csrf":      "token123",
		"_form":      "01HX0000000000000000000000",
		"generation": "4",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "_form", Value: "01HX0000000000000000000000"},
		{Name: "existing", Value: "keep"},
		{Name: "generation", Value: "4"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}

	if render.SortedHiddenFields(nil) != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestFormEndpoints(t *testing.T) {
	got := render.FormEndpoints("/forms/abc")
	want := render.Endpoints{
		Submit: "/forms/abc/submit",
		Change: "/forms/abc/change",
		Blur:   "/forms/abc/blur",
		Reset:  "/forms/abc/reset",
		Live:   "/forms/abc/live",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("endpoints mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(render.Endpoints{}, render.FormEndpoints("")); diff != "" {
		t.Fatalf("expected empty endpoints (-want +got):\n%s", diff)
	}
}
