package uischema_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-logbook/pkg/model"
	"github.com/goliatone/go-logbook/pkg/uischema"
)

func TestLoadFS_Embedded(t *testing.T) {
	store, err := uischema.Default()
	if err != nil {
		t.Fatalf("load embedded layout: %v", err)
	}
	if store.Empty() {
		t.Fatalf("expected embedded layout")
	}

	form, ok := store.Form(model.FlightEntryID)
	if !ok {
		t.Fatalf("flight-entry layout missing, have %v", store.IDs())
	}
	if form.Form.Title != "New Flight Entry" {
		t.Fatalf("title mismatch: %q", form.Form.Title)
	}
	if len(form.Form.Actions) != 2 || form.Form.Actions[0].Kind != "submit" {
		t.Fatalf("unexpected actions: %#v", form.Form.Actions)
	}
	if icon := form.Form.Actions[0].Icon; !strings.HasPrefix(icon, "<svg") {
		t.Fatalf("expected sanitized svg icon, got %q", icon)
	}

	remarks, ok := form.Fields[model.FieldRemarks]
	if !ok || remarks.Grid == nil || remarks.Grid.Span != 2 {
		t.Fatalf("remarks grid not parsed: %#v", remarks)
	}
	if form.Fields[model.FieldDate].Width != "half" {
		t.Fatalf("date width not parsed: %#v", form.Fields[model.FieldDate])
	}
}

func TestLoadFS_JSONAndNormalisedKeys(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.json": {Data: []byte(`{
			"forms": {
				"flight-entry": {
					"form": {"title": "Log a flight"},
					"fields": {"/departure": {"label": "From"}, "fields.arrival": {"label": "To"}}
				}
			}
		}`)},
		"README.md": {Data: []byte("ignored")},
	}

	store, err := uischema.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	form, ok := store.Form("flight-entry")
	if !ok {
		t.Fatalf("form missing")
	}
	if form.Fields["departure"].Label != "From" || form.Fields["arrival"].Label != "To" {
		t.Fatalf("field keys not normalised: %#v", form.Fields)
	}
	if form.Fields["departure"].OriginalPath != "/departure" {
		t.Fatalf("original path mismatch: %q", form.Fields["departure"].OriginalPath)
	}
	if form.Source != "layout.json" {
		t.Fatalf("source mismatch: %q", form.Source)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"unknown yaml key": {
			"a.yaml": {Data: []byte("forms:\n  f:\n    form:\n      titel: typo\n")},
		},
		"unknown json key": {
			"a.json": {Data: []byte(`{"forms": {"f": {"layout": {}}}}`)},
		},
		"empty file": {
			"a.yaml": {Data: []byte("  \n")},
		},
		"duplicate form": {
			"a.yaml": {Data: []byte("forms:\n  f:\n    form:\n      title: A\n")},
			"b.yaml": {Data: []byte("forms:\n  f:\n    form:\n      title: B\n")},
		},
		"bad width": {
			"a.yaml": {Data: []byte("forms:\n  f:\n    fields:\n      date:\n        width: third\n")},
		},
		"action without kind": {
			"a.yaml": {Data: []byte("forms:\n  f:\n    form:\n      actions:\n        - label: Go\n")},
		},
	}

	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := uischema.LoadFS(fsys); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFS_NilIsEmpty(t *testing.T) {
	store, err := uischema.LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Empty() {
		t.Fatalf("expected empty store")
	}
	if _, ok := store.Form("flight-entry"); ok {
		t.Fatalf("expected no form")
	}
}

func TestDecorator_UnknownField(t *testing.T) {
	store, err := uischema.LoadFS(fstest.MapFS{
		"a.yaml": {Data: []byte("forms:\n  flight-entry:\n    form:\n      title: Changed\n    fields:\n      username:\n        label: User\n")},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	def := model.FlightEntry()
	err = uischema.NewDecorator(store).Decorate(&def)
	if !errors.Is(err, uischema.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if !strings.Contains(err.Error(), "username") {
		t.Fatalf("expected the field name in %q", err)
	}
	if def.Title != model.FlightEntry().Title {
		t.Fatalf("definition must be untouched on error")
	}
}
