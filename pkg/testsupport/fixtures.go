package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-logbook/pkg/flight"
	"github.com/goliatone/go-logbook/pkg/formstate"
	"github.com/goliatone/go-logbook/pkg/model"
)

// SampleRecord returns a complete, valid flight record.
func SampleRecord() flight.Record {
	remarks := "Circuits, runway 27"
	return flight.Record{
		Date:           "2024-05-01",
		AircraftType:   "C172",
		Registration:   "G-ABCD",
		Departure:      "EGLL",
		Arrival:        "EGKK",
		DepartureTime:  "09:00",
		ArrivalTime:    "10:30",
		TotalTime:      "1.5",
		PilotInCommand: true,
		Remarks:        &remarks,
	}
}

// Apply folds actions over state and fails the test on the first error.
func Apply(t *testing.T, state formstate.State, actions ...formstate.Action) formstate.State {
	t.Helper()

	for _, action := range actions {
		next, err := formstate.Apply(state, action)
		if err != nil {
			t.Fatalf("apply %s: %v", action.Type(), err)
		}
		state = next
	}
	return state
}

// FilledState returns a state holding SampleRecord's values, every field
// touched.
func FilledState(t *testing.T) formstate.State {
	t.Helper()

	rec := SampleRecord()
	state := formstate.Initial()
	for name, value := range rec.Values() {
		var action formstate.Action
		switch typed := value.(type) {
		case bool:
			action = formstate.Check(name, typed)
		case string:
			action = formstate.Change(name, typed)
		default:
			continue
		}
		state = Apply(t, state, action, formstate.Blur(name))
	}
	return state
}

// InvalidState returns a state with a touched invalid departure and an
// untouched invalid arrival.
func InvalidState(t *testing.T) formstate.State {
	t.Helper()

	return Apply(t, formstate.Initial(),
		formstate.Change(model.FieldDeparture, "X"),
		formstate.Blur(model.FieldDeparture),
		formstate.Change(model.FieldArrival, "Y"),
	)
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(*bytes.Buffer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
