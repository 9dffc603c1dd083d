package form

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-logbook/pkg/formstate"
	"github.com/goliatone/go-logbook/pkg/model"
	"github.com/goliatone/go-logbook/pkg/testsupport"
)

func TestMetricsAndLogs(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	// Registering twice reuses the existing collectors.
	if _, err := NewMetrics(reg); err != nil {
		t.Fatalf("second registration: %v", err)
	}

	core, logs := observer.New(zapcore.InfoLevel)
	f := New(WithMetrics(metrics), WithLogger(zap.New(core)), WithID("01TEST"))

	if _, err := f.Submit(context.Background()); err == nil {
		t.Fatalf("expected invalid submit")
	}
	for name, value := range testsupport.SampleRecord().Values() {
		if text, ok := value.(string); ok {
			if _, err := f.Change(name, text); err != nil {
				t.Fatalf("change %s: %v", name, err)
			}
		}
	}
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if got := testutil.ToFloat64(metrics.submissions.WithLabelValues(OutcomeInvalid)); got != 1 {
		t.Fatalf("invalid submissions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.submissions.WithLabelValues(OutcomeSaved)); got != 1 {
		t.Fatalf("saved submissions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.actions.WithLabelValues(string(formstate.TypeValidateAll))); got != 2 {
		t.Fatalf("validate actions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.actions.WithLabelValues(string(formstate.TypeSubmitSuccess))); got != 1 {
		t.Fatalf("success actions = %v, want 1", got)
	}

	saved := logs.FilterMessage("flight saved").All()
	if len(saved) != 1 {
		t.Fatalf("expected one save log, got %d", len(saved))
	}
	fields := saved[0].ContextMap()
	if fields["form"] != "01TEST" || fields["registration"] != "G-ABCD" || fields["id"] != int64(1) {
		t.Fatalf("unexpected log fields: %v", fields)
	}
}

func TestRecorderAssignsSequentialIDs(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		rec, err := r.Save(ctx, testsupport.SampleRecord())
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if rec.ID == nil || *rec.ID != want {
			t.Fatalf("id = %v, want %d", rec.ID, want)
		}
	}

	records := r.Records()
	*records[0].ID = 42
	if *r.Records()[0].ID != 1 {
		t.Fatalf("Records must return copies")
	}
}

func TestSaveErrorMessage(t *testing.T) {
	err := &SaveError{
		Status:  422,
		Message: "rejected",
		Errors:  map[string][]string{model.FieldArrival: {"unknown airfield"}},
	}
	want := "form: save rejected (status 422): rejected, arrival: unknown airfield"
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}
