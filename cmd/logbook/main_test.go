package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSchemaCommand(t *testing.T) {
	out, _, err := execute(t, "schema")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(out, "operationId: saveFlight") {
		t.Fatalf("yaml output missing operation:\n%s", out)
	}

	out, _, err = execute(t, "schema", "--format", "json", "--server-url", "https://logbook.example")
	if err != nil {
		t.Fatalf("schema json: %v", err)
	}
	for _, want := range []string{`"operationId": "saveFlight"`, `"url": "https://logbook.example"`} {
		if !strings.Contains(out, want) {
			t.Errorf("json output missing %q", want)
		}
	}

	if _, _, err := execute(t, "schema", "--format", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestSchemaCommandWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flight.yaml")
	_, stderr, err := execute(t, "schema", "--output", path)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "openapi: 3.0.3") {
		t.Fatalf("unexpected file contents:\n%s", data)
	}
	if !strings.Contains(stderr, path) {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Fatalf("version = %q, want %q", out, version)
	}
}

func TestCommandsRejectBadInput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing config", []string{"serve", "--config", missing}, "config: read"},
		{"bad log level", []string{"serve", "--log-level", "loud"}, "unknown level"},
		{"bad output format", []string{"new", "--format", "xml"}, "unsupported output format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
}
