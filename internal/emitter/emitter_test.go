package emitter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cmdsaw/cmdsaw/internal/schema"
)

func sampleResult() *schema.Result {
	return &schema.Result{
		SchemaVersion: schema.SchemaVersion,
		Tool: &schema.ToolDoc{
			Command:     "git",
			Version:     "2.39.1",
			HelpText:    "usage: git",
			Invocation:  []string{"/usr/bin/git"},
			Options:     []schema.OptionDoc{},
			Positionals: []schema.PositionalDoc{},
			Subcommands: []*schema.CommandDoc{},
			CapturedAt:  "2026-08-23T10:00:00Z",
		},
		Diagnostics: &schema.Diagnostics{Warnings: []string{}},
	}
}

func TestGetDefaultsToJSON(t *testing.T) {
	e, err := Get("")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if e.Format() != "json" {
		t.Errorf("Format() = %q, want json", e.Format())
	}
}

func TestGetUnknownFormat(t *testing.T) {
	if _, err := Get("csv"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestJSONEmitRoundTrips(t *testing.T) {
	e, _ := Get("json")
	out, err := e.Emit(sampleResult())
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if !strings.HasSuffix(string(out), "\n") {
		t.Error("output should end with a newline")
	}

	var decoded schema.Result
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.SchemaVersion != schema.SchemaVersion {
		t.Errorf("schema_version = %q", decoded.SchemaVersion)
	}
	if decoded.Tool.Command != "git" {
		t.Errorf("command = %q", decoded.Tool.Command)
	}
}

func TestJSONEmitDeterministic(t *testing.T) {
	e, _ := Get("json")
	a, err := e.Emit(sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Emit(sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("repeated Emit produced different bytes")
	}
}
