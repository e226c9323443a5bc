package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// scriptedClient replays canned responses and records the prompts it saw.
type scriptedClient struct {
	responses []string
	errs      []error
	calls     int
	systems   []string
	users     []string
}

func (s *scriptedClient) Complete(ctx context.Context, system, user string) (string, error) {
	s.systems = append(s.systems, system)
	s.users = append(s.users, user)
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", fmt.Errorf("no scripted response for call %d", i)
}

func (s *scriptedClient) Model() string { return "scripted" }
func (s *scriptedClient) Name() string  { return "scripted" }
func (s *scriptedClient) Close() error  { return nil }

const validDoc = `{"name":"view","path":"samtools view","help_text":"whatever","options":[],"positionals":[],"subcommands":["region"],"requires_subcommand":false}`

func TestParseSuccess(t *testing.T) {
	client := &scriptedClient{responses: []string{validDoc}}

	doc, retries, degraded := Parse(context.Background(), client, "samtools view", "Usage: samtools view", 2)
	if degraded {
		t.Fatal("unexpected degradation")
	}
	if retries != 0 {
		t.Errorf("retries = %d, want 0", retries)
	}
	if doc.Name != "view" {
		t.Errorf("Name = %q, want %q", doc.Name, "view")
	}
	if doc.Path != "samtools view" {
		t.Errorf("Path = %q", doc.Path)
	}
	// Canonical help text wins over whatever the model echoed.
	if doc.HelpText != "Usage: samtools view" {
		t.Errorf("HelpText = %q", doc.HelpText)
	}
	if len(doc.Subcommands) != 1 || doc.Subcommands[0] != "region" {
		t.Errorf("Subcommands = %v", doc.Subcommands)
	}
}

func TestParseStripsCodeFences(t *testing.T) {
	client := &scriptedClient{responses: []string{"```json\n" + validDoc + "\n```"}}

	doc, _, degraded := Parse(context.Background(), client, "samtools view", "help", 0)
	if degraded {
		t.Fatal("unexpected degradation")
	}
	if doc.Name != "view" {
		t.Errorf("Name = %q", doc.Name)
	}
}

func TestParseRetriesThenSucceeds(t *testing.T) {
	client := &scriptedClient{responses: []string{"not json at all", validDoc}}

	doc, retries, degraded := Parse(context.Background(), client, "samtools view", "help", 2)
	if degraded {
		t.Fatal("unexpected degradation")
	}
	if retries != 1 {
		t.Errorf("retries = %d, want 1", retries)
	}
	if client.calls != 2 {
		t.Errorf("calls = %d, want 2", client.calls)
	}
	if doc.Name != "view" {
		t.Errorf("Name = %q", doc.Name)
	}
	// The retry prompt carries the valid-JSON reminder.
	if !strings.Contains(client.users[1], "Return ONLY valid JSON") {
		t.Errorf("second prompt missing reminder: %q", client.users[1])
	}
	if strings.Contains(client.users[0], "Return ONLY valid JSON") {
		t.Error("first prompt should not carry the reminder")
	}
}

func TestParseExhaustsRetries(t *testing.T) {
	client := &scriptedClient{responses: []string{"bad", "worse", "still bad"}}

	doc, retries, degraded := Parse(context.Background(), client, "samtools view", "raw help", 2)
	if !degraded {
		t.Fatal("expected degraded result")
	}
	if retries != 2 {
		t.Errorf("retries = %d, want 2", retries)
	}
	if client.calls != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", client.calls)
	}
	// Fallback keeps the raw help text with empty structured fields.
	if doc.Name != "view" || doc.Path != "samtools view" || doc.HelpText != "raw help" {
		t.Errorf("fallback doc = %+v", doc)
	}
	if len(doc.Options) != 0 || len(doc.Positionals) != 0 || len(doc.Subcommands) != 0 {
		t.Errorf("fallback doc should have empty structured fields: %+v", doc)
	}
}

func TestParseTransportErrorRetries(t *testing.T) {
	client := &scriptedClient{
		errs:      []error{fmt.Errorf("connection refused"), nil},
		responses: []string{"", validDoc},
	}

	doc, retries, degraded := Parse(context.Background(), client, "samtools view", "help", 2)
	if degraded {
		t.Fatal("unexpected degradation")
	}
	if retries != 1 {
		t.Errorf("retries = %d, want 1", retries)
	}
	// Transport failures retry without the validation reminder.
	if strings.Contains(client.users[1], "Return ONLY valid JSON") {
		t.Error("transport retry should not append the reminder")
	}
	if doc.Name != "view" {
		t.Errorf("Name = %q", doc.Name)
	}
}

func TestParseZeroRetriesDegradesImmediately(t *testing.T) {
	client := &scriptedClient{responses: []string{"nope"}}

	_, retries, degraded := Parse(context.Background(), client, "tool", "help", 0)
	if !degraded {
		t.Fatal("expected degraded result")
	}
	if retries != 0 {
		t.Errorf("retries = %d, want 0", retries)
	}
	if client.calls != 1 {
		t.Errorf("calls = %d, want 1", client.calls)
	}
}

func TestParseWithEmphasisUsesEmphasizedPrompt(t *testing.T) {
	client := &scriptedClient{responses: []string{validDoc}}

	_, _, degraded := ParseWithEmphasis(context.Background(), client, "samtools view", "help", 0)
	if degraded {
		t.Fatal("unexpected degradation")
	}
	if !strings.Contains(client.systems[0], "SUBCOMMAND DISCOVERY") {
		t.Error("expected emphasized system prompt")
	}
}

func TestDecodeDocDefaultsName(t *testing.T) {
	doc, err := decodeDoc(`{"path":"tool sub","help_text":"x"}`, "tool sub", "x")
	if err != nil {
		t.Fatalf("decodeDoc() error = %v", err)
	}
	if doc.Name != "sub" {
		t.Errorf("Name = %q, want last path token", doc.Name)
	}
	if doc.Options == nil || doc.Positionals == nil || doc.Subcommands == nil {
		t.Error("nil slices should be normalized to empty")
	}
}
