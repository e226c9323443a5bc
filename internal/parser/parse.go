package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cmdsaw/cmdsaw/internal/schema"
)

// ValidationError reports that model output could not be decoded into a
// CommandDoc. Validation failures trigger a retry with a reminder appended
// to the prompt; they never fail a node outright.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid parser output: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid parser output: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Parse converts help text into a CommandDoc using the given client.
// Validation failures append a valid-JSON reminder to the user prompt and
// retry, up to retries extra attempts. After exhausting retries the minimal
// FallbackDoc is returned with degraded=true; a single unparsable node never
// fails. The second return value is the number of retries consumed.
func Parse(ctx context.Context, c Client, commandPath, helpText string, retries int) (*schema.CommandDoc, int, bool) {
	return parse(ctx, c, systemPrompt, commandPath, helpText, retries)
}

// ParseWithEmphasis behaves like Parse but uses the prompt variant that
// stresses exhaustive subcommand discovery. Used by the review flow; its
// results are not cached.
func ParseWithEmphasis(ctx context.Context, c Client, commandPath, helpText string, retries int) (*schema.CommandDoc, int, bool) {
	return parse(ctx, c, emphasizedPrompt, commandPath, helpText, retries)
}

func parse(ctx context.Context, c Client, basePrompt, commandPath, helpText string, retries int) (*schema.CommandDoc, int, bool) {
	system := buildSystemPrompt(basePrompt)
	user := buildUserPrompt(commandPath, helpText)

	retriesUsed := 0
	for attempt := 0; attempt <= retries; attempt++ {
		raw, err := c.Complete(ctx, system, user)
		if err == nil {
			doc, derr := decodeDoc(raw, commandPath, helpText)
			if derr == nil {
				return doc, retriesUsed, false
			}
			err = derr
		}

		if attempt >= retries {
			log.Warn("parser gave up, returning empty doc", "path", commandPath, "retries", retries, "err", err)
			return FallbackDoc(commandPath, helpText), retriesUsed, true
		}

		retriesUsed++
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			user += validJSONReminder
		}
		log.Debug("parse attempt failed, retrying", "path", commandPath, "attempt", attempt+1, "err", err)
	}

	// Unreachable: the loop always returns on the final attempt.
	return FallbackDoc(commandPath, helpText), retriesUsed, true
}

// FallbackDoc builds the minimal degraded doc for a command: name, path and
// raw help text with empty structured fields.
func FallbackDoc(commandPath, helpText string) *schema.CommandDoc {
	name := commandPath
	if parts := strings.Fields(commandPath); len(parts) > 0 {
		name = parts[len(parts)-1]
	}
	return &schema.CommandDoc{
		Name:        name,
		Path:        commandPath,
		HelpText:    helpText,
		Options:     []schema.OptionDoc{},
		Positionals: []schema.PositionalDoc{},
		Subcommands: []string{},
	}
}

// decodeDoc validates raw model output and normalizes it against the
// canonical command path and help text.
func decodeDoc(raw, commandPath, helpText string) (*schema.CommandDoc, error) {
	cleaned := stripCodeFences(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil, &ValidationError{Reason: "empty response"}
	}

	var doc schema.CommandDoc
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &ValidationError{Reason: "not a CommandDoc", Err: err}
	}

	// The model occasionally echoes a wrong path or truncates the help
	// text; the canonical values win.
	doc.Path = commandPath
	doc.HelpText = helpText
	if doc.Name == "" {
		parts := strings.Fields(commandPath)
		doc.Name = parts[len(parts)-1]
	}
	if doc.Options == nil {
		doc.Options = []schema.OptionDoc{}
	}
	if doc.Positionals == nil {
		doc.Positionals = []schema.PositionalDoc{}
	}
	if doc.Subcommands == nil {
		doc.Subcommands = []string{}
	}
	return &doc, nil
}

// stripCodeFences unwraps a ```json ... ``` block when the model ignores
// the plain-JSON instruction.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
