// Package schema defines the structured documentation model produced by a
// crawl: per-command docs, the aggregated tool document, and the diagnostics
// counters that travel with a result.
package schema

import "strings"

// SchemaVersion identifies the wire format of serialized results.
const SchemaVersion = "1.0"

// ScalarType classifies the value a command option or positional accepts.
type ScalarType string

const (
	TypeInt     ScalarType = "int"
	TypeFloat   ScalarType = "float"
	TypeString  ScalarType = "str"
	TypePath    ScalarType = "path"
	TypeBool    ScalarType = "bool"
	TypeChoice  ScalarType = "choice"
	TypeUnknown ScalarType = "unknown"
)

// OptionDoc describes one command-line option.
type OptionDoc struct {
	Long        string     `json:"long,omitempty"`
	Short       string     `json:"short,omitempty"`
	IsFlag      bool       `json:"is_flag"`
	Type        ScalarType `json:"type"`
	Choices     []string   `json:"choices,omitempty"`
	Required    bool       `json:"required"`
	Default     string     `json:"default,omitempty"`
	Description string     `json:"description,omitempty"`
	Repeatable  bool       `json:"repeatable"`
	EnvVar      string     `json:"envvar,omitempty"`
	Aliases     []string   `json:"aliases,omitempty"`
}

// PositionalDoc describes one positional argument.
type PositionalDoc struct {
	Name        string     `json:"name"`
	Index       int        `json:"index"`
	Variadic    bool       `json:"variadic"`
	Required    bool       `json:"required"`
	Type        ScalarType `json:"type"`
	Description string     `json:"description,omitempty"`
}

// CommandDoc is the structured documentation of one command or subcommand.
// It is created once by a single worker and never mutated afterwards.
type CommandDoc struct {
	Name               string          `json:"name"`
	Path               string          `json:"path"`
	HelpText           string          `json:"help_text"`
	Options            []OptionDoc     `json:"options"`
	Positionals        []PositionalDoc `json:"positionals"`
	Subcommands        []string        `json:"subcommands"`
	RequiresSubcommand bool            `json:"requires_subcommand"`
}

// Depth returns the subcommand depth of the doc's path. The root command
// has depth 0; "tool sub" has depth 1.
func (d *CommandDoc) Depth() int {
	return strings.Count(d.Path, " ")
}

// ToolDoc is the final aggregate for one inspected executable. Subcommands
// holds the direct (depth-1) children sorted lexicographically by path.
type ToolDoc struct {
	Command     string          `json:"command"`
	Version     string          `json:"version,omitempty"`
	HelpText    string          `json:"help_text"`
	Invocation  []string        `json:"invocation"`
	Options     []OptionDoc     `json:"options"`
	Positionals []PositionalDoc `json:"positionals"`
	Subcommands []*CommandDoc   `json:"subcommands"`
	CapturedAt  string          `json:"captured_at"`
}

// Diagnostics collects counters scoped to a single crawl.
type Diagnostics struct {
	Warnings         []string `json:"warnings"`
	Timeouts         int      `json:"timeouts"`
	LLMRetries       int      `json:"llm_retries"`
	VisitedCommands  int      `json:"visited_commands"`
	VersionExtracted bool     `json:"version_extracted"`
}

// Result is the top-level object handed to emitters.
type Result struct {
	SchemaVersion string       `json:"schema_version"`
	Tool          *ToolDoc     `json:"tool"`
	Diagnostics   *Diagnostics `json:"diagnostics"`
}
