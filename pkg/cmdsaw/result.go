package cmdsaw

import (
	"github.com/cmdsaw/cmdsaw/internal/emitter"
	"github.com/cmdsaw/cmdsaw/internal/schema"
)

// Result is the outcome of one inspection.
type Result struct {
	// SchemaVersion identifies the serialized format.
	SchemaVersion string

	// Tool is the aggregated documentation for the inspected executable.
	Tool *Tool

	// Commands is the flattened documentation list: the root first, then
	// every other discovered command sorted by path.
	Commands []*Command

	// Diagnostics collects counters and warnings from the run.
	Diagnostics Diagnostics

	internal *schema.Result
}

// JSON renders the result as the canonical pretty-printed JSON document.
func (r *Result) JSON() ([]byte, error) {
	e, err := emitter.Get("json")
	if err != nil {
		return nil, err
	}
	return e.Emit(r.internal)
}

// Tool is the aggregate documentation for one executable. Subcommands holds
// the direct children sorted by path; deeper descendants appear only in
// Result.Commands.
type Tool struct {
	Command     string
	Version     string
	HelpText    string
	Invocation  []string
	Options     []Option
	Positionals []Positional
	Subcommands []*Command
	CapturedAt  string
}

// Command documents one command or subcommand node.
type Command struct {
	Name               string
	Path               string
	HelpText           string
	Options            []Option
	Positionals        []Positional
	Subcommands        []string
	RequiresSubcommand bool
}

// Option documents one command-line option.
type Option struct {
	Long        string
	Short       string
	IsFlag      bool
	Type        string
	Choices     []string
	Required    bool
	Default     string
	Description string
	Repeatable  bool
	EnvVar      string
	Aliases     []string
}

// Positional documents one positional argument.
type Positional struct {
	Name        string
	Index       int
	Variadic    bool
	Required    bool
	Type        string
	Description string
}

// Diagnostics collects counters scoped to one inspection.
type Diagnostics struct {
	Warnings         []string
	Timeouts         int
	LLMRetries       int
	VisitedCommands  int
	VersionExtracted bool
}

// Conversion from the internal schema.

func fromInternalResult(r *schema.Result, all []*schema.CommandDoc) *Result {
	commands := make([]*Command, len(all))
	for i, doc := range all {
		commands[i] = fromInternalCommand(doc)
	}
	return &Result{
		SchemaVersion: r.SchemaVersion,
		Tool:          fromInternalTool(r.Tool),
		Commands:      commands,
		Diagnostics: Diagnostics{
			Warnings:         append([]string(nil), r.Diagnostics.Warnings...),
			Timeouts:         r.Diagnostics.Timeouts,
			LLMRetries:       r.Diagnostics.LLMRetries,
			VisitedCommands:  r.Diagnostics.VisitedCommands,
			VersionExtracted: r.Diagnostics.VersionExtracted,
		},
		internal: r,
	}
}

func fromInternalTool(t *schema.ToolDoc) *Tool {
	children := make([]*Command, len(t.Subcommands))
	for i, doc := range t.Subcommands {
		children[i] = fromInternalCommand(doc)
	}
	return &Tool{
		Command:     t.Command,
		Version:     t.Version,
		HelpText:    t.HelpText,
		Invocation:  append([]string(nil), t.Invocation...),
		Options:     fromInternalOptions(t.Options),
		Positionals: fromInternalPositionals(t.Positionals),
		Subcommands: children,
		CapturedAt:  t.CapturedAt,
	}
}

func fromInternalCommand(d *schema.CommandDoc) *Command {
	return &Command{
		Name:               d.Name,
		Path:               d.Path,
		HelpText:           d.HelpText,
		Options:            fromInternalOptions(d.Options),
		Positionals:        fromInternalPositionals(d.Positionals),
		Subcommands:        append([]string(nil), d.Subcommands...),
		RequiresSubcommand: d.RequiresSubcommand,
	}
}

func fromInternalOptions(opts []schema.OptionDoc) []Option {
	out := make([]Option, len(opts))
	for i, o := range opts {
		out[i] = Option{
			Long:        o.Long,
			Short:       o.Short,
			IsFlag:      o.IsFlag,
			Type:        string(o.Type),
			Choices:     append([]string(nil), o.Choices...),
			Required:    o.Required,
			Default:     o.Default,
			Description: o.Description,
			Repeatable:  o.Repeatable,
			EnvVar:      o.EnvVar,
			Aliases:     append([]string(nil), o.Aliases...),
		}
	}
	return out
}

func fromInternalPositionals(pos []schema.PositionalDoc) []Positional {
	out := make([]Positional, len(pos))
	for i, p := range pos {
		out[i] = Positional{
			Name:        p.Name,
			Index:       p.Index,
			Variadic:    p.Variadic,
			Required:    p.Required,
			Type:        string(p.Type),
			Description: p.Description,
		}
	}
	return out
}
