// Package cmdsaw provides a public API for inspecting command-line tools.
//
// This package discovers a tool's subcommand hierarchy by invoking help
// flags, converts the captured help text into structured documentation with
// an LLM-backed parser, and returns a deterministic aggregate.
//
// Basic usage:
//
//	result, err := cmdsaw.Inspect("git", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Subcommands:", len(result.Tool.Subcommands))
//
// With options:
//
//	result, err := cmdsaw.Inspect("samtools", &cmdsaw.InspectOptions{
//	    Provider: "openai",
//	    Model:    "gpt-4o-mini",
//	    MaxDepth: 3,
//	})
package cmdsaw

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmdsaw/cmdsaw/internal/config"
	"github.com/cmdsaw/cmdsaw/internal/crawler"
	"github.com/cmdsaw/cmdsaw/internal/parsecache"
	"github.com/cmdsaw/cmdsaw/internal/parser"
	"github.com/cmdsaw/cmdsaw/internal/runner"
)

// InspectOptions configures an inspection run. Zero values fall back to the
// environment-driven defaults (see the CMDSAW_* variables).
type InspectOptions struct {
	// Model names the model used for structured parsing.
	Model string

	// Provider selects the parser backend: "ollama" or "openai".
	Provider string

	// APIKey authenticates against the OpenAI provider. Ignored for ollama.
	APIKey string

	// BaseURL overrides the provider endpoint: the Ollama host, or an
	// OpenAI-compatible API base.
	BaseURL string

	// Timeout bounds each help invocation, in seconds.
	Timeout int

	// MaxDepth limits subcommand recursion. 0 inspects only the root.
	MaxDepth int

	// Concurrency bounds the number of subcommands processed per wave.
	Concurrency int

	// Retries is the number of extra parse attempts after a validation
	// failure before a node degrades.
	Retries int

	// HelpFlags are tried in order when capturing help text.
	HelpFlags []string

	// HelpFormat selects how subcommand help is invoked. See the
	// "subcommand-help", "help-subcommand", "tool-subcommand" and
	// "subcommand-only" formats.
	HelpFormat string

	// Env is overlaid on the inherited environment for every invocation.
	Env map[string]string

	// Workdir is the working directory for invocations.
	Workdir string

	// NoCache disables the on-disk parse cache.
	NoCache bool

	// CacheDir overrides the cache location.
	CacheDir string
}

// Inspect inspects command and returns its structured documentation.
//
// Example:
//
//	result, err := cmdsaw.Inspect("git", &cmdsaw.InspectOptions{MaxDepth: 1})
func Inspect(command string, opts *InspectOptions) (*Result, error) {
	return InspectContext(context.Background(), command, opts)
}

// InspectContext is Inspect with a caller-supplied context. Cancellation is
// observed between parser calls; a help invocation already in flight still
// runs to its own timeout.
func InspectContext(ctx context.Context, command string, opts *InspectOptions) (*Result, error) {
	opts = withDefaults(opts)

	run := runner.New(time.Duration(opts.Timeout) * time.Second)
	run.HelpFlags = opts.HelpFlags
	run.HelpFormat = opts.HelpFormat
	run.Env = opts.Env
	run.Dir = opts.Workdir

	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	var cache *parsecache.Cache
	if !opts.NoCache {
		root := opts.CacheDir
		if root == "" {
			root = parsecache.DefaultRoot()
		}
		cache, err = parsecache.New(root)
		if err != nil {
			return nil, err
		}
	}

	cr := crawler.New(run, client)
	cr.Cache = cache
	cr.MaxDepth = opts.MaxDepth
	cr.Concurrency = opts.Concurrency
	cr.Retries = opts.Retries

	internal, all, err := cr.BuildTree(ctx, command)
	if err != nil {
		return nil, err
	}
	return fromInternalResult(internal, all), nil
}

// withDefaults fills zero fields from the environment-driven configuration.
// An explicit MaxDepth or Retries of 0 from the caller is kept as-is; only a
// nil options struct takes the configured values for those two.
func withDefaults(opts *InspectOptions) *InspectOptions {
	if opts == nil {
		return DefaultOptions()
	}
	cfg := config.Get()
	out := *opts
	if out.Model == "" {
		out.Model = cfg.Model
	}
	if out.Provider == "" {
		out.Provider = cfg.Provider
	}
	if out.Timeout <= 0 {
		out.Timeout = cfg.Timeout
	}
	if out.Concurrency <= 0 {
		out.Concurrency = cfg.Concurrency
	}
	if out.MaxDepth < 0 {
		out.MaxDepth = 0
	}
	if out.Retries < 0 {
		out.Retries = 0
	}
	if len(out.HelpFlags) == 0 {
		out.HelpFlags = strings.Fields(cfg.HelpFlags)
	}
	if out.HelpFormat == "" {
		out.HelpFormat = cfg.HelpFormat
	}
	return &out
}

func newClient(opts *InspectOptions) (parser.Client, error) {
	switch opts.Provider {
	case "openai":
		return parser.NewOpenAIClient(parser.OpenAIConfig{
			APIKey:  opts.APIKey,
			BaseURL: opts.BaseURL,
			Model:   opts.Model,
		})
	case "ollama":
		return parser.NewOllamaClient(parser.OllamaConfig{
			BaseURL: opts.BaseURL,
			Model:   opts.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want ollama or openai)", opts.Provider)
	}
}
