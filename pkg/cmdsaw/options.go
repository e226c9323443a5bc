package cmdsaw

import (
	"strings"

	"github.com/cmdsaw/cmdsaw/internal/config"
)

// Version is the current version of cmdsaw.
const Version = "0.1.0"

// DefaultOptions returns InspectOptions populated from the environment-driven
// configuration (CMDSAW_* variables and their built-in defaults).
func DefaultOptions() *InspectOptions {
	cfg := config.Get()
	return &InspectOptions{
		Model:       cfg.Model,
		Provider:    cfg.Provider,
		Timeout:     cfg.Timeout,
		MaxDepth:    cfg.MaxDepth,
		Concurrency: cfg.Concurrency,
		Retries:     cfg.Retries,
		HelpFlags:   strings.Fields(cfg.HelpFlags),
		HelpFormat:  cfg.HelpFormat,
		NoCache:     cfg.NoCache,
		CacheDir:    cfg.CacheDir,
	}
}

// InspectOption is a functional option for configuring an inspection.
// (Option is taken by the documentation model.)
type InspectOption func(*InspectOptions)

// WithModel sets the parser model.
func WithModel(model string) InspectOption {
	return func(o *InspectOptions) {
		o.Model = model
	}
}

// WithProvider selects the parser backend ("ollama" or "openai").
func WithProvider(provider string) InspectOption {
	return func(o *InspectOptions) {
		o.Provider = provider
	}
}

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) InspectOption {
	return func(o *InspectOptions) {
		o.APIKey = key
	}
}

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(url string) InspectOption {
	return func(o *InspectOptions) {
		o.BaseURL = url
	}
}

// WithTimeout bounds each help invocation, in seconds.
func WithTimeout(seconds int) InspectOption {
	return func(o *InspectOptions) {
		o.Timeout = seconds
	}
}

// WithMaxDepth limits subcommand recursion.
func WithMaxDepth(depth int) InspectOption {
	return func(o *InspectOptions) {
		o.MaxDepth = depth
	}
}

// WithConcurrency bounds the subcommands processed per wave.
func WithConcurrency(n int) InspectOption {
	return func(o *InspectOptions) {
		o.Concurrency = n
	}
}

// WithRetries sets the extra parse attempts before a node degrades.
func WithRetries(n int) InspectOption {
	return func(o *InspectOptions) {
		o.Retries = n
	}
}

// WithHelpFlags sets the help flags tried in order.
func WithHelpFlags(flags ...string) InspectOption {
	return func(o *InspectOptions) {
		o.HelpFlags = flags
	}
}

// WithHelpFormat selects the subcommand help invocation format.
func WithHelpFormat(format string) InspectOption {
	return func(o *InspectOptions) {
		o.HelpFormat = format
	}
}

// WithEnv overlays environment variables on every invocation.
func WithEnv(env map[string]string) InspectOption {
	return func(o *InspectOptions) {
		o.Env = env
	}
}

// WithWorkdir sets the working directory for invocations.
func WithWorkdir(dir string) InspectOption {
	return func(o *InspectOptions) {
		o.Workdir = dir
	}
}

// WithoutCache disables the on-disk parse cache.
func WithoutCache() InspectOption {
	return func(o *InspectOptions) {
		o.NoCache = true
	}
}

// WithCacheDir overrides the parse cache location.
func WithCacheDir(dir string) InspectOption {
	return func(o *InspectOptions) {
		o.CacheDir = dir
	}
}

// ApplyOptions applies functional options on top of the defaults.
func ApplyOptions(opts ...InspectOption) *InspectOptions {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// InspectWith inspects a command with functional options.
//
// Example:
//
//	result, err := cmdsaw.InspectWith("docker",
//	    cmdsaw.WithMaxDepth(1),
//	    cmdsaw.WithoutCache(),
//	)
func InspectWith(command string, opts ...InspectOption) (*Result, error) {
	return Inspect(command, ApplyOptions(opts...))
}
