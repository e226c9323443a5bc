// Package manifest describes batch inspection runs: a YAML document listing
// the tools to inspect and per-tool overrides.
package manifest

// Manifest is one batch of tools to inspect.
type Manifest struct {
	Name  string `yaml:"name"`
	Tools []Tool `yaml:"tools"`
}

// Tool is a single inspection target. Zero values defer to the run-wide
// configuration.
type Tool struct {
	Command   string            `yaml:"command"`
	MaxDepth  int               `yaml:"max_depth,omitempty"`
	Timeout   int               `yaml:"timeout,omitempty"` // seconds
	HelpFlags []string          `yaml:"help_flags,omitempty"`
	Env       map[string]string `yaml:"env,omitempty"`
	Workdir   string            `yaml:"workdir,omitempty"`
	Output    string            `yaml:"output,omitempty"`
}
