// Package config provides centralized configuration management for cmdsaw.
// It handles environment variables, default values, and configuration validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all configuration settings for cmdsaw
type Config struct {
	// Parser backend settings
	Model         string
	Provider      string
	OllamaHost    string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Crawl settings
	Timeout     int // seconds, per command invocation
	MaxDepth    int
	Concurrency int
	Retries     int
	HelpFlags   string // space-separated candidates, tried in order
	HelpFormat  string

	// Cache settings
	CacheDir string
	NoCache  bool

	// Output settings
	Verbose bool
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// Default values
const (
	DefaultModel       = "llama3.1"
	DefaultProvider    = "ollama"
	DefaultOllamaHost  = "http://localhost:11434"
	DefaultTimeout     = 15
	DefaultMaxDepth    = 2
	DefaultConcurrency = 4
	DefaultRetries     = 2
	DefaultHelpFlags   = "--help -h help"
	DefaultHelpFormat  = "subcommand-help"
)

// Get returns the global configuration, loading from environment if not already loaded
func Get() *Config {
	configOnce.Do(func() {
		globalConfig = loadFromEnv()
	})
	return globalConfig
}

// Reset clears the global configuration, forcing reload on next Get()
// This is primarily useful for testing
func Reset() {
	configOnce = sync.Once{}
	globalConfig = nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv() *Config {
	return &Config{
		Model:         getEnv("CMDSAW_MODEL", DefaultModel),
		Provider:      getEnv("CMDSAW_PROVIDER", DefaultProvider),
		OllamaHost:    getEnv("OLLAMA_HOST", DefaultOllamaHost),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		Timeout:     getEnvInt("CMDSAW_TIMEOUT", DefaultTimeout),
		MaxDepth:    getEnvInt("CMDSAW_MAX_DEPTH", DefaultMaxDepth),
		Concurrency: getEnvInt("CMDSAW_CONCURRENCY", DefaultConcurrency),
		Retries:     getEnvInt("CMDSAW_RETRIES", DefaultRetries),
		HelpFlags:   getEnv("CMDSAW_HELP_FLAGS", DefaultHelpFlags),
		HelpFormat:  getEnv("CMDSAW_HELP_FORMAT", DefaultHelpFormat),

		CacheDir: getEnv("CMDSAW_CACHE_DIR", ""),
		NoCache:  getEnvBool("CMDSAW_NO_CACHE", false),

		Verbose: getEnvBool("CMDSAW_VERBOSE", false),
	}
}

// NewConfig creates a new configuration with default values.
// This is useful for testing or programmatic configuration
func NewConfig() *Config {
	return &Config{
		Model:       DefaultModel,
		Provider:    DefaultProvider,
		OllamaHost:  DefaultOllamaHost,
		Timeout:     DefaultTimeout,
		MaxDepth:    DefaultMaxDepth,
		Concurrency: DefaultConcurrency,
		Retries:     DefaultRetries,
		HelpFlags:   DefaultHelpFlags,
		HelpFormat:  DefaultHelpFormat,
	}
}

// WithModel configures the parser model and provider
func (c *Config) WithModel(model, provider string) *Config {
	if model != "" {
		c.Model = model
	}
	if provider != "" {
		c.Provider = provider
	}
	return c
}

// WithOpenAI configures OpenAI settings
func (c *Config) WithOpenAI(apiKey, baseURL string) *Config {
	c.OpenAIAPIKey = apiKey
	if baseURL != "" {
		c.OpenAIBaseURL = baseURL
	}
	return c
}

// WithLimits configures crawl bounds
func (c *Config) WithLimits(timeout, maxDepth, concurrency int) *Config {
	if timeout > 0 {
		c.Timeout = timeout
	}
	if maxDepth > 0 {
		c.MaxDepth = maxDepth
	}
	if concurrency > 0 {
		c.Concurrency = concurrency
	}
	return c
}

// WithCache configures the on-disk parse cache
func (c *Config) WithCache(dir string, disabled bool) *Config {
	if dir != "" {
		c.CacheDir = dir
	}
	c.NoCache = disabled
	return c
}

// WithVerbose enables verbose logging
func (c *Config) WithVerbose(verbose bool) *Config {
	c.Verbose = verbose
	return c
}

// Validate checks if the configuration is valid for the intended use
func (c *Config) Validate() error {
	switch c.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("unknown provider %q (want ollama or openai)", c.Provider)
	}
	if c.Provider == "openai" && c.OpenAIAPIKey == "" {
		return fmt.Errorf("OpenAI API key not provided (set OPENAI_API_KEY)")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		// Also accept "1" as true
		if value == "1" {
			return true
		}
	}
	return defaultValue
}
