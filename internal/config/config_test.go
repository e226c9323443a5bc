package config_test

import (
	"os"
	"testing"

	"github.com/cmdsaw/cmdsaw/internal/config"
)

func TestGetConfig(t *testing.T) {
	// Reset to get fresh config
	config.Reset()

	cfg := config.Get()
	if cfg == nil {
		t.Fatal("config should not be nil")
	}

	// Check defaults
	if cfg.Model != config.DefaultModel {
		t.Errorf("expected default model %q, got %q", config.DefaultModel, cfg.Model)
	}

	if cfg.Provider != config.DefaultProvider {
		t.Errorf("expected default provider %q, got %q", config.DefaultProvider, cfg.Provider)
	}

	if cfg.Concurrency != config.DefaultConcurrency {
		t.Errorf("expected default concurrency %d, got %d", config.DefaultConcurrency, cfg.Concurrency)
	}

	if cfg.HelpFlags != config.DefaultHelpFlags {
		t.Errorf("expected default help flags %q, got %q", config.DefaultHelpFlags, cfg.HelpFlags)
	}
}

func TestConfigFromEnv(t *testing.T) {
	// Reset and set env vars
	config.Reset()

	os.Setenv("CMDSAW_VERBOSE", "true")
	os.Setenv("CMDSAW_NO_CACHE", "1")
	os.Setenv("CMDSAW_MAX_DEPTH", "5")
	os.Setenv("CMDSAW_MODEL", "qwen2.5")
	defer func() {
		os.Unsetenv("CMDSAW_VERBOSE")
		os.Unsetenv("CMDSAW_NO_CACHE")
		os.Unsetenv("CMDSAW_MAX_DEPTH")
		os.Unsetenv("CMDSAW_MODEL")
		config.Reset()
	}()

	cfg := config.Get()

	if !cfg.Verbose {
		t.Error("expected Verbose to be true")
	}

	if !cfg.NoCache {
		t.Error("expected NoCache to be true")
	}

	if cfg.MaxDepth != 5 {
		t.Errorf("expected MaxDepth 5, got %d", cfg.MaxDepth)
	}

	if cfg.Model != "qwen2.5" {
		t.Errorf("expected model 'qwen2.5', got %q", cfg.Model)
	}
}

func TestNewConfigBuilder(t *testing.T) {
	cfg := config.NewConfig().
		WithModel("gpt-4o-mini", "openai").
		WithOpenAI("test-key", "https://custom.api").
		WithLimits(30, 3, 8).
		WithCache("/tmp/cmdsaw-cache", false).
		WithVerbose(true)

	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("expected model 'gpt-4o-mini', got %q", cfg.Model)
	}

	if cfg.Provider != "openai" {
		t.Errorf("expected provider 'openai', got %q", cfg.Provider)
	}

	if cfg.OpenAIAPIKey != "test-key" {
		t.Errorf("expected API key 'test-key', got %q", cfg.OpenAIAPIKey)
	}

	if cfg.OpenAIBaseURL != "https://custom.api" {
		t.Errorf("expected base URL 'https://custom.api', got %q", cfg.OpenAIBaseURL)
	}

	if cfg.Timeout != 30 || cfg.MaxDepth != 3 || cfg.Concurrency != 8 {
		t.Errorf("unexpected limits: timeout=%d depth=%d concurrency=%d", cfg.Timeout, cfg.MaxDepth, cfg.Concurrency)
	}

	if cfg.CacheDir != "/tmp/cmdsaw-cache" {
		t.Errorf("expected cache dir '/tmp/cmdsaw-cache', got %q", cfg.CacheDir)
	}

	if !cfg.Verbose {
		t.Error("expected verbose to be true")
	}
}

func TestValidate(t *testing.T) {
	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	cfg = config.NewConfig().WithModel("", "anthropic")
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown provider")
	}

	cfg = config.NewConfig().WithModel("gpt-4o", "openai")
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for openai provider without API key")
	}

	cfg = config.NewConfig()
	cfg.Concurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero concurrency")
	}
}

func TestConfigSingleton(t *testing.T) {
	config.Reset()

	cfg1 := config.Get()
	cfg2 := config.Get()

	if cfg1 != cfg2 {
		t.Error("Get() should return the same instance")
	}
}
