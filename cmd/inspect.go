package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cmdsaw/cmdsaw/internal/config"
	"github.com/cmdsaw/cmdsaw/internal/crawler"
	"github.com/cmdsaw/cmdsaw/internal/emitter"
	"github.com/cmdsaw/cmdsaw/internal/parsecache"
	"github.com/cmdsaw/cmdsaw/internal/parser"
	"github.com/cmdsaw/cmdsaw/internal/review"
	"github.com/cmdsaw/cmdsaw/internal/runner"
	"github.com/cmdsaw/cmdsaw/internal/schema"
	"github.com/cmdsaw/cmdsaw/internal/transcript"
)

var (
	inspectModel         string
	inspectProvider      string
	inspectOutput        string
	inspectFormat        string
	inspectTimeout       int
	inspectMaxDepth      int
	inspectConcurrency   int
	inspectRetries       int
	inspectHelpFlags     string
	inspectHelpFormat    string
	inspectWorkdir       string
	inspectEnv           []string
	inspectNoCache       bool
	inspectCacheDir      string
	inspectReview        bool
	inspectTranscriptDir string
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <command>",
	Short: "Inspect one executable and emit its documentation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		command := args[0]

		cfg := config.Get().
			WithModel(inspectModel, inspectProvider).
			WithLimits(inspectTimeout, inspectMaxDepth, inspectConcurrency).
			WithCache(inspectCacheDir, inspectNoCache || config.Get().NoCache)
		if cmd.Flags().Changed("retries") {
			cfg.Retries = inspectRetries
		}
		if inspectHelpFlags != "" {
			cfg.HelpFlags = inspectHelpFlags
		}
		if inspectHelpFormat != "" {
			cfg.HelpFormat = inspectHelpFormat
		}
		if cmd.Flags().Changed("max-depth") {
			cfg.MaxDepth = inspectMaxDepth
		}
		if err := cfg.Validate(); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		env, err := parseEnvPairs(inspectEnv)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		run := runner.New(time.Duration(cfg.Timeout) * time.Second)
		run.HelpFlags = strings.Fields(cfg.HelpFlags)
		run.HelpFormat = cfg.HelpFormat
		run.Env = env
		run.Dir = inspectWorkdir

		client, err := buildClient(cfg)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		defer client.Close()

		cr := crawler.New(run, client)
		cr.MaxDepth = cfg.MaxDepth
		cr.Concurrency = cfg.Concurrency
		cr.Retries = cfg.Retries

		if !cfg.NoCache {
			root := cfg.CacheDir
			if root == "" {
				root = parsecache.DefaultRoot()
			}
			cache, err := parsecache.New(root)
			if err != nil {
				fmt.Printf("❌ Cache unavailable: %v\n", err)
				os.Exit(1)
			}
			cr.Cache = cache
		}

		if inspectTranscriptDir != "" {
			rec, err := transcript.NewRecorder(inspectTranscriptDir)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				os.Exit(1)
			}
			cr.Transcript = rec
		}

		if inspectReview {
			cr.ReviewRoot = func(doc *schema.CommandDoc, reparse func() ([]string, error)) []string {
				return review.Subcommands(os.Stdin, os.Stderr, command, doc.Subcommands, reparse)
			}
		}

		result, _, err := cr.BuildTree(context.Background(), command)
		if err != nil {
			fmt.Printf("❌ Inspection failed: %v\n", err)
			os.Exit(1)
		}

		for _, warning := range result.Diagnostics.Warnings {
			log.Warn(warning)
		}
		log.Info("crawl complete",
			"commands", result.Diagnostics.VisitedCommands+1,
			"timeouts", result.Diagnostics.Timeouts,
			"llm_retries", result.Diagnostics.LLMRetries)

		if inspectOutput != "" {
			if err := schema.WriteJSON(inspectOutput, result); err != nil {
				fmt.Printf("❌ Failed to write output: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✅ Documentation written to %s\n", inspectOutput)
			return
		}

		e, err := emitter.Get(inspectFormat)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		data, err := e.Emit(result)
		if err != nil {
			fmt.Printf("❌ Failed to render result: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
	},
}

// buildClient registers the available parser backends and returns the
// configured one.
func buildClient(cfg *config.Config) (parser.Client, error) {
	registry := parser.NewRegistry()
	registry.Register("ollama", parser.NewOllamaClient(parser.OllamaConfig{Model: cfg.Model}))
	if cfg.OpenAIAPIKey != "" {
		oc, err := parser.NewOpenAIClient(parser.OpenAIConfig{Model: cfg.Model})
		if err != nil {
			return nil, err
		}
		registry.Register("openai", oc)
	}

	client, ok := registry.Get(cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("parser backend %q not available", cfg.Provider)
	}
	return client, nil
}

func parseEnvPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid env pair %q (want KEY=VALUE)", pair)
		}
		env[key] = value
	}
	return env, nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectModel, "model", "m", "", "Model used for structured parsing")
	inspectCmd.Flags().StringVarP(&inspectProvider, "provider", "p", "", "Parser backend: ollama or openai")
	inspectCmd.Flags().StringVarP(&inspectOutput, "output", "o", "", "Write JSON to a file instead of stdout")
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "json", "Output format")
	inspectCmd.Flags().IntVar(&inspectTimeout, "timeout", 0, "Per-invocation timeout in seconds")
	inspectCmd.Flags().IntVar(&inspectMaxDepth, "max-depth", 0, "Maximum subcommand depth (0 = root only)")
	inspectCmd.Flags().IntVar(&inspectConcurrency, "concurrency", 0, "Subcommands processed per wave")
	inspectCmd.Flags().IntVar(&inspectRetries, "retries", 0, "Extra parse attempts before a node degrades")
	inspectCmd.Flags().StringVar(&inspectHelpFlags, "help-flags", "", "Space-separated help flags tried in order")
	inspectCmd.Flags().StringVar(&inspectHelpFormat, "help-format", "", "Subcommand help format: subcommand-help, help-subcommand, tool-subcommand, subcommand-only")
	inspectCmd.Flags().StringVar(&inspectWorkdir, "workdir", "", "Working directory for invocations")
	inspectCmd.Flags().StringArrayVar(&inspectEnv, "env", nil, "Extra environment variables (KEY=VALUE, repeatable)")
	inspectCmd.Flags().BoolVar(&inspectNoCache, "no-cache", false, "Disable the on-disk parse cache")
	inspectCmd.Flags().StringVar(&inspectCacheDir, "cache-dir", "", "Override the parse cache directory")
	inspectCmd.Flags().BoolVar(&inspectReview, "review", false, "Review discovered subcommands before crawling")
	inspectCmd.Flags().StringVar(&inspectTranscriptDir, "transcript-dir", "", "Record captured help text under this directory")
}
