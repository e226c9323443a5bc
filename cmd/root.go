package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cmdsaw/cmdsaw/internal/config"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cmdsaw",
	Short: "Inspect CLI tools and emit structured JSON documentation",
	Long: `cmdsaw discovers what a command-line tool can do by invoking its help
flags, recursively walking its subcommands, and converting the captured help
text into a structured JSON document with an LLM-backed parser.

Features:
  - Recursive subcommand discovery with bounded concurrency
  - Ollama (local) and OpenAI parser backends
  - Content-addressed on-disk cache, so re-runs are free
  - Interactive review of discovered subcommands before crawling`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose || config.Get().Verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
