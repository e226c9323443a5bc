package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cmdsaw/cmdsaw/internal/manifest"
	"github.com/cmdsaw/cmdsaw/pkg/cmdsaw"
)

var batchOutputDir string

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Inspect every tool listed in a manifest file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		manifestFile := args[0]

		if _, err := os.Stat(manifestFile); os.IsNotExist(err) {
			fmt.Printf("❌ Manifest file not found: %s\n", manifestFile)
			os.Exit(1)
		}

		manifests, err := manifest.Load(manifestFile)
		if err != nil {
			fmt.Printf("❌ Failed to parse manifest: %v\n", err)
			os.Exit(1)
		}

		if err := os.MkdirAll(batchOutputDir, 0755); err != nil {
			fmt.Printf("❌ Failed to create output folder: %v\n", err)
			os.Exit(1)
		}

		failures := 0
		for _, m := range manifests {
			if err := m.Validate(); err != nil {
				fmt.Printf("❌ Validation error in %s: %v\n", m.Name, err)
				os.Exit(1)
			}
			fmt.Printf("📋 Manifest loaded: %s (%d tools)\n", m.Name, len(m.Tools))

			for _, tool := range m.Tools {
				if err := inspectTool(tool); err != nil {
					fmt.Printf("❌ %s: %v\n", tool.Command, err)
					failures++
					continue
				}
			}
		}

		if failures > 0 {
			fmt.Printf("❌ %d tool(s) failed\n", failures)
			os.Exit(1)
		}
		fmt.Println("✅ Batch complete")
	},
}

func inspectTool(tool manifest.Tool) error {
	opts := cmdsaw.DefaultOptions()
	if tool.MaxDepth > 0 {
		opts.MaxDepth = tool.MaxDepth
	}
	if tool.Timeout > 0 {
		opts.Timeout = tool.Timeout
	}
	if len(tool.HelpFlags) > 0 {
		opts.HelpFlags = tool.HelpFlags
	}
	opts.Env = tool.Env
	opts.Workdir = tool.Workdir

	result, err := cmdsaw.Inspect(tool.Command, opts)
	if err != nil {
		return err
	}

	data, err := result.JSON()
	if err != nil {
		return err
	}

	outputFile := tool.Output
	if outputFile == "" {
		outputFile = tool.Command + ".json"
	}
	if !filepath.IsAbs(outputFile) {
		outputFile = filepath.Join(batchOutputDir, outputFile)
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return err
	}

	fmt.Printf("✅ %s -> %s (%d commands)\n", tool.Command, outputFile, len(result.Commands))
	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchOutputDir, "output", "o", ".", "Output folder for per-tool JSON files")
}
