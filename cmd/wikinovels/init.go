package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikinovels/internal/config"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new wikinovels configuration file",
		Long: `Initialize creates a new .wikinovels configuration file in the current directory.

The generated file holds the built-in defaults:
- The harvested category, candidate limit and subcategory search
- The table columns and the publication year cutoff
- The title and genre blacklists, country abbreviations and notes
- The citation collections

Examples:
  # Create .wikinovels in current directory
  wikinovels init

  # Create config file at a specific path
  wikinovels init -o myconfig.yaml

  # Force overwrite existing file
  wikinovels init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, config.DefaultFileContent(), 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to tune the table, for example:")
	fmt.Fprintln(out, "  - Titles and genres to leave out")
	fmt.Fprintln(out, "  - Notes and citations per title")
	fmt.Fprintln(out, "  - Candidate titles to skip while collecting")

	return nil
}
