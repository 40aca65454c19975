package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikinovels/internal/config"
	"github.com/nao1215/wikinovels/internal/model"
)

// NewLookupCmd creates the lookup command.
func NewLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [title]",
		Short: "Print the record of one encyclopedia page",
		Long: `Lookup resolves one encyclopedia page to its structured-data item and
prints the extracted record as JSON. It is meant for checking how a page
will appear in the snapshot.

Examples:
  # Look up the default page
  wikinovels lookup

  # Look up a specific page
  wikinovels lookup "Maurice (novel)"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLookupCmd,
	}
}

// runLookupCmd executes the lookup command.
func runLookupCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	svc, err := newServices(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	title := config.DefaultDebugTitle
	if len(args) == 1 {
		title = args[0]
	}
	return runLookup(ctx, svc, title, cmd.OutOrStdout())
}

// runLookup extracts the record of title and prints it as indented JSON.
func runLookup(ctx context.Context, svc *services, title string, out io.Writer) error {
	rec, err := svc.extractor.Extract(ctx, title)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", model.SnapshotIndent)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
