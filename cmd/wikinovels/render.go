package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/wikinovels/internal/config"
	"github.com/nao1215/wikinovels/internal/model"
	"github.com/nao1215/wikinovels/internal/render"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the collected records as a wiki table",
		Long: `Render reads the snapshot written by "wikinovels collect" and writes a
sortable MediaWiki table.

Only works published before the cutoff year (1969 by default) are
listed, plus the configured exceptions. Blacklisted titles are left out.
Columns, notes and citations come from the configuration file.

Examples:
  # Render noveldat.json into table.wiki
  wikinovels render

  # Also write a markdown preview
  wikinovels render --markdown preview.md

  # Re-render whenever the snapshot changes
  wikinovels render --watch`,
		Args: cobra.NoArgs,
		RunE: runRenderCmd,
	}

	cmd.Flags().StringP("input", "i", config.DefaultSnapshotFile,
		"Snapshot file to read")
	cmd.Flags().StringP("output", "o", config.DefaultTableFile,
		"Wiki table file to write")
	cmd.Flags().StringP("markdown", "m", "",
		"Also write a markdown preview to this file")
	cmd.Flags().BoolP("watch", "w", false,
		"Re-render whenever the snapshot changes")

	return cmd
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.SnapshotFile, err = cmd.Flags().GetString("input"); err != nil {
		return err
	}
	if cfg.TableFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	if cfg.MarkdownFile, err = cmd.Flags().GetString("markdown"); err != nil {
		return err
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	table, err := render.NewTable(render.NewTables(cfg.File.Table), render.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	out := cmd.OutOrStdout()
	if !watch {
		return renderOnce(ctx, cfg, table, out)
	}

	if err := renderOnce(ctx, cfg, table, out); err != nil {
		logger.Error("render failed", "error", err)
	}
	watcher := render.NewWatcher(cfg.SnapshotFile, render.WithWatchLogger(logger))
	return watcher.Run(ctx, func(ctx context.Context) error {
		return renderOnce(ctx, cfg, table, out)
	})
}

// renderOnce reads the snapshot and writes the wiki table and, if
// configured, the markdown preview. A summary is printed to out.
func renderOnce(ctx context.Context, cfg *config.Config, table *render.Table, out io.Writer) error {
	records, err := model.LoadSnapshotFile(cfg.SnapshotFile)
	if err != nil {
		return err
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return render.WriteFile(cfg.TableFile, records, func(w io.Writer) render.Writer {
			return render.NewWikiWriter(w, table)
		})
	})
	if cfg.MarkdownFile != "" {
		g.Go(func() error {
			return render.WriteFile(cfg.MarkdownFile, records, func(w io.Writer) render.Writer {
				return render.NewMarkdownWriter(w, table)
			})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	summary := render.NewSimpleWriter(out, table.Tables(), render.WithVerbose(cfg.Verbose))
	if _, err := summary.Write(records); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", cfg.TableFile)
	if cfg.MarkdownFile != "" {
		fmt.Fprintf(out, "Wrote %s\n", cfg.MarkdownFile)
	}
	return nil
}
