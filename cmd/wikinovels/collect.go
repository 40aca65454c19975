package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikinovels/internal/config"
	"github.com/nao1215/wikinovels/internal/model"
	"github.com/nao1215/wikinovels/internal/pipeline"
)

// NewCollectCmd creates the collect command.
func NewCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect [title]",
		Short: "Collect metadata for every novel of a category",
		Long: `Collect searches the configured encyclopedia category, fetches the
structured data of every page found and writes the records, sorted by
publication year, to noveldat.json.

A failure on any page aborts the run and leaves the previous snapshot
untouched.

With a title argument, collect only looks up that page and prints its
record (same as "wikinovels lookup").

Examples:
  # Collect the configured category
  wikinovels collect

  # Collect another category without subcategories
  wikinovels collect --category "1920s novels" --deep=false --limit 50

  # Reuse entity data between runs
  wikinovels collect --cache

  # Debug a single page
  wikinovels collect "The Secret History"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCollectCmd,
	}

	cmd.Flags().String("category", "",
		"Category to harvest (default: from the configuration file)")
	cmd.Flags().IntP("limit", "l", 0,
		"Maximum number of candidate pages (default: from the configuration file)")
	cmd.Flags().Bool("deep", config.DefaultDeep,
		"Include pages of subcategories")
	cmd.Flags().StringP("output", "o", config.DefaultSnapshotFile,
		"Snapshot file to write")

	return cmd
}

// runCollectCmd executes the collect command.
func runCollectCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyCollectFlags(cmd, cfg); err != nil {
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

	if len(args) == 1 {
		return runLookup(ctx, svc, args[0], cmd.OutOrStdout())
	}
	return runCollect(ctx, cfg, svc, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// applyCollectFlags copies the collect flags that were set onto cfg.
// Flags override the configuration file.
func applyCollectFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	if cmd.Flags().Changed("category") {
		if cfg.Category, err = cmd.Flags().GetString("category"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("limit") {
		if cfg.Limit, err = cmd.Flags().GetInt("limit"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("deep") {
		if cfg.Deep, err = cmd.Flags().GetBool("deep"); err != nil {
			return err
		}
	}
	if cfg.SnapshotFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	return nil
}

// runCollect executes the collector pipeline. Progress marks go to progress,
// the final summary to out.
func runCollect(ctx context.Context, cfg *config.Config, svc *services, out, progress io.Writer, logger *slog.Logger) error {
	collectorOpts := []pipeline.CollectorOption{
		pipeline.WithSnapshotPath(cfg.SnapshotFile),
		pipeline.WithCollectorProgress(progress),
	}
	if cfg.File != nil && len(cfg.File.Collector.IgnoreTitles) > 0 {
		collectorOpts = append(collectorOpts, pipeline.WithCollectorIgnorePatterns(cfg.File.Collector.IgnoreTitles))
	}
	if svc.db != nil {
		collectorOpts = append(collectorOpts, pipeline.WithRunRecorder(svc.db))
	}

	p := pipeline.Collector(svc.searcher, svc.extractor,
		[]pipeline.Option{pipeline.WithLogger(logger)},
		collectorOpts...,
	)

	logger.Info("starting collection",
		"category", cfg.Category,
		"limit", cfg.Limit,
		"deep", cfg.Deep,
		"cache", cfg.UseCache,
		"steps", p.StepNames(),
	)

	run := model.NewRun(cfg.Category, cfg.Limit, cfg.Deep)
	if err := p.Execute(ctx, run); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nFinished in %s\n", run.Elapsed().Round(time.Millisecond))
	fmt.Fprintf(out, "Wrote %d records to %s\n", len(run.Records), run.SnapshotPath)
	if run.Truncated {
		fmt.Fprintf(out, "Warning: reached the limit of %d pages; the category may hold more.\n", run.Limit)
	}
	return nil
}
