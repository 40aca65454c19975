package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikinovels/internal/cache"
)

// defaultRunHistory is how many recent runs the cache command lists.
const defaultRunHistory = 5

// NewCacheCmd creates the cache command.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show or clear the entity cache",
		Long: `Cache prints statistics of the on-disk entity cache and the most recent
collector runs. The cache is only filled when commands run with --cache.

Examples:
  # Show cache statistics
  wikinovels cache

  # Delete cached entities and title lookups (the run log is kept)
  wikinovels cache --clear`,
		Args: cobra.NoArgs,
		RunE: runCacheCmd,
	}

	cmd.Flags().Bool("clear", false,
		"Delete all cached entities and title lookups")
	cmd.Flags().IntP("runs", "r", defaultRunHistory,
		"Number of recent runs to list")

	return cmd
}

// runCacheCmd executes the cache command.
func runCacheCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	clearCache, err := cmd.Flags().GetBool("clear")
	if err != nil {
		return err
	}
	runLimit, err := cmd.Flags().GetInt("runs")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	db, err := cache.Open(cfg.CacheDir, cache.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
		TTL:               cfg.CacheTTL,
	})
	if errors.Is(err, cache.ErrNotFound) {
		fmt.Fprintf(out, "No cache in %s (run with --cache to create one)\n", cfg.CacheDir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if clearCache {
		if err := db.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared cache %s\n", db.Path())
		return nil
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		return err
	}
	runs, err := db.Runs(ctx, runLimit)
	if err != nil {
		return err
	}
	writeCacheStats(out, stats, runs)
	return nil
}

// writeCacheStats prints the cache statistics and recent runs.
func writeCacheStats(out io.Writer, stats cache.Stats, runs []cache.RunRecord) {
	fmt.Fprintf(out, "Cache:    %s\n", stats.Path)
	fmt.Fprintf(out, "Entities: %d (%d expired)\n", stats.Entities, stats.ExpiredEntities)
	fmt.Fprintf(out, "Titles:   %d\n", stats.Titles)
	fmt.Fprintf(out, "Runs:     %d\n", stats.Runs)

	if len(runs) == 0 {
		return
	}
	fmt.Fprintln(out, "\nRecent runs:")
	for _, run := range runs {
		truncated := ""
		if run.Truncated {
			truncated = " (truncated)"
		}
		fmt.Fprintf(out, "  %s  %-30s %4d/%-4d records in %s%s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Category,
			run.Records,
			run.Candidates,
			run.Duration.Round(time.Second),
			truncated,
		)
	}
}
