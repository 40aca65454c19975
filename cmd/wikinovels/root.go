package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikinovels/internal/config"
)

// NewRootCmd creates the root command for wikinovels.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikinovels",
		Short: "Build a wiki table of novels from structured data",
		Long: `wikinovels collects bibliographic metadata (author, year, country, ...)
for every page of an encyclopedia category and renders it as a sortable
MediaWiki table.

The work is split in two steps so that the table can be tuned without
fetching again:
  wikinovels collect   # writes noveldat.json
  wikinovels render    # reads noveldat.json, writes table.wiki`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.StringP("config", "c", "",
		"Configuration file path (default: .wikinovels in current or home directory)")
	flags.DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	flags.String("proxy", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:1080)")
	flags.String("token", "",
		"Wikimedia API access token sent as a bearer token")
	flags.Bool("cache", false,
		"Cache entity data and title lookups on disk")
	flags.String("cache-dir", config.XDGCacheDir(),
		"Directory of the entity cache")
	flags.String("wikipedia-api", config.DefaultWikipediaAPI,
		"MediaWiki action API endpoint used for the category search")
	flags.String("wikidata-url", config.DefaultWikidataURL,
		"Base URL of the structured-data store")

	// Add subcommands
	cmd.AddCommand(NewCollectCmd())
	cmd.AddCommand(NewLookupCmd())
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
