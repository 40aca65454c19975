package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikinovels/internal/cache"
	"github.com/nao1215/wikinovels/internal/config"
	"github.com/nao1215/wikinovels/internal/extract"
	wlog "github.com/nao1215/wikinovels/internal/log"
	"github.com/nao1215/wikinovels/internal/transport"
	"github.com/nao1215/wikinovels/internal/wikidata"
	"github.com/nao1215/wikinovels/internal/wikipedia"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// stringFlag returns a string flag, or def when the command has no such flag.
func stringFlag(cmd *cobra.Command, name, def string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return def
	}
	return v
}

// boolFlag returns a bool flag, or def when the command has no such flag.
func boolFlag(cmd *cobra.Command, name string, def bool) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return def
	}
	return v
}

// durationFlag returns a duration flag, or def when the command has no such flag.
func durationFlag(cmd *cobra.Command, name string, def time.Duration) time.Duration {
	v, err := cmd.Flags().GetDuration(name)
	if err != nil {
		return def
	}
	return v
}

// buildConfig creates a Config from the global flags and the configuration file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.ConfigFilePath = stringFlag(cmd, "config", "")
	cfg.Timeout = durationFlag(cmd, "timeout", cfg.Timeout)
	cfg.ProxyAddress = stringFlag(cmd, "proxy", "")
	cfg.AccessToken = stringFlag(cmd, "token", "")
	cfg.UseCache = boolFlag(cmd, "cache", false)
	cfg.CacheDir = stringFlag(cmd, "cache-dir", cfg.CacheDir)
	cfg.WikipediaAPI = stringFlag(cmd, "wikipedia-api", cfg.WikipediaAPI)
	cfg.WikidataURL = stringFlag(cmd, "wikidata-url", cfg.WikidataURL)

	file, err := loadConfigFile(cfg.ConfigFilePath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyFile(file)

	return cfg, nil
}

// loadConfigFile loads the configuration file.
// If the user explicitly specified a path, a missing file is an error.
// Otherwise the built-in defaults are used when no file is found.
func loadConfigFile(explicitPath string) (*config.File, error) {
	configPath := config.FindConfigFile(explicitPath)

	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		return file, nil
	case explicitPath != "":
		return nil, fmt.Errorf("configuration file not found: %s", explicitPath)
	default:
		return config.DefaultFile(), nil
	}
}

// setupLogger creates a structured logger that writes to stderr and
// redacts credentials.
func setupLogger(verbose bool) *slog.Logger {
	return wlog.NewSecureLogger(os.Stderr, verbose)
}

// signalContext returns a context canceled on interrupt or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// newHTTPClient creates the HTTP client shared by the remote clients.
func newHTTPClient(cfg *config.Config) (*http.Client, error) {
	opts := []transport.Option{
		transport.WithTimeout(cfg.Timeout),
		transport.WithUserAgent(cfg.UserAgent),
	}
	if cfg.AccessToken != "" {
		opts = append(opts,
			transport.WithAccessToken(cfg.AccessToken),
			transport.WithTokenHosts(endpointHost(cfg.WikipediaAPI), endpointHost(cfg.WikidataURL)),
		)
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, transport.WithProxy(cfg.ProxyAddress))
	}

	client, err := transport.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return client.HTTPClient(), nil
}

// endpointHost returns the host name of an endpoint URL, or "" if it does
// not parse.
func endpointHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// openCache opens the entity cache if it is enabled. It returns nil otherwise.
func openCache(cfg *config.Config, logger *slog.Logger) (*cache.EntityDB, error) {
	if !cfg.UseCache {
		return nil, nil
	}

	db, err := cache.Open(cfg.CacheDir, cache.Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		TTL:               cfg.CacheTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	logger.Info("cache opened", "path", db.Path())
	return db, nil
}

// services are the remote clients of one invocation.
type services struct {
	searcher  *wikipedia.Client
	extractor *extract.Extractor
	db        *cache.EntityDB
}

// Close releases the cache, if any.
func (s *services) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// newServices wires the transport, the remote clients and the cache.
func newServices(cfg *config.Config, logger *slog.Logger) (*services, error) {
	httpClient, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	db, err := openCache(cfg, logger)
	if err != nil {
		return nil, err
	}

	wdOpts := []wikidata.Option{
		wikidata.WithBaseURL(cfg.WikidataURL),
		wikidata.WithLogger(logger),
	}
	if db != nil {
		wdOpts = append(wdOpts, wikidata.WithStore(db))
	}

	return &services{
		searcher:  wikipedia.NewClient(httpClient, wikipedia.WithEndpoint(cfg.WikipediaAPI)),
		extractor: extract.NewExtractor(wikidata.NewClient(httpClient, wdOpts...), extract.DefaultProperties(),
			extract.WithLogger(logger),
			extract.WithRegionalEnglish(cfg.RegionalEnglish),
		),
		db:        db,
	}, nil
}
