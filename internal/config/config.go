package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wikinovels"

	// DefaultCategory is the encyclopedia category the collector harvests.
	DefaultCategory = "Novels with gay themes"

	// DefaultLimit caps the number of candidate pages. The search API accepts
	// at most 500 results per request for anonymous clients.
	DefaultLimit = 500

	// DefaultDeep includes pages of subcategories transitively.
	DefaultDeep = true

	// DefaultSnapshotFile is the intermediate file written by the collector
	// and read by the renderer.
	DefaultSnapshotFile = "noveldat.json"

	// DefaultTableFile is the wiki markup file written by the renderer.
	DefaultTableFile = "table.wiki"

	// DefaultDebugTitle is the page looked up by the single-title debug mode
	// when no title is given.
	DefaultDebugTitle = "The Secret History"

	// DefaultTimeout is the timeout for each HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the tool in HTTP requests. Wikimedia asks
	// clients to send a descriptive User-Agent with contact information.
	DefaultUserAgent = "wikinovels/1.0 (+https://github.com/nao1215/wikinovels)"

	// DefaultWikipediaAPI is the MediaWiki action API used for category search.
	DefaultWikipediaAPI = "https://en.wikipedia.org/w/api.php"

	// DefaultWikidataURL is the base URL of the structured-data store.
	DefaultWikidataURL = "https://www.wikidata.org"

	// DefaultCacheTTL is how long cached entities are considered fresh.
	DefaultCacheTTL = 7 * 24 * time.Hour
)

// Config holds the options of one invocation. It is populated from CLI
// flags and the configuration file and then passed down explicitly.
type Config struct {
	// Category is the encyclopedia category to harvest, with or without
	// the "Category:" prefix.
	Category string

	// Limit caps the number of candidate pages.
	Limit int

	// Deep includes pages of subcategories transitively.
	Deep bool

	// RegionalEnglish lets labels fall back to regional English variants.
	RegionalEnglish bool

	// SnapshotFile is the path of the intermediate JSON file.
	SnapshotFile string

	// TableFile is the path of the rendered wiki table.
	TableFile string

	// MarkdownFile, when set, receives a markdown preview of the table.
	MarkdownFile string

	// Timeout is the timeout for each HTTP request.
	Timeout time.Duration

	// UserAgent is sent with every HTTP request.
	UserAgent string

	// AccessToken is an optional Wikimedia API bearer token.
	AccessToken string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// WikipediaAPI is the MediaWiki action API endpoint.
	WikipediaAPI string

	// WikidataURL is the base URL of the structured-data store.
	WikidataURL string

	// UseCache enables the on-disk entity cache.
	UseCache bool

	// CacheDir is the directory of the entity cache database.
	// Defaults to the XDG cache directory.
	CacheDir string

	// CacheTTL is how long cached entities stay fresh.
	CacheTTL time.Duration

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path of the configuration file. If empty, the
	// file is searched in the current directory and then the home directory.
	ConfigFilePath string

	// File holds the collector settings and static tables.
	File *File
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Category:     DefaultCategory,
		Limit:        DefaultLimit,
		Deep:         DefaultDeep,
		SnapshotFile: DefaultSnapshotFile,
		TableFile:    DefaultTableFile,
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		WikipediaAPI: DefaultWikipediaAPI,
		WikidataURL:  DefaultWikidataURL,
		CacheDir:     XDGCacheDir(),
		CacheTTL:     DefaultCacheTTL,
	}
}

// XDGCacheDir returns the XDG cache directory for wikinovels.
// On Linux: ~/.cache/wikinovels
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wikinovels.
// On Linux: ~/.config/wikinovels
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Category == "" {
		return ErrNoCategory
	}
	if c.Limit <= 0 {
		return ErrInvalidLimit
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.SnapshotFile == "" {
		return ErrNoSnapshotFile
	}
	if c.CacheTTL < 0 {
		return ErrInvalidCacheTTL
	}
	if c.UseCache && c.CacheDir == "" {
		return ErrNoCacheDir
	}
	return nil
}
