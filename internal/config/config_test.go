package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default category", func(t *testing.T) {
		t.Parallel()
		if cfg.Category != "Novels with gay themes" {
			t.Errorf("expected default category, got %q", cfg.Category)
		}
	})

	t.Run("default limit is 500", func(t *testing.T) {
		t.Parallel()
		if cfg.Limit != 500 {
			t.Errorf("expected Limit to be 500, got %d", cfg.Limit)
		}
	})

	t.Run("deep search is on by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.Deep {
			t.Error("expected Deep to be true")
		}
	})

	t.Run("default file names", func(t *testing.T) {
		t.Parallel()
		if cfg.SnapshotFile != "noveldat.json" {
			t.Errorf("expected SnapshotFile 'noveldat.json', got %q", cfg.SnapshotFile)
		}
		if cfg.TableFile != "table.wiki" {
			t.Errorf("expected TableFile 'table.wiki', got %q", cfg.TableFile)
		}
	})

	t.Run("default timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("cache is off by default", func(t *testing.T) {
		t.Parallel()
		if cfg.UseCache {
			t.Error("expected UseCache to be false")
		}
		if cfg.CacheTTL != 7*24*time.Hour {
			t.Errorf("expected CacheTTL to be 7 days, got %v", cfg.CacheTTL)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"defaults are valid", func(*Config) {}, nil},
		{"empty category", func(c *Config) { c.Category = "" }, ErrNoCategory},
		{"zero limit", func(c *Config) { c.Limit = 0 }, ErrInvalidLimit},
		{"negative limit", func(c *Config) { c.Limit = -1 }, ErrInvalidLimit},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"empty snapshot file", func(c *Config) { c.SnapshotFile = "" }, ErrNoSnapshotFile},
		{"negative cache ttl", func(c *Config) { c.CacheTTL = -time.Second }, ErrInvalidCacheTTL},
		{"zero cache ttl is valid", func(c *Config) { c.CacheTTL = 0 }, nil},
		{"cache without directory", func(c *Config) { c.UseCache = true; c.CacheDir = "" }, ErrNoCacheDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestDefaultFile tests the embedded default configuration.
func TestDefaultFile(t *testing.T) {
	t.Parallel()

	file := DefaultFile()

	t.Run("default columns", func(t *testing.T) {
		t.Parallel()
		want := []string{"year", "title", "author", "country", "notes"}
		if len(file.Table.Columns) != len(want) {
			t.Fatalf("expected columns %v, got %v", want, file.Table.Columns)
		}
		for i := range want {
			if file.Table.Columns[i] != want[i] {
				t.Errorf("expected column %d to be %q, got %q", i, want[i], file.Table.Columns[i])
			}
		}
	})

	t.Run("cutoff and exception", func(t *testing.T) {
		t.Parallel()
		if file.Table.CutoffYear != 1969 {
			t.Errorf("expected cutoff 1969, got %d", file.Table.CutoffYear)
		}
		if len(file.Table.CutoffExceptions) != 1 || file.Table.CutoffExceptions[0] != "Maurice (novel)" {
			t.Errorf("unexpected cutoff exceptions: %v", file.Table.CutoffExceptions)
		}
	})

	t.Run("anonymous author keeps its quotes", func(t *testing.T) {
		t.Parallel()
		if file.Table.AnonymousAuthor != `"Jack Saul"` {
			t.Errorf("expected quoted pseudonym, got %q", file.Table.AnonymousAuthor)
		}
	})

	t.Run("reference collections are ordered", func(t *testing.T) {
		t.Parallel()
		names := make([]string, 0, len(file.Table.References))
		for _, ref := range file.Table.References {
			names = append(names, ref.Name)
		}
		want := []string{"BIC", "GLR", "Lost", "GLBTQ-Am-1", "GLBTQ-Am-2", "GLBTQ-Am-3"}
		if len(names) != len(want) {
			t.Fatalf("expected %v, got %v", want, names)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("expected reference %d to be %q, got %q", i, want[i], names[i])
			}
		}
	})

	t.Run("country names", func(t *testing.T) {
		t.Parallel()
		if file.Table.CountryNames["United Kingdom"] != "UK" {
			t.Errorf("expected UK abbreviation, got %q", file.Table.CountryNames["United Kingdom"])
		}
	})

	t.Run("collector defaults match config defaults", func(t *testing.T) {
		t.Parallel()
		if file.Collector.Category != DefaultCategory {
			t.Errorf("expected %q, got %q", DefaultCategory, file.Collector.Category)
		}
		if file.Collector.Limit != DefaultLimit {
			t.Errorf("expected %d, got %d", DefaultLimit, file.Collector.Limit)
		}
	})

	t.Run("each call returns an independent copy", func(t *testing.T) {
		t.Parallel()
		a := DefaultFile()
		a.Table.Columns[0] = "changed"
		if DefaultFile().Table.Columns[0] != "year" {
			t.Error("expected DefaultFile to be unaffected by modifications")
		}
	})

	t.Run("default content is the embedded file", func(t *testing.T) {
		t.Parallel()
		if !bytes.Contains(DefaultFileContent(), []byte("cutoff_year: 1969")) {
			t.Error("expected default content to contain cutoff_year")
		}
	})
}

// TestFileValidate tests validation of the configuration file.
func TestFileValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid ignore patterns", func(t *testing.T) {
		t.Parallel()
		file := &File{Collector: CollectorSettings{IgnoreTitles: []string{"List of *", "Category:*"}}}
		if err := file.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("invalid ignore pattern", func(t *testing.T) {
		t.Parallel()
		file := &File{Collector: CollectorSettings{IgnoreTitles: []string{"[unclosed"}}}
		if err := file.Validate(); !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("expected ErrInvalidPattern, got %v", err)
		}
	})

	t.Run("negative limit", func(t *testing.T) {
		t.Parallel()
		file := &File{Collector: CollectorSettings{Limit: -5}}
		if err := file.Validate(); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("expected ErrInvalidLimit, got %v", err)
		}
	})
}

// TestApplyFile tests copying collector settings onto a Config.
func TestApplyFile(t *testing.T) {
	t.Parallel()

	t.Run("file values override defaults", func(t *testing.T) {
		t.Parallel()

		deep := false
		cfg := NewConfig()
		cfg.ApplyFile(&File{Collector: CollectorSettings{
			Category:        "Category:Gothic novels",
			Limit:           20,
			Deep:            &deep,
			RegionalEnglish: true,
		}})

		if cfg.Category != "Category:Gothic novels" {
			t.Errorf("unexpected category %q", cfg.Category)
		}
		if cfg.Limit != 20 {
			t.Errorf("expected limit 20, got %d", cfg.Limit)
		}
		if cfg.Deep {
			t.Error("expected Deep to be false")
		}
		if !cfg.RegionalEnglish {
			t.Error("expected RegionalEnglish to be true")
		}
	})

	t.Run("zero values keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(&File{})
		if cfg.Category != DefaultCategory || cfg.Limit != DefaultLimit || !cfg.Deep || cfg.RegionalEnglish {
			t.Errorf("expected defaults to be kept, got %+v", cfg)
		}
		if cfg.File == nil {
			t.Error("expected File to be set")
		}
	})

	t.Run("nil file", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(nil)
		if cfg.File != nil {
			t.Error("expected nil File")
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.wikinovels")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".wikinovels")
		content := `collector:
  category: Gothic novels
  ignore_titles:
    - "List of *"
table:
  columns: [year, title, genre, notes]
  cutoff_year: 1900
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Collector.Category != "Gothic novels" {
			t.Errorf("expected category override, got %q", cfg.Collector.Category)
		}
		if len(cfg.Collector.IgnoreTitles) != 1 {
			t.Errorf("expected 1 ignore pattern, got %v", cfg.Collector.IgnoreTitles)
		}
		if len(cfg.Table.Columns) != 4 || cfg.Table.Columns[2] != "genre" {
			t.Errorf("expected columns override, got %v", cfg.Table.Columns)
		}
		if cfg.Table.CutoffYear != 1900 {
			t.Errorf("expected cutoff 1900, got %d", cfg.Table.CutoffYear)
		}
		// Keys absent from the file keep their defaults.
		if cfg.Collector.Limit != DefaultLimit {
			t.Errorf("expected default limit, got %d", cfg.Collector.Limit)
		}
		if cfg.Table.AnonymousAuthor != `"Jack Saul"` {
			t.Errorf("expected default anonymous author, got %q", cfg.Table.AnonymousAuthor)
		}
	})

	t.Run("maps in the file replace the defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := ParseConfig([]byte("table:\n  author_links: {}\n  country_names:\n    France: FR\n  notes:\n    Only: note\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Table.AuthorLinks) != 0 {
			t.Errorf("expected no author links, got %v", cfg.Table.AuthorLinks)
		}
		if len(cfg.Table.CountryNames) != 1 || cfg.Table.CountryNames["France"] != "FR" {
			t.Errorf("expected only France, got %v", cfg.Table.CountryNames)
		}
		if len(cfg.Table.Notes) != 1 || cfg.Table.Notes["Only"] != "note" {
			t.Errorf("expected only one note, got %v", cfg.Table.Notes)
		}
	})

	t.Run("maps absent from the file keep the defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := ParseConfig([]byte("table:\n  cutoff_year: 1950\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Table.AuthorLinks["Michael Nelson"] != "Michael Nelson (novelist)" {
			t.Errorf("expected default author link, got %v", cfg.Table.AuthorLinks)
		}
		if cfg.Table.CountryNames["United Kingdom"] != "UK" {
			t.Errorf("expected default country names, got %v", cfg.Table.CountryNames)
		}
	})

	t.Run("empty file keeps the defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := ParseConfig(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Table.CutoffYear != DefaultFile().Table.CutoffYear {
			t.Errorf("expected default cutoff, got %d", cfg.Table.CutoffYear)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".wikinovels")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for invalid pattern", func(t *testing.T) {
		t.Parallel()

		_, err := ParseConfig([]byte("collector:\n  ignore_titles: ['[oops']\n"))
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("expected ErrInvalidPattern, got %v", err)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("table: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if XDGConfigDir() == "" {
		t.Error("expected non-empty XDG config dir")
	}
	if filepath.Base(XDGCacheDir()) != AppName {
		t.Errorf("expected cache dir to end with %q, got %q", AppName, XDGCacheDir())
	}
}
