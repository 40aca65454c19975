package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".wikinovels"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

//go:embed defaults.yaml
var defaultFile []byte

// DefaultFileContent returns the built-in configuration file, including
// comments. It is what `wikinovels init` writes to disk.
func DefaultFileContent() []byte {
	out := make([]byte, len(defaultFile))
	copy(out, defaultFile)
	return out
}

// DefaultFile returns the built-in configuration.
func DefaultFile() *File {
	var cf File
	if err := yaml.Unmarshal(defaultFile, &cf); err != nil {
		// The embedded file is part of the binary; failing to parse it is a build defect.
		panic(fmt.Sprintf("config: embedded defaults.yaml is invalid: %v", err))
	}
	return &cf
}

// LoadConfigFile loads a configuration file on top of the built-in
// defaults. Keys present in the file replace the default value; maps are
// replaced as a whole rather than merged. If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig parses configuration data on top of the built-in defaults.
func ParseConfig(data []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cf := DefaultFile()
	if doc.Kind == 0 {
		return cf, nil
	}

	// yaml.v3 merges into non-nil maps, so drop the defaults of every map
	// the file sets.
	table := mappingValue(&doc, "table")
	if mappingValue(table, "author_links") != nil {
		cf.Table.AuthorLinks = nil
	}
	if mappingValue(table, "country_names") != nil {
		cf.Table.CountryNames = nil
	}
	if mappingValue(table, "notes") != nil {
		cf.Table.Notes = nil
	}

	if err := doc.Decode(cf); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

// mappingValue returns the value of key in the mapping n, or nil when n is
// not a mapping or has no such key.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .wikinovels in the current directory
// 3. Look for .wikinovels in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
