// Package config provides configuration structures and utilities for wikinovels.
// It defines the options of the collector and the renderer, the .wikinovels
// YAML file and the static tables (blacklists, notes, reference
// collections) the renderer uses.
package config
