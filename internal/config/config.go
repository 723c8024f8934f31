// Package config handles configuration loading and defaults.
package config

import (
	"strings"
	"time"
)

// Default values.
const (
	DefaultDataFile = "~/.taskpad/taskpad.json"
	DefaultLogLevel = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for taskpad.
type Config struct {
	// DataFile is the JSON document that holds all tasks and notes.
	DataFile string `toml:"data_file"`

	// SaveDebounceMS batches rapid edits into one disk write. Zero saves
	// after every change.
	SaveDebounceMS int `toml:"save_debounce_ms"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// SaveDebounce returns the debounce window as a duration.
func (c *Config) SaveDebounce() time.Duration {
	if c.SaveDebounceMS <= 0 {
		return 0
	}
	return time.Duration(c.SaveDebounceMS) * time.Millisecond
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.SaveDebounceMS = 0
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
