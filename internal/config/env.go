package config

import (
	"os"
	"strconv"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKPAD_DATA"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("TASKPAD_SAVE_DEBOUNCE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.SaveDebounceMS = i
		}
	}
	if v := os.Getenv("TASKPAD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKPAD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TASKPAD_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
	}
	if v := os.Getenv("TASKPAD_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
	}
}
