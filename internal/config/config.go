// Package config resolves the journal's runtime settings.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see Default).
//  2. An optional .env file, loaded with godotenv. It never overrides
//     variables already present in the environment.
//  3. Environment variables (JOURNAL_DB, JOURNAL_LOG_LEVEL, JOURNAL_EDITOR,
//     VISUAL, EDITOR, JOURNAL_ADDR, ANTHROPIC_API_KEY, JOURNAL_SUGGEST_MODEL).
//  4. Command-line flags, applied by cmd/journal on top of the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds the resolved settings of one journal invocation.
type Config struct {
	DBPath         string
	LogLevel       string
	Editor         string
	ServeAddr      string
	AnthropicKey   string
	AnthropicModel string
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DBPath:         filepath.Join(home, ".journal", "journal.db"),
		LogLevel:       "warn",
		Editor:         "vi",
		ServeAddr:      ":8080",
		AnthropicModel: "claude-sonnet-4-20250514",
	}
}

// Load applies envFile (if it exists) and the environment over the defaults.
// An empty envFile means ".env" in the working directory.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Default()
	cfg.DBPath = getString("JOURNAL_DB", cfg.DBPath)
	cfg.LogLevel = getString("JOURNAL_LOG_LEVEL", cfg.LogLevel)
	cfg.Editor = firstSet([]string{"JOURNAL_EDITOR", "VISUAL", "EDITOR"}, cfg.Editor)
	cfg.ServeAddr = getString("JOURNAL_ADDR", cfg.ServeAddr)
	cfg.AnthropicKey = getString("ANTHROPIC_API_KEY", cfg.AnthropicKey)
	cfg.AnthropicModel = getString("JOURNAL_SUGGEST_MODEL", cfg.AnthropicModel)
	return &cfg, nil
}

func getString(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	return value
}

func firstSet(keys []string, defaultValue string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return defaultValue
}
