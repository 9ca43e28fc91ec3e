// Package config loads the action inputs from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMissingInput is returned by Validate when a required input is empty.
var ErrMissingInput = errors.New("missing required input")

// Defaults for optional inputs.
const (
	DefaultMode  = "separate"
	DefaultName  = "Checkstyle"
	DefaultTitle = "Checkstyle Source Code Analyzer report"
)

// Config holds the action inputs and the runner settings the action needs.
type Config struct {
	Path       string // Search pattern(s) for result files.
	Mode       string // "inline" or "separate"; validated by the pipeline, not here.
	Name       string // Check run name.
	Title      string // Check run output title.
	Token      string // GitHub token for the Checks API.
	APIURL     string // REST endpoint; differs from github.com on GitHub Enterprise Server.
	Workspace  string // Checkout directory; report paths are made relative to it.
	LedgerPath string // Optional SQLite file recording every check run write.
	Debug      bool   // Runner debug logging is enabled.
}

// HasToken returns true when a token is configured. Only separate mode
// talks to the API.
func (c *Config) HasToken() bool {
	return c.Token != ""
}

// HasLedger returns true when an upload ledger file is configured.
func (c *Config) HasLedger() bool {
	return c.LedgerPath != ""
}

// Validate checks required inputs. A token is only required in separate mode. It runs after command-line overrides have
// been applied, so it is separate from Load.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("%w: path (INPUT_PATH)", ErrMissingInput)
	}
	if c.Mode == "separate" && !c.HasToken() {
		return fmt.Errorf("%w: token (INPUT_TOKEN) is required in separate mode", ErrMissingInput)
	}
	return nil
}

// Load reads configuration from environment variables. Action inputs follow
// the runner's INPUT_<NAME> convention: INPUT_PATH, INPUT_MODE (separate),
// INPUT_NAME (Checkstyle), INPUT_TITLE (Checkstyle Source Code Analyzer
// report), INPUT_TOKEN and INPUT_LEDGER_PATH. Runner settings come from
// GITHUB_API_URL (https://api.github.com), GITHUB_WORKSPACE (working
// directory) and RUNNER_DEBUG.
func Load() (*Config, error) {
	workspace := os.Getenv("GITHUB_WORKSPACE")
	if workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		workspace = wd
	}

	apiURL := "https://api.github.com"
	if v, ok := os.LookupEnv("GITHUB_API_URL"); ok && v != "" {
		apiURL = v
	}

	return &Config{
		Path:       input("PATH", ""),
		Mode:       input("MODE", DefaultMode),
		Name:       input("NAME", DefaultName),
		Title:      input("TITLE", DefaultTitle),
		Token:      input("TOKEN", ""),
		APIURL:     apiURL,
		Workspace:  workspace,
		LedgerPath: input("LEDGER_PATH", ""),
		Debug:      os.Getenv("RUNNER_DEBUG") == "1",
	}, nil
}

// input returns the trimmed INPUT_<name> variable, or def when unset or blank.
func input(name, def string) string {
	v := strings.TrimSpace(os.Getenv("INPUT_" + name))
	if v == "" {
		return def
	}
	return v
}
