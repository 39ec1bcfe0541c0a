// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable read by [Load].
const EnvConfigPath = "EMAILCOMMANDER_CONFIG"

// Setting keys understood by [Config.Bool].
const (
	// AutoResponse converts inbound email notes to responses unless
	// the note says otherwise.
	AutoResponse = "auto_response"

	// EnableClose enables the "#close" command. Reserved: no
	// registered token reads it yet.
	EnableClose = "enable_close"
)

// Environment represents the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config is the master configuration.
type Config struct {
	// Environment identifies the deployment type.
	Environment Environment `yaml:"environment"`

	// AutoResponse is the default visibility for inbound email notes.
	// When true, a note without a #public/#private command is sent to
	// the ticket owner as a response.
	AutoResponse bool `yaml:"auto_response"`

	// EnableClose gates the #close command.
	EnableClose bool `yaml:"enable_close"`

	// Store configures the file-backed ticket store used by the CLI.
	Store StoreConfig `yaml:"store"`

	// Log configures the process logger.
	Log LogConfig `yaml:"log"`

	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`

	// autoResponseSet records whether the file set auto_response at the
	// top level.
	autoResponseSet bool
}

// ConfigOverrides contains fields that can be overridden per environment.
// AutoResponse is a pointer so that an explicit false is distinguishable
// from an absent key.
type ConfigOverrides struct {
	AutoResponse *bool        `yaml:"auto_response,omitempty"`
	Store        *StoreConfig `yaml:"store,omitempty"`
	Log          *LogConfig   `yaml:"log,omitempty"`
}

// StoreConfig configures the ticket store.
type StoreConfig struct {
	// Root is the directory holding tickets/ and outbox/.
	Root string `yaml:"root"`

	// Compression applied to files at rest: "zstd" or "none".
	Compression string `yaml:"compression"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "auto" (text on a terminal, JSON otherwise), "text",
	// or "json".
	Format string `yaml:"format"`
}

// Default returns the default configuration. These are the values a
// fresh plugin install starts with: both commands enabled.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Environment:  Development,
		AutoResponse: true,
		EnableClose:  true,
		Store: StoreConfig{
			Root:        filepath.Join(homeDir, ".cache", "emailcommander"),
			Compression: "zstd",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load loads configuration from the EMAILCOMMANDER_CONFIG environment
// variable. There is no fallback: if the variable is unset, Load fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvConfigPath)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your emailcommander.yaml config file, or use --config flag", EnvConfigPath)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, applies the
// section for the configured environment, and expands path variables.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	var explicit struct {
		AutoResponse *bool `yaml:"auto_response"`
	}
	if err := yaml.Unmarshal(data, &explicit); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.autoResponseSet = explicit.AutoResponse != nil
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production: agents must opt in to replying to customers
		// unless the file says otherwise somewhere.
		if !c.autoResponseSet && (overrides == nil || overrides.AutoResponse == nil) {
			c.AutoResponse = false
		}
	}

	if overrides == nil {
		return
	}

	if overrides.AutoResponse != nil {
		c.AutoResponse = *overrides.AutoResponse
	}

	if overrides.Store != nil {
		if overrides.Store.Root != "" {
			c.Store.Root = overrides.Store.Root
		}
		if overrides.Store.Compression != "" {
			c.Store.Compression = overrides.Store.Compression
		}
	}

	if overrides.Log != nil {
		if overrides.Log.Level != "" {
			c.Log.Level = overrides.Log.Level
		}
		if overrides.Log.Format != "" {
			c.Log.Format = overrides.Log.Format
		}
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Store.Root = expandVars(c.Store.Root, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Bool returns the boolean setting named by key. Unknown keys are false.
func (c *Config) Bool(key string) bool {
	switch key {
	case AutoResponse:
		return c.AutoResponse
	case EnableClose:
		return c.EnableClose
	}
	return false
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Store.Root == "" {
		errs = append(errs, errors.New("store.root is required"))
	}

	compressions := []string{"zstd", "none"}
	if !slices.Contains(compressions, c.Store.Compression) {
		errs = append(errs, fmt.Errorf("store.compression must be one of: %v", compressions))
	}

	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", levels))
	}

	formats := []string{"auto", "text", "json"}
	if !slices.Contains(formats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", formats))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
