// Package config loads and validates the buildprep configuration.
//
// The configuration file is optional: when none is present the defaults
// reproduce the historical Color Selector build script exactly (two projects,
// bin/obj artifact directories, one retry pass after three seconds).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Anchor is the required base name of the repository root directory.
	// Preparation refuses to run anywhere else.
	Anchor string `yaml:"anchor"`

	// ArtifactDirs are the build-output directory names removed under each
	// project root.
	ArtifactDirs []string `yaml:"artifact_dirs"`

	Projects []Project   `yaml:"projects"`
	Retry    RetryConfig `yaml:"retry"`
}

// Project represents one sub-project to prepare
type Project struct {
	Name        string `yaml:"name"`
	Dir         string `yaml:"dir"`          // relative to the repository root
	ProjectFile string `yaml:"project_file"` // relative to Dir
}

// RetryConfig represents cleanup retry configuration
type RetryConfig struct {
	Backoff      BackoffMode `yaml:"backoff,omitempty"`       // fixed|linear|exponential
	InitialDelay string      `yaml:"initial_delay,omitempty"` // base delay, e.g. "3s"
	MaxDelay     string      `yaml:"max_delay,omitempty"`     // cap for growth
	MaxRetries   int         `yaml:"max_retries,omitempty"`   // extra passes after the first
}

// InitialDuration returns the parsed initial delay. Call Validate first.
func (r RetryConfig) InitialDuration() time.Duration {
	d, err := time.ParseDuration(r.InitialDelay)
	if err != nil {
		return 0
	}
	return d
}

// MaxDuration returns the parsed delay cap. Call Validate first.
func (r RetryConfig) MaxDuration() time.Duration {
	d, err := time.ParseDuration(r.MaxDelay)
	if err != nil {
		return 0
	}
	return d
}

// Default returns the configuration matching the historical build script.
func Default() *Config {
	return &Config{
		Anchor:       "Color Selector",
		ArtifactDirs: []string{"bin", "obj"},
		Projects: []Project{
			{Name: "ColorSelector", Dir: "ColorSelector", ProjectFile: "ColorSelector.csproj"},
			{Name: "ColorSelectorStandalone", Dir: "ColorSelectorTestApp", ProjectFile: "ColorSelectorStandalone.csproj"},
		},
		Retry: RetryConfig{
			Backoff:      BackoffFixed,
			InitialDelay: "3s",
			MaxDelay:     "30s",
			MaxRetries:   1,
		},
	}
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just log it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadOrDefault loads configuration from configPath, falling back to Default()
// when the file does not exist. Any other load failure is an error.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(configPath)
}

// applyDefaults fills unset fields from the historical defaults.
func applyDefaults(config *Config) {
	defaults := Default()

	if config.Anchor == "" {
		config.Anchor = defaults.Anchor
	}
	if len(config.ArtifactDirs) == 0 {
		config.ArtifactDirs = defaults.ArtifactDirs
	}
	if len(config.Projects) == 0 {
		config.Projects = defaults.Projects
	}
	for i := range config.Projects {
		if config.Projects[i].Name == "" {
			config.Projects[i].Name = config.Projects[i].Dir
		}
	}
	if config.Retry.Backoff == "" {
		config.Retry.Backoff = defaults.Retry.Backoff
	} else if normalized := NormalizeBackoff(string(config.Retry.Backoff)); normalized != "" {
		// Store the canonical lowercase form so downstream switches match.
		config.Retry.Backoff = normalized
	}
	if config.Retry.InitialDelay == "" {
		config.Retry.InitialDelay = defaults.Retry.InitialDelay
	}
	if config.Retry.MaxDelay == "" {
		config.Retry.MaxDelay = defaults.Retry.MaxDelay
	}
	if config.Retry.MaxRetries < 0 {
		config.Retry.MaxRetries = defaults.Retry.MaxRetries
	}
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if c.Anchor == "" {
		return fmt.Errorf("anchor must not be empty")
	}
	if len(c.ArtifactDirs) == 0 {
		return fmt.Errorf("at least one artifact directory is required")
	}
	if len(c.Projects) == 0 {
		return fmt.Errorf("at least one project is required")
	}
	for i, p := range c.Projects {
		if p.Dir == "" {
			return fmt.Errorf("project %d: dir must not be empty", i)
		}
		if p.ProjectFile == "" {
			return fmt.Errorf("project %q: project_file must not be empty", p.Name)
		}
	}
	if NormalizeBackoff(string(c.Retry.Backoff)) == "" {
		return fmt.Errorf("retry backoff must be one of fixed, linear, exponential (got %q)", c.Retry.Backoff)
	}
	return c.validateRetryDelays()
}

// validateRetryDelays validates retry delay durations and their relationship.
func (c *Config) validateRetryDelays() error {
	initDur, err := time.ParseDuration(c.Retry.InitialDelay)
	if err != nil {
		return fmt.Errorf("invalid retry initial_delay: %s: %w", c.Retry.InitialDelay, err)
	}

	maxDur, err := time.ParseDuration(c.Retry.MaxDelay)
	if err != nil {
		return fmt.Errorf("invalid retry max_delay: %s: %w", c.Retry.MaxDelay, err)
	}

	if maxDur < initDur {
		return fmt.Errorf("retry max_delay (%s) must be >= initial_delay (%s)",
			c.Retry.MaxDelay, c.Retry.InitialDelay)
	}

	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry max_retries cannot be negative: %d", c.Retry.MaxRetries)
	}

	return nil
}
