package config

import (
	"fmt"
	"os"
)

const exampleConfig = `# buildprep configuration
# All settings are optional; the defaults reproduce the historical
# Color Selector build script.

# Base name the repository root directory must have before anything runs.
anchor: "Color Selector"

# Build-output directories removed under each project root.
artifact_dirs:
  - bin
  - obj

projects:
  - name: ColorSelector
    dir: ColorSelector
    project_file: ColorSelector.csproj
  - name: ColorSelectorStandalone
    dir: ColorSelectorTestApp
    project_file: ColorSelectorStandalone.csproj

# Cleanup retry policy. The IDE may briefly hold a lock on bin/obj, so a
# failed pass is repeated after a delay.
retry:
  backoff: fixed # fixed|linear|exponential
  initial_delay: 3s
  max_delay: 30s
  max_retries: 1
`

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
