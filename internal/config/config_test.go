package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Color Selector", cfg.Anchor)
	assert.Equal(t, []string{"bin", "obj"}, cfg.ArtifactDirs)
	require.Len(t, cfg.Projects, 2)
	assert.Equal(t, "ColorSelector", cfg.Projects[0].Dir)
	assert.Equal(t, "ColorSelector.csproj", cfg.Projects[0].ProjectFile)
	assert.Equal(t, "ColorSelectorTestApp", cfg.Projects[1].Dir)
	assert.Equal(t, "ColorSelectorStandalone.csproj", cfg.Projects[1].ProjectFile)
	assert.Equal(t, BackoffFixed, cfg.Retry.Backoff)
	assert.Equal(t, 1, cfg.Retry.MaxRetries)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "buildprep.yaml")

	content := `anchor: "Widget Factory"
artifact_dirs:
  - out
projects:
  - name: Widget
    dir: Widget
    project_file: Widget.csproj
retry:
  backoff: linear
  initial_delay: 500ms
  max_delay: 5s
  max_retries: 3
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "Widget Factory", cfg.Anchor)
	assert.Equal(t, []string{"out"}, cfg.ArtifactDirs)
	require.Len(t, cfg.Projects, 1)
	assert.Equal(t, "Widget", cfg.Projects[0].Name)
	assert.Equal(t, BackoffLinear, cfg.Retry.Backoff)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "buildprep.yaml")

	// Partial config: only a custom anchor; everything else defaulted.
	require.NoError(t, os.WriteFile(cfgPath, []byte("anchor: Elsewhere\n"), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "Elsewhere", cfg.Anchor)
	assert.Equal(t, []string{"bin", "obj"}, cfg.ArtifactDirs)
	assert.Len(t, cfg.Projects, 2)
	assert.Equal(t, "3s", cfg.Retry.InitialDelay)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("BUILDPREP_TEST_ANCHOR", "Env Anchor")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "buildprep.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("anchor: ${BUILDPREP_TEST_ANCHOR}\n"), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "Env Anchor", cfg.Anchor)
}

func TestProjectNameDefaultsToDir(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "buildprep.yaml")
	content := `projects:
  - dir: Widget
    project_file: Widget.csproj
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "Widget", cfg.Projects[0].Name)
}

func TestLoadNormalizesBackoffCase(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "buildprep.yaml")
	content := `retry:
  backoff: Exponential
  initial_delay: 1s
  max_retries: 3
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	// Accepted casing is stored in canonical form, not just tolerated.
	assert.Equal(t, BackoffExponential, cfg.Retry.Backoff)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing anchor", func(c *Config) { c.Anchor = "" }, "anchor"},
		{"no artifact dirs", func(c *Config) { c.ArtifactDirs = nil }, "artifact"},
		{"no projects", func(c *Config) { c.Projects = nil }, "project"},
		{"empty project dir", func(c *Config) { c.Projects[0].Dir = "" }, "dir"},
		{"empty project file", func(c *Config) { c.Projects[0].ProjectFile = "" }, "project_file"},
		{"bad backoff", func(c *Config) { c.Retry.Backoff = "quadratic" }, "backoff"},
		{"bad initial delay", func(c *Config) { c.Retry.InitialDelay = "soon" }, "initial_delay"},
		{"max below initial", func(c *Config) { c.Retry.InitialDelay = "10s"; c.Retry.MaxDelay = "1s" }, "max_delay"},
		{"negative retries", func(c *Config) { c.Retry.MaxRetries = -1 }, "max_retries"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.wantErr)
		})
	}
}

func TestRetryDurations(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "3s", cfg.Retry.InitialDelay)
	assert.Equal(t, float64(3), cfg.Retry.InitialDuration().Seconds())
	assert.Equal(t, float64(30), cfg.Retry.MaxDuration().Seconds())
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "buildprep.yaml")

	require.NoError(t, Init(cfgPath, false))

	// The generated example must load cleanly.
	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "Color Selector", cfg.Anchor)

	// Existing file without force is rejected.
	err = Init(cfgPath, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Force overwrites.
	require.NoError(t, Init(cfgPath, true))
}

func TestNormalizeBackoff(t *testing.T) {
	assert.Equal(t, BackoffFixed, NormalizeBackoff("fixed"))
	assert.Equal(t, BackoffLinear, NormalizeBackoff(" Linear "))
	assert.Equal(t, BackoffExponential, NormalizeBackoff("EXPONENTIAL"))
	assert.Equal(t, BackoffMode(""), NormalizeBackoff("sometimes"))
}
