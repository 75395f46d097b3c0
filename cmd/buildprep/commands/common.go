package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/buildprep/internal/clean"
	"git.home.luguber.info/inful/buildprep/internal/config"
	"git.home.luguber.info/inful/buildprep/internal/layout"
	"git.home.luguber.info/inful/buildprep/internal/logfields"
	"git.home.luguber.info/inful/buildprep/internal/retry"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"buildprep.yaml"`
	Root    string           `short:"C" help:"Repository root directory (defaults to the working directory)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Prepare    PrepareCmd    `cmd:"" default:"withargs" help:"Clean build output and set the version number (full preparation)"`
	Clean      CleanCmd      `cmd:"" help:"Remove stale build output directories only"`
	SetVersion SetVersionCmd `cmd:"" name:"set-version" help:"Set the version number in the project files only"`
	Init       InitCmd       `cmd:"" help:"Initialize a new configuration file"`
	Watch      WatchCmd      `cmd:"" help:"Run preparation and re-run it whenever the configuration file changes"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ResolveLayout loads the configuration, anchors the repository root, and
// derives the absolute path set every preparation step works from.
func ResolveLayout(configPath, rootDir string) (*config.Config, *layout.Layout, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, nil, err
	}

	var root string
	if rootDir != "" {
		root, err = layout.Locate(rootDir, cfg.Anchor)
	} else {
		root, err = layout.LocateWorkingDir(cfg.Anchor)
	}
	if err != nil {
		return nil, nil, err
	}

	l, err := layout.Resolve(cfg, root)
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("Repository root anchored", logfields.Root(root), logfields.Anchor(cfg.Anchor))
	return cfg, l, nil
}

// NewCleaner builds the artifact cleaner from the configured retry policy.
func NewCleaner(cfg *config.Config) *clean.Cleaner {
	return clean.NewCleaner(retry.FromConfig(cfg.Retry), nil)
}
