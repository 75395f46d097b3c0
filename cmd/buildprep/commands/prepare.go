package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/buildprep/internal/logfields"
	"git.home.luguber.info/inful/buildprep/internal/patch"
)

// PrepareCmd implements the 'prepare' command: the full validate -> clean ->
// patch flow of the historical build script.
type PrepareCmd struct {
	VersionString string `arg:"" optional:"" name:"version" help:"Version number to stamp (major.minor.revision)"`
}

func (p *PrepareCmd) Run(_ *Global, root *CLI) error {
	if p.VersionString == "" {
		// Missing version argument is a usage no-op, not a failure.
		fmt.Println("Usage: buildprep prepare <version string>")
		return nil
	}

	v, err := patch.ParseVersion(p.VersionString)
	if err != nil {
		return err
	}

	cfg, l, err := ResolveLayout(root.Config, root.Root)
	if err != nil {
		return err
	}

	slog.Info("Starting build preparation",
		logfields.Root(l.Root), logfields.Version(v.String()))

	fmt.Println("Cleaning build output directories ...")
	cleaner := NewCleaner(cfg)
	if err := cleaner.CleanAll(context.Background(), l.Projects); err != nil {
		return err
	}
	fmt.Println("done.")

	fmt.Printf("Setting version %s in project files ...\n", v)
	if err := patch.PatchAll(l.Projects, v); err != nil {
		return err
	}
	fmt.Println("done.")

	return nil
}

// RunPrepare is the programmatic entry point used by the watch command.
func RunPrepare(configPath, rootDir string, v patch.VersionString) error {
	cfg, l, err := ResolveLayout(configPath, rootDir)
	if err != nil {
		return err
	}

	cleaner := NewCleaner(cfg)
	if err := cleaner.CleanAll(context.Background(), l.Projects); err != nil {
		return err
	}
	return patch.PatchAll(l.Projects, v)
}
