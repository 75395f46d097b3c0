package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/buildprep/internal/patch"
	"git.home.luguber.info/inful/buildprep/internal/watch"
)

// WatchCmd implements the 'watch' command: run preparation once, then re-run
// it whenever the configuration file changes, until interrupted.
type WatchCmd struct {
	VersionString string `arg:"" optional:"" name:"version" help:"Version number to stamp (major.minor.revision)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	if w.VersionString == "" {
		fmt.Println("Usage: buildprep watch <version string>")
		return nil
	}

	v, err := patch.ParseVersion(w.VersionString)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initial run before watching.
	if err := RunPrepare(root.Config, root.Root, v); err != nil {
		return err
	}
	slog.Info("Initial preparation complete, watching for configuration changes")

	cw, err := watch.NewConfigWatcher(root.Config, func(context.Context) error {
		return RunPrepare(root.Config, root.Root, v)
	})
	if err != nil {
		return err
	}

	if err := cw.Start(ctx); err != nil {
		return err
	}
	defer cw.Stop()

	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping watcher")
	return nil
}
