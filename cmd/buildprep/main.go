package main

import (
	"fmt"
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/buildprep/cmd/buildprep/commands"
	bperrors "git.home.luguber.info/inful/buildprep/internal/errors"
	"git.home.luguber.info/inful/buildprep/internal/version"
)

func main() {
	var cli commands.CLI

	ctx := kong.Parse(&cli,
		kong.Name("buildprep"),
		kong.Description("Prepare the Color Selector repository for a release build: remove stale build output and stamp the version number into the project files."),
		kong.Vars{
			"version": fmt.Sprintf("buildprep %s (built %s, commit %s)", version.Version, version.BuildTime, version.GitCommit),
		},
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := ctx.Run(global, &cli); err != nil {
		adapter := bperrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		adapter.HandleError(err)
	}
}
