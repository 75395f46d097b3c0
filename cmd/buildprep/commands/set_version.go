package commands

import (
	"fmt"

	"git.home.luguber.info/inful/buildprep/internal/patch"
)

// SetVersionCmd implements the 'set-version' command: patch the project files
// without cleaning build output first.
type SetVersionCmd struct {
	VersionString string `arg:"" optional:"" name:"version" help:"Version number to stamp (major.minor.revision)"`
}

func (s *SetVersionCmd) Run(_ *Global, root *CLI) error {
	if s.VersionString == "" {
		fmt.Println("Usage: buildprep set-version <version string>")
		return nil
	}

	v, err := patch.ParseVersion(s.VersionString)
	if err != nil {
		return err
	}

	_, l, err := ResolveLayout(root.Config, root.Root)
	if err != nil {
		return err
	}

	fmt.Printf("Setting version %s in project files ...\n", v)
	if err := patch.PatchAll(l.Projects, v); err != nil {
		return err
	}
	fmt.Println("done.")
	return nil
}
