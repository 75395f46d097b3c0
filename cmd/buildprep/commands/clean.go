package commands

import (
	"context"
	"fmt"
)

// CleanCmd implements the 'clean' command: artifact cleanup without touching
// the project files.
type CleanCmd struct{}

func (c *CleanCmd) Run(_ *Global, root *CLI) error {
	cfg, l, err := ResolveLayout(root.Config, root.Root)
	if err != nil {
		return err
	}

	fmt.Println("Cleaning build output directories ...")
	cleaner := NewCleaner(cfg)
	if err := cleaner.CleanAll(context.Background(), l.Projects); err != nil {
		return err
	}
	fmt.Println("done.")
	return nil
}
