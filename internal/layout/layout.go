// Package layout anchors the run to the expected repository root and derives
// the absolute paths the cleaner and patcher operate on.
//
// All paths are resolved once, up front, so the preparation steps receive
// explicit path sets instead of re-deriving locations from global state.
package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/buildprep/internal/config"
	"git.home.luguber.info/inful/buildprep/internal/errors"
)

// ProjectPaths holds the resolved absolute paths for one project.
type ProjectPaths struct {
	Name         string
	Root         string   // absolute project directory
	ProjectFile  string   // absolute path to the project configuration file
	ArtifactDirs []string // absolute paths to the build-output directories
}

// Layout is the resolved path set for a whole run.
type Layout struct {
	Root     string // absolute repository root
	Projects []ProjectPaths
}

// Locate resolves startDir to an absolute path and verifies its base name
// equals the configured anchor. Nothing may touch the filesystem before this
// check passes.
func Locate(startDir, anchor string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.InternalError("failed to resolve working directory", err)
	}

	// Resolve symlinks so the anchor check sees the real directory name.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	if filepath.Base(abs) != anchor {
		return "", errors.WrongRepositoryRoot(abs, anchor)
	}
	return abs, nil
}

// LocateWorkingDir is Locate applied to the current working directory.
func LocateWorkingDir(anchor string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.InternalError("failed to get current directory", err)
	}
	return Locate(cwd, anchor)
}

// Resolve derives the absolute path set for every configured project under root.
func Resolve(cfg *config.Config, root string) (*Layout, error) {
	if !filepath.IsAbs(root) {
		return nil, fmt.Errorf("repository root must be absolute: %s", root)
	}

	l := &Layout{Root: root}
	for _, p := range cfg.Projects {
		projectRoot := filepath.Join(root, filepath.FromSlash(p.Dir))

		paths := ProjectPaths{
			Name:        p.Name,
			Root:        projectRoot,
			ProjectFile: filepath.Join(projectRoot, filepath.FromSlash(p.ProjectFile)),
		}
		for _, dir := range cfg.ArtifactDirs {
			paths.ArtifactDirs = append(paths.ArtifactDirs, filepath.Join(projectRoot, dir))
		}
		l.Projects = append(l.Projects, paths)
	}
	return l, nil
}
