// Package clean removes build-output directories ahead of a rebuild.
//
// The owning IDE can briefly hold a lock on bin/obj after a build, and it
// can regenerate the directories shortly after they were removed, so removal
// runs in two passes separated by a delay. A failed sweep is additionally
// repeated per the configured retry policy before the failure is treated as
// fatal.
package clean

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"os"

	bperrors "git.home.luguber.info/inful/buildprep/internal/errors"
	"git.home.luguber.info/inful/buildprep/internal/layout"
	"git.home.luguber.info/inful/buildprep/internal/logfields"
	"git.home.luguber.info/inful/buildprep/internal/retry"
)

// Cleaner removes artifact directories with retry on locked paths.
type Cleaner struct {
	policy retry.Policy
	sleep  retry.SleepFunc
}

// NewCleaner creates a cleaner with the given retry policy. A nil sleep
// function uses the real clock; tests inject their own.
func NewCleaner(policy retry.Policy, sleep retry.SleepFunc) *Cleaner {
	return &Cleaner{policy: policy, sleep: sleep}
}

// CleanAll sweeps the artifact directories of every project twice: once up
// front, and once more after the first backoff delay. The second pass is
// unconditional because the IDE can regenerate the directories moments after
// a successful sweep. Each pass is a full sweep across all targets and is
// repeated per the retry policy when it reports a failure.
func (c *Cleaner) CleanAll(ctx context.Context, projects []layout.ProjectPaths) error {
	sleep := c.sleep
	if sleep == nil {
		sleep = retry.Sleep
	}

	pass := 0
	run := func() error {
		pass++
		if pass > 1 {
			slog.Info("Running cleanup sweep again", logfields.Attempt(pass))
		}
		return sweep(projects)
	}

	if err := c.policy.Do(ctx, sleep, run); err != nil {
		return err
	}

	delay := c.policy.Delay(1)
	slog.Debug("Waiting before verification sweep", logfields.Delay(delay.String()))
	if err := sleep(ctx, delay); err != nil {
		return err
	}
	return c.policy.Do(ctx, sleep, run)
}

// CleanProject sweeps a single project's artifact directories once, without retry.
func (c *Cleaner) CleanProject(project layout.ProjectPaths) error {
	return sweepProject(project)
}

// sweep removes every existing artifact directory across all projects.
// The sweep continues past individual failures so one locked directory does
// not leave the others dirty; all failures are reported together.
func sweep(projects []layout.ProjectPaths) error {
	var errs []error
	for _, project := range projects {
		if err := sweepProject(project); err != nil {
			errs = append(errs, err)
		}
	}
	return stdErrors.Join(errs...)
}

func sweepProject(project layout.ProjectPaths) error {
	var errs []error
	for _, dir := range project.ArtifactDirs {
		if err := removeDir(dir); err != nil {
			errs = append(errs, bperrors.CleanupError(dir, err))
			continue
		}
		slog.Debug("Artifact directory clean", logfields.Project(project.Name), logfields.Path(dir))
	}
	return stdErrors.Join(errs...)
}

// removeDir deletes path recursively. A path that is already gone counts as
// success; a path that exists but is not a directory is an error, never a
// removal target.
func removeDir(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory")
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove: %w", err)
	}
	return nil
}
