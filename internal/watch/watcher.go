// Package watch re-runs build preparation whenever the configuration file
// changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/buildprep/internal/logfields"
)

// ConfigWatcher monitors configuration file changes and triggers a re-run.
type ConfigWatcher struct {
	configPath   string
	onChange     func(ctx context.Context) error
	watcher      *fsnotify.Watcher
	mu           sync.RWMutex
	stopChan     chan struct{}
	rerunChan    chan struct{}
	debounceTime time.Duration
}

// NewConfigWatcher creates a new configuration file watcher. onChange is
// invoked, debounced, after each write to the config file.
func NewConfigWatcher(configPath string, onChange func(ctx context.Context) error) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Resolve absolute path for consistent watching
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	return &ConfigWatcher{
		configPath:   absPath,
		onChange:     onChange,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		rerunChan:    make(chan struct{}, 1),
		debounceTime: 2 * time.Second, // Debounce rapid file changes
	}, nil
}

// Start begins monitoring the configuration file
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	// Watch the directory containing the config file (more reliable than watching the file directly)
	configDir := filepath.Dir(cw.configPath)
	if err := cw.watcher.Add(configDir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", configDir, err)
	}

	slog.Info("Starting configuration watcher", logfields.Path(cw.configPath))

	// Start the watcher goroutines
	go cw.watchLoop(ctx)
	go cw.rerunLoop(ctx)

	return nil
}

// Stop stops the configuration watcher
func (cw *ConfigWatcher) Stop() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	slog.Info("Stopping configuration watcher")

	// Signal stop to all goroutines
	close(cw.stopChan)

	// Close the file system watcher
	if cw.watcher != nil {
		if err := cw.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}

	return nil
}

// watchLoop monitors file system events
func (cw *ConfigWatcher) watchLoop(ctx context.Context) {
	configFile := filepath.Base(cw.configPath)

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}

			// Only process events for our config file
			if filepath.Base(event.Name) != configFile {
				continue
			}

			// Handle different types of file events
			if event.Op&fsnotify.Write == fsnotify.Write {
				slog.Debug("Config file write detected", logfields.File(event.Name))
				cw.triggerRerun()
			} else if event.Op&fsnotify.Create == fsnotify.Create {
				slog.Debug("Config file create detected", logfields.File(event.Name))
				cw.triggerRerun()
			} else if event.Op&fsnotify.Remove == fsnotify.Remove {
				slog.Warn("Config file removed", logfields.File(event.Name))
			} else if event.Op&fsnotify.Rename == fsnotify.Rename {
				slog.Debug("Config file rename detected", logfields.File(event.Name))
				cw.triggerRerun()
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Config watcher error", logfields.Error(err))
		}
	}
}

// rerunLoop handles debounced preparation re-runs
func (cw *ConfigWatcher) rerunLoop(ctx context.Context) {
	var rerunTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if rerunTimer != nil {
				rerunTimer.Stop()
			}
			return
		case <-cw.stopChan:
			if rerunTimer != nil {
				rerunTimer.Stop()
			}
			return
		case <-cw.rerunChan:
			// Reset/start debounce timer
			if rerunTimer != nil {
				rerunTimer.Stop()
			}
			rerunTimer = time.AfterFunc(cw.debounceTime, func() {
				if err := cw.performRerun(ctx); err != nil {
					slog.Error("Preparation re-run failed", logfields.Error(err))
				}
			})
		}
	}
}

// triggerRerun triggers a debounced preparation re-run
func (cw *ConfigWatcher) triggerRerun() {
	select {
	case cw.rerunChan <- struct{}{}:
		// Re-run triggered
	default:
		// Re-run already pending
	}
}

// performRerun invokes the change callback
func (cw *ConfigWatcher) performRerun(ctx context.Context) error {
	slog.Info("Configuration changed, re-running preparation", logfields.Path(cw.configPath))

	if err := cw.onChange(ctx); err != nil {
		return err
	}

	slog.Info("Preparation re-run completed")
	return nil
}

// SetDebounce overrides the debounce interval. Tests shorten it.
func (cw *ConfigWatcher) SetDebounce(d time.Duration) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.debounceTime = d
}
