package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// RunFunc is called with the record path each time edits to it settle.
type RunFunc func(ctx context.Context, path string) error

// Options configures the watch behaviour.
type Options struct {
	// File is the record file to follow.
	File string

	// Debounce is the quiet period before RunFunc is called.
	Debounce time.Duration

	// Logger is used for structured logging. Every entry carries the
	// session id of the Run call.
	Logger *slog.Logger
}

// DefaultOptions returns the default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 300 * time.Millisecond,
		Logger:   slog.Default(),
	}
}

// Run watches opts.File and blocks until ctx is cancelled or SIGINT/SIGTERM
// is received. Errors returned by runFn are logged and do not stop the
// watcher. Run returns only after any in-flight runFn call has finished.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultOptions().Debounce
	}

	target, err := filepath.Abs(opts.File)
	if err != nil {
		return fmt.Errorf("resolving record file %q: %w", opts.File, err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("watching record file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("watching record file: %s is a directory", target)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching directory of %s: %w", target, err)
	}

	logger := opts.Logger.With(slog.String("session", uuid.NewString()))

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("watching record file",
		slog.String("path", target),
		slog.Duration("debounce", opts.Debounce),
	)

	debouncer := NewDebouncer(opts.Debounce, func(path string) {
		if sigCtx.Err() != nil {
			return
		}

		if runErr := runFn(sigCtx, path); runErr != nil {
			logger.Error("reloading record failed", slog.String("error", runErr.Error()))
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			logger.Info("shutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, target) {
				continue
			}

			logger.Debug("record file event", slog.String("op", event.Op.String()))
			debouncer.Trigger(target)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// isRelevant keeps writes and creations of the target file. Removals and
// renames away from the path are skipped; a replacing save shows up as a
// Create of the target afterwards.
func isRelevant(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
