// Package watch reloads a schema file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thenoetrevino/labelschema/internal/loader"
	"github.com/thenoetrevino/labelschema/internal/scheduler"
)

// ReloadFunc receives each successfully parsed version of the file.
type ReloadFunc func(ctx context.Context, src *loader.Source) error

// Options configures the watch behaviour.
type Options struct {
	// Path is the schema file to watch (.json, .yaml or .yml).
	Path string

	// Debounce is the quiet period before reloading.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 300 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run watches opts.Path and calls reload after every settled change. It
// blocks until ctx is cancelled or a SIGINT/SIGTERM signal is received.
// The file is not loaded on start; callers already hold the initial state.
func Run(ctx context.Context, opts Options, reload ReloadFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	abs, err := filepath.Abs(opts.Path)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", opts.Path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so atomic saves (write temp, rename) are seen.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %q: %w", filepath.Dir(abs), err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", opts.Path, opts.Debounce)

	debouncer := scheduler.New(func() {
		doReload(sigCtx, opts, abs, reload)
	})
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, abs) {
				continue
			}

			opts.Logger.Debug("schema file changed", "path", event.Name, "op", event.Op.String())
			debouncer.Schedule(opts.Debounce)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// doReload parses the file and hands it to reload, printing a status line.
func doReload(ctx context.Context, opts Options, path string, reload ReloadFunc) {
	now := time.Now().Format("15:04:05")

	src, err := loader.LoadFile(path)
	if err != nil {
		fmt.Fprintf(opts.Out, "[%s] reload → ERROR: %v\n", now, err)
		return
	}

	if err := reload(ctx, src); err != nil {
		fmt.Fprintf(opts.Out, "[%s] reload → ERROR: %v\n", now, err)
		return
	}

	fmt.Fprintf(opts.Out, "[%s] reload → OK (%d colour schemes, %d groups)\n",
		now, len(src.State.ColourSchemes), len(src.State.Groups))
}

// isRelevant keeps write, create and rename events for the watched file.
func isRelevant(event fsnotify.Event, path string) bool {
	if event.Op == 0 {
		return false
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}

	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == path
}
