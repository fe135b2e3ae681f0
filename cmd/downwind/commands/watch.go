package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/feli0x/Downwind/internal/logger"
	"github.com/feli0x/Downwind/pkg/cleaner"
	"github.com/feli0x/Downwind/pkg/stripper"
)

func newWatchCmd(a *app) *cobra.Command {
	var categories []string

	cmd := &cobra.Command{
		Use:   "watch file...",
		Short: "Strip class tokens whenever watched files change",
		Long: `Watch rewrites each file as soon as it is saved, removing the given
categories. Files are only written when something was removed, so the
watcher's own writes settle after one pass. Stop with Ctrl-C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.categories(categories)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return a.watch(ctx, cmd, args, a.cleanerFor(cats))
		},
	}

	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "category to remove: typography, layout, styling, all (repeatable)")
	return cmd
}

// cleanerFor builds a cleaner applying the categories in order. cats is
// never empty: categories rejects an empty list.
func (a *app) cleanerFor(cats []stripper.Category) cleaner.Cleaner {
	if len(cats) == 1 {
		return a.stripper.ForCategory(cats[0])
	}
	cleaners := make([]cleaner.Cleaner, len(cats))
	for i, cat := range cats {
		cleaners[i] = a.stripper.ForCategory(cat)
	}
	return cleaner.NewChain(cleaners...)
}

// watch cleans every file once, then again on each write until ctx is done.
func (a *app) watch(ctx context.Context, cmd *cobra.Command, files []string, c cleaner.Cleaner) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch parent directories: many editors save by renaming a temp file
	// over the original, which drops a watch on the file itself.
	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", f, err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watching %s: %w", dir, err)
			}
			dirs[dir] = true
		}
		if _, err := a.cleanFile(cmd, abs, c); err != nil {
			return err
		}
	}

	logger.Info("watching", "files", len(watched), "cleaner", c.Name())

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[ev.Name] || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if _, err := a.cleanFile(cmd, ev.Name, c); err != nil {
				logger.Error("clean failed", "file", ev.Name, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// cleanFile runs c over a file and rewrites it when the content changed.
func (a *app) cleanFile(cmd *cobra.Command, name string, c cleaner.Cleaner) (bool, error) {
	log := logger.With("file", name)
	src, err := readSource(nil, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("file gone, skipping")
			return false, nil
		}
		return false, err
	}

	out, err := c.Clean(src.Text)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	if out == src.Text {
		log.Debug("no change")
		return false, nil
	}
	if err := writeFile(name, src.Mode, out); err != nil {
		return false, err
	}
	a.logInfo(cmd.ErrOrStderr(), "%s: removed classes (%s)", name, c.Name())
	return true, nil
}
