package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNoTemplateDir is returned by Watch when the renderer reads only the
// embedded bundle.
var ErrNoTemplateDir = errors.New("vanilla renderer: no template directory configured")

const reloadDebounce = 100 * time.Millisecond

// Watch reloads templates whenever a file under the template directory
// changes. It blocks until ctx is done.
func (r *Renderer) Watch(ctx context.Context) error {
	if r.templateDir == "" {
		return ErrNoTemplateDir
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("vanilla renderer: create watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(r.templateDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("vanilla renderer: watch %s: %w", r.templateDir, err)
	}
	r.logger.Info("watching templates", slog.String("dir", r.templateDir))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = time.After(reloadDebounce)
			}
		case <-pending:
			pending = nil
			r.Reload()
			r.logger.Debug("templates reloaded", slog.String("dir", r.templateDir))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("template watcher error", slog.String("error", err.Error()))
		}
	}
}
