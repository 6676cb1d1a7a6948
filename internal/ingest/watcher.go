package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"snaporder/constants"
)

// WatchConfig controls directory watching for continuously arriving
// screenshots.
type WatchConfig struct {
	Root     string
	Debounce time.Duration // coalesce rapid write/rename bursts
	Logger   *slog.Logger
}

// StartWatcher watches Root recursively and emits screenshot paths as they
// appear or change. Both channels close when ctx ends.
func StartWatcher(ctx context.Context, cfg WatchConfig) (<-chan string, <-chan error, error) {
	if cfg.Root == "" {
		return nil, nil, errors.New("watch root is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	err = filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() && !isHidden(path) {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, nil, err
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() { _ = w.Close() }()

		var timer *time.Timer
		pending := map[string]struct{}{}
		sendPending := func() {
			for p := range pending {
				select {
				case evCh <- p:
				default:
				}
				delete(pending, p)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e := <-w.Events:
				if e.Op&fsnotify.Create != 0 {
					// a new subdirectory needs its own watch; Add on a
					// plain file fails and that is fine
					if addErr := w.Add(e.Name); addErr != nil {
						logger.Debug("ingest.watch.add_skip", "path", e.Name, "error", addErr)
					}
				}
				if constants.IsImageExt(filepath.Ext(e.Name)) &&
					e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
					pending[e.Name] = struct{}{}
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(cfg.Debounce, sendPending)
				}
			case werr := <-w.Errors:
				logger.Error("ingest.watch.error", "error", werr)
				select {
				case errCh <- werr:
				default:
				}
			}
		}
	}()

	logger.Info("ingest.watch.started", "root", cfg.Root, "debounce", cfg.Debounce)
	return evCh, errCh, nil
}
