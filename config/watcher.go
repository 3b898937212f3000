package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch invokes onChange whenever the config file is rewritten. The parent
// directory is watched rather than the file itself so that rename-into-place
// updates are still seen. Blocks until the context is cancelled.
func Watch(ctx context.Context, configFile string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target := filepath.Clean(configFile)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, open := <-w.Events:
			if !open {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				log.Infof("Config file %s changed", target)
				onChange()
			}
		case werr, open := <-w.Errors:
			if !open {
				return nil
			}
			log.Warnf("Config watcher: %v", werr)
		}
	}
}
