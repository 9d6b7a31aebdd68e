package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch reloads settings when the config file is edited outside the app
// (for example by hand or by a sync client) and hands the fresh snapshot
// to onChange. The returned stop function releases the watcher.
//
// Editors replace files with rename/create dances, so events are debounced
// and the file is re-read once things settle.
func Watch(log zerolog.Logger, onChange func(Settings)) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	path := Path()
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}

	done := make(chan struct{})

	go func() {
		var pending *time.Timer
		defer func() {
			if pending != nil {
				pending.Stop()
			}
		}()

		for {
			select {
			case <-done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(200*time.Millisecond, func() {
					s, err := Load()
					if err != nil {
						log.Warn().Err(err).Msg("Config reload failed")
						return
					}
					log.Info().Msg("Config file changed on disk, reloading")
					onChange(s)
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("Config watcher error")
			}
		}
	}()

	return func() {
		close(done)
		w.Close()
	}, nil
}
