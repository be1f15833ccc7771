package session

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Watch observes the credential file for rewrites by other processes sharing
// it (e.g. a second CLI instance logging out). When an external change removes
// the token of a previously authenticated session, onExternalLogout runs once
// for that transition. The returned stop function cancels the watch.
func (fs *FileStore) Watch(onExternalLogout func()) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore.Watch] create watcher")
	}
	// Watch the directory: rename-based writes replace the file inode.
	if err := watcher.Add(filepath.Dir(fs.path)); err != nil {
		watcher.Close()
		return nil, errors.Wrap(err, "[FileStore.Watch] watch data folder")
	}

	done := make(chan struct{})
	go func() {
		wasAuthenticated := fs.IsAuthenticated()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(fs.path) {
					continue
				}
				if err := fs.Reload(); err != nil {
					log.Debug().Err(err).Msg("credential file reload failed")
					continue
				}
				nowAuthenticated := fs.IsAuthenticated()
				if wasAuthenticated && !nowAuthenticated {
					log.Debug().Msg("credential file cleared externally")
					onExternalLogout()
				}
				wasAuthenticated = nowAuthenticated
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug().Err(err).Msg("credential file watcher error")
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
