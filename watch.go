package blogster

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/eringen/blogster/logger"
)

// Watcher invalidates a PostCache when Markdown files in the posts
// directory change outside the app.
type Watcher struct {
	w     *fsnotify.Watcher
	cache *PostCache
	log   *logger.Logger
	done  chan struct{}
}

// WatchPosts starts watching dir. Call Close to stop.
func WatchPosts(dir string, cache *PostCache, log *logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.Nop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w := &Watcher{w: fw, cache: cache, log: log, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	const changed = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			if event.Op&changed == 0 || !strings.EqualFold(filepath.Ext(event.Name), postExt) {
				continue
			}
			w.log.Debugw("posts directory changed", "file", event.Name, "op", event.Op.String())
			w.cache.Invalidate()
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Warnw("watcher error", "err", err)
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.w.Close()
	<-w.done
	return err
}
