package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk. Editors that
// replace the file on save are handled by watching the parent directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string

	// Reloads delivers each successfully parsed revision of the file.
	Reloads chan *File
	// Errors delivers read, parse and watch failures. The previous revision
	// stays in effect.
	Errors chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		path:    abs,
		Reloads: make(chan *File, 4),
		Errors:  make(chan error, 4),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		close(w.Reloads)
		close(w.Errors)
		close(w.done)
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Saves arrive as bursts of events; load once the burst settles.
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			f, err := Load(w.path)
			if err != nil {
				w.send(w.Errors, err)
				continue
			}
			w.sendFile(f)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(w.Errors, err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) send(ch chan error, err error) {
	select {
	case ch <- err:
	case <-w.closeCh:
	}
}

func (w *Watcher) sendFile(f *File) {
	select {
	case w.Reloads <- f:
	case <-w.closeCh:
	}
}
