// Package hotreload watches shader files and hands changed paths to the
// render loop.
//
// The fsnotify goroutine only records paths. The render loop polls Drain (or
// waits on Changed) and recompiles on its own goroutine, which is the only
// one allowed to touch the device.
package hotreload

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/mode777/tgl"
)

// Watcher reports writes to a fixed set of files.
type Watcher struct {
	fs      *fsnotify.Watcher
	files   map[string]bool
	changed chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	log     *slog.Logger

	mu      sync.Mutex
	pending map[string]bool
}

// New watches paths. Their directories are watched rather than the files
// themselves, so editors that save by renaming a temporary file are seen.
func New(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("hotreload: %w", err)
	}
	w := &Watcher{
		fs:      fw,
		files:   make(map[string]bool),
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     tgl.Logger(),
		pending: make(map[string]bool),
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("hotreload: %w", err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("hotreload: watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			w.log.Debug("hotreload: changed", "path", name, "op", event.Op.String())
			w.mu.Lock()
			w.pending[name] = true
			w.mu.Unlock()
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("hotreload: watch error", "err", err)
		}
	}
}

// Changed receives a value after at least one watched file changed since the
// last Drain.
func (w *Watcher) Changed() <-chan struct{} { return w.changed }

// Drain returns the absolute paths changed since the last call, sorted and
// without duplicates. It never blocks.
func (w *Watcher) Drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	out := make([]string, 0, len(w.pending))
	for p := range w.pending {
		out = append(out, p)
	}
	clear(w.pending)
	slices.Sort(out)
	return out
}

// Close stops watching and waits for the event goroutine to exit.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}
