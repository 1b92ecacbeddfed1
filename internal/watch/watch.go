package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/alexiszott/GL02-Projet-Fork/internal/catalog"
	"github.com/alexiszott/GL02-Projet-Fork/internal/crawler"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long a file must stay quiet before it is reparsed.
const DefaultDelay = 300 * time.Millisecond

// Handlers receive the outcome of settled file events.
type Handlers struct {
	OnDocument func(*catalog.Document)
	OnRemove   func(path string)
}

// Watcher reparses CRU files under a directory tree as they change.
type Watcher struct {
	crawler *crawler.Crawler
	delay   time.Duration
	logger  *log.Logger
}

// NewWatcher creates a watcher that selects and parses files with c.
func NewWatcher(c *crawler.Crawler) *Watcher {
	return &Watcher{crawler: c, delay: DefaultDelay, logger: log.Default()}
}

// SetDelay changes the debounce delay.
func (w *Watcher) SetDelay(d time.Duration) {
	if d > 0 {
		w.delay = d
	}
}

// SetLogger replaces the logger used for watcher errors.
func (w *Watcher) SetLogger(l *log.Logger) {
	if l != nil {
		w.logger = l
	}
}

// Run watches root until ctx is cancelled. Bursts of events on the same
// path collapse into a single callback once the path has been quiet for
// the debounce delay.
func (w *Watcher) Run(ctx context.Context, root string, h Handlers) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, root); err != nil {
		return err
	}

	settled := make(chan string)
	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			// New directories are watched as they appear
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fsw, event.Name); err != nil {
						w.logger.Printf("⚠️ %v", err)
					}
					continue
				}
			}

			if !w.crawler.Matches(event.Name) {
				continue
			}

			name := event.Name
			if t, ok := pending[name]; ok {
				t.Reset(w.delay)
				continue
			}
			pending[name] = time.AfterFunc(w.delay, func() {
				select {
				case settled <- name:
				case <-ctx.Done():
				}
			})

		case name := <-settled:
			delete(pending, name)
			w.handle(name, h)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("⚠️ Watcher error: %v", err)
		}
	}
}

// handle reparses path, or reports it removed when it no longer exists.
func (w *Watcher) handle(path string, h Handlers) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if h.OnRemove != nil {
			h.OnRemove(path)
		}
		return
	}

	doc, err := w.crawler.ParseFile(path)
	if err != nil {
		w.logger.Printf("⚠️ Skipping %s: %v", path, err)
		return
	}
	if h.OnDocument != nil {
		h.OnDocument(doc)
	}
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (d.Name() == ".git" || d.Name() == "vendor" || d.Name() == "node_modules") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
