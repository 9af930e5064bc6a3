package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config contains watcher settings.
type Config struct {
	DebounceSeconds int      // Delay before a new folder is reported (default: 2)
	IgnorePatterns  []string // Glob patterns for folders to ignore
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DebounceSeconds: 2,
		IgnorePatterns:  DefaultIgnorePatterns(),
	}
}

// Summary contains stats from one watch session.
type Summary struct {
	FoldersSeen    int
	FoldersIgnored int
	Duration       time.Duration
}

// FolderHandler is invoked with the path of a newly created folder once its
// debounce delay has expired.
type FolderHandler func(path string)

// Watcher monitors a trip root for newly created subfolders.
type Watcher struct {
	config    *Config
	handler   FolderHandler
	fsWatcher *fsnotify.Watcher
	filter    *FolderFilter
	debouncer *Debouncer
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	mu             sync.Mutex
	foldersSeen    int
	foldersIgnored int
}

// New creates a new Watcher with the given configuration.
// If config is nil, default configuration is used.
func New(config *Config, handler FolderHandler) *Watcher {
	if config == nil {
		config = DefaultConfig()
	}
	w := &Watcher{
		config:  config,
		handler: handler,
		filter:  NewFolderFilter(config.IgnorePatterns),
		done:    make(chan struct{}),
	}
	w.debouncer = NewDebouncer(time.Duration(config.DebounceSeconds)*time.Second, w.reportFolder)
	return w
}

// Start begins watching the trip root for new subfolders.
// The watcher runs until Stop is called.
func (w *Watcher) Start(root string) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		w.fsWatcher.Close()
		return err
	}
	if err := w.fsWatcher.Add(absRoot); err != nil {
		w.fsWatcher.Close()
		return err
	}

	w.startTime = time.Now()
	w.done = make(chan struct{})

	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop gracefully shuts down the watcher and returns a summary of the
// session. Pending debounced folders are discarded.
func (w *Watcher) Stop() *Summary {
	close(w.done)
	w.wg.Wait()
	w.debouncer.CancelAll()

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return &Summary{
		FoldersSeen:    w.foldersSeen,
		FoldersIgnored: w.foldersIgnored,
		Duration:       time.Since(w.startTime),
	}
}

// processEvents handles file system events from fsnotify.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// Only newly created directories matter; photo files arriving
			// inside them reset nothing because the root watch is shallow.
			if event.Op&fsnotify.Create == fsnotify.Create {
				w.handleCreate(event.Name)
			}
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// handleCreate filters and debounces one create event.
func (w *Watcher) handleCreate(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	if w.filter.ShouldIgnore(path) {
		w.mu.Lock()
		w.foldersIgnored++
		w.mu.Unlock()
		return
	}

	w.debouncer.Add(path)
}

// reportFolder invokes the handler once a folder's debounce delay expires.
func (w *Watcher) reportFolder(path string) {
	w.mu.Lock()
	w.foldersSeen++
	w.mu.Unlock()

	if w.handler != nil {
		w.handler(path)
	}
}

// IsRunning returns true if the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	select {
	case <-w.done:
		return false
	default:
		return w.fsWatcher != nil
	}
}
