package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_NewFolder_TriggersHandler(t *testing.T) {
	tmpDir := t.TempDir()

	var handlerCalled atomic.Int32
	var handledPath string
	var mu sync.Mutex

	handler := func(path string) {
		mu.Lock()
		handledPath = path
		mu.Unlock()
		handlerCalled.Add(1)
	}

	config := &Config{
		DebounceSeconds: 0, // No debounce for this test
		IgnorePatterns:  []string{},
	}

	w := New(config, handler)
	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	defer w.Stop()

	// Create a new folder in the watched trip root
	newFolder := filepath.Join(tmpDir, "Day 4")
	if err := os.Mkdir(newFolder, 0755); err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}

	// Wait for the event to be processed
	time.Sleep(300 * time.Millisecond)

	if handlerCalled.Load() != 1 {
		t.Errorf("Expected handler to be called once, got %d", handlerCalled.Load())
	}

	mu.Lock()
	if handledPath != newFolder {
		t.Errorf("Expected handled path %s, got %s", newFolder, handledPath)
	}
	mu.Unlock()
}

func TestWatcher_FilesDoNotTriggerHandler(t *testing.T) {
	tmpDir := t.TempDir()

	var handlerCalled atomic.Int32
	handler := func(path string) {
		handlerCalled.Add(1)
	}

	config := &Config{DebounceSeconds: 0}

	w := New(config, handler)
	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	defer w.Stop()

	// A loose photo at the root is not a folder and must be ignored
	photo := filepath.Join(tmpDir, "IMG_0001.jpg")
	if err := os.WriteFile(photo, []byte("jpeg"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	time.Sleep(300 * time.Millisecond)

	if handlerCalled.Load() != 0 {
		t.Errorf("Expected handler NOT to be called for a file, got %d calls", handlerCalled.Load())
	}
}

func TestWatcher_HiddenFoldersIgnored(t *testing.T) {
	tmpDir := t.TempDir()

	var handlerCalled atomic.Int32
	handler := func(path string) {
		handlerCalled.Add(1)
	}

	config := DefaultConfig()
	config.DebounceSeconds = 0

	w := New(config, handler)
	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	hidden := filepath.Join(tmpDir, ".thumbnails")
	if err := os.Mkdir(hidden, 0755); err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}

	time.Sleep(300 * time.Millisecond)

	if handlerCalled.Load() != 0 {
		t.Errorf("Expected handler NOT to be called for hidden folder, got %d calls", handlerCalled.Load())
	}

	summary := w.Stop()
	if summary.FoldersIgnored != 1 {
		t.Errorf("Expected 1 folder ignored, got %d", summary.FoldersIgnored)
	}
}

func TestWatcher_Summary(t *testing.T) {
	tmpDir := t.TempDir()

	handler := func(path string) {}

	config := &Config{DebounceSeconds: 0}

	w := New(config, handler)
	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	for _, name := range []string{"Day 1", "Day 2"} {
		if err := os.Mkdir(filepath.Join(tmpDir, name), 0755); err != nil {
			t.Fatalf("Failed to create folder: %v", err)
		}
	}

	time.Sleep(300 * time.Millisecond)

	summary := w.Stop()
	if summary == nil {
		t.Fatal("Stop returned nil summary")
	}
	if summary.FoldersSeen != 2 {
		t.Errorf("Expected 2 folders seen, got %d", summary.FoldersSeen)
	}
	if summary.Duration <= 0 {
		t.Error("Expected positive session duration")
	}
}

func TestWatcher_Stop_DiscardsPending(t *testing.T) {
	tmpDir := t.TempDir()

	var handlerCalled atomic.Int32
	handler := func(path string) {
		handlerCalled.Add(1)
	}

	// Long debounce so the folder is still pending when we stop
	config := &Config{DebounceSeconds: 5}

	w := New(config, handler)
	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	if err := os.Mkdir(filepath.Join(tmpDir, "Day 1"), 0755); err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	w.Stop()

	if handlerCalled.Load() != 0 {
		t.Errorf("Expected no handler calls after Stop, got %d", handlerCalled.Load())
	}
}

func TestWatcher_IsRunning(t *testing.T) {
	tmpDir := t.TempDir()

	w := New(DefaultConfig(), func(path string) {})

	if w.IsRunning() {
		t.Error("watcher should not be running before Start")
	}

	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	if !w.IsRunning() {
		t.Error("watcher should be running after Start")
	}

	w.Stop()
	if w.IsRunning() {
		t.Error("watcher should not be running after Stop")
	}
}

func TestWatcher_Start_MissingRoot(t *testing.T) {
	w := New(DefaultConfig(), func(path string) {})

	err := w.Start("/nonexistent/trip/root")
	if err == nil {
		t.Error("Expected error starting watcher on missing root")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.DebounceSeconds != 2 {
		t.Errorf("Expected default debounce of 2 seconds, got %d", config.DebounceSeconds)
	}
	if len(config.IgnorePatterns) == 0 {
		t.Error("Expected default ignore patterns")
	}
}
