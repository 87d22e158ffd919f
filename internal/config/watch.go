package config

import (
	"os"
	"sync"
	"time"
)

// DefaultWatchInterval is how often PrefsWatcher polls the preferences file.
const DefaultWatchInterval = time.Second

// PrefsWatcher polls a preferences file and reloads it when its modification
// time moves forward, so tolerances can be tuned by editing the file while the
// tracker runs.
type PrefsWatcher struct {
	path          string
	checkInterval time.Duration
	onChange      func(*Prefs) // Called from the watcher goroutine
	onError       func(error)

	mu       sync.Mutex
	lastMod  time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPrefsWatcher creates a watcher for path. The current modification time is
// the baseline; a file that does not exist yet counts as changed once created.
func NewPrefsWatcher(path string, checkInterval time.Duration, onChange func(*Prefs)) *PrefsWatcher {
	if checkInterval <= 0 {
		checkInterval = DefaultWatchInterval
	}
	w := &PrefsWatcher{
		path:          path,
		checkInterval: checkInterval,
		onChange:      onChange,
		stopCh:        make(chan struct{}),
	}
	w.ResetBaseline()
	return w
}

// OnError sets a callback for files that changed but could not be parsed.
func (w *PrefsWatcher) OnError(callback func(error)) {
	w.onError = callback
}

// Start begins polling in a background goroutine.
func (w *PrefsWatcher) Start() {
	go w.watchLoop()
}

// Stop stops the watcher goroutine. It is safe to call more than once.
func (w *PrefsWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *PrefsWatcher) watchLoop() {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check reloads the file if it changed since the last check and reports
// whether onChange was called.
func (w *PrefsWatcher) Check() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	changed := info.ModTime().After(w.lastMod)
	if changed {
		w.lastMod = info.ModTime()
	}
	w.mu.Unlock()
	if !changed {
		return false
	}

	prefs, err := LoadPrefs(w.path)
	if err != nil {
		if w.onError != nil {
			w.onError(err)
		}
		return false
	}
	if w.onChange != nil {
		w.onChange(prefs)
	}
	return true
}

// ResetBaseline takes the file's current modification time as unchanged. Call
// it after writing the file yourself.
func (w *PrefsWatcher) ResetBaseline() {
	var mod time.Time
	if info, err := os.Stat(w.path); err == nil {
		mod = info.ModTime()
	}
	w.mu.Lock()
	w.lastMod = mod
	w.mu.Unlock()
}
