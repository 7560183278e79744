package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ValentinKolb/uKV/lib/kv"
	"github.com/ValentinKolb/uKV/lib/logger"
	"github.com/fsnotify/fsnotify"
)

var log = logger.GetLogger("kv/fs")

// --------------------------------------------------------------------------
// Core filesystem driver structure
// --------------------------------------------------------------------------

// fsImpl implements a driver that persists every key as a file below a
// root directory. The key separator maps directly to the path separator.
type fsImpl struct {
	root string // absolute root directory

	// native watch support (started lazily on first Watch call)
	watchOnce sync.Once
	watcher   *fsnotify.Watcher
	watchMu   sync.RWMutex
	listeners []kv.WatchFunc
	done      chan struct{}
}

// NewFSDriver creates a new filesystem driver rooted at the given directory.
// The directory is created if it does not exist.
//
// Thread-safety: The returned driver is safe for concurrent use.
func NewFSDriver(root string) (kv.Driver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %v", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create root %q: %v", abs, err)
	}

	return &fsImpl{
		root: abs,
		done: make(chan struct{}),
	}, nil
}

// --------------------------------------------------------------------------
// Path Helpers
// --------------------------------------------------------------------------

// path converts a relative key or base to an absolute path below root.
// Keys containing parent-directory segments are rejected so a hostile key
// can never escape the root directory.
func (f *fsImpl) path(key string) (string, error) {
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", fmt.Errorf("invalid key %q: path traversal", key)
		}
	}
	return filepath.Join(f.root, filepath.FromSlash(key)), nil
}

// relKey converts an absolute path back to a slash-separated relative key
func (f *fsImpl) relKey(path string) (string, bool) {
	rel, err := filepath.Rel(f.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// --------------------------------------------------------------------------
// Query Operations
// --------------------------------------------------------------------------

func (f *fsImpl) Has(key string) (bool, error) {
	path, err := f.path(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (f *fsImpl) Get(key string) ([]byte, bool, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, false, err
	}

	value, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (f *fsImpl) Keys(base string) ([]string, error) {
	dir, err := f.path(base)
	if err != nil {
		return nil, err
	}

	var keys []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil // base directory vanished or never existed
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if key, ok := f.relKey(path); ok {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

func (f *fsImpl) Set(key string, value []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, value, 0o644)
}

func (f *fsImpl) Remove(key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *fsImpl) Clear(base string) error {
	dir, err := f.path(base)
	if err != nil {
		return err
	}

	if base != "" {
		if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	// clearing the whole key space removes the root's children, not the
	// root itself (it may be watched)
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(f.root, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Metadata and Notifications
// --------------------------------------------------------------------------

// Meta returns file attributes as the native metadata record.
func (f *fsImpl) Meta(key string) (map[string]interface{}, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"mtime": info.ModTime(),
		"size":  info.Size(),
	}, nil
}

func (f *fsImpl) Watch(fn kv.WatchFunc) error {
	var startErr error
	f.watchOnce.Do(func() { startErr = f.startWatch() })
	if startErr != nil {
		return startErr
	}

	f.watchMu.Lock()
	defer f.watchMu.Unlock()
	f.listeners = append(f.listeners, fn)
	return nil
}

// startWatch sets up the fsnotify watcher for the root directory and all
// directories below it, then starts the event translation loop.
// fsnotify watches are not recursive: newly created directories are added
// to the watcher as their create events arrive.
func (f *fsImpl) startWatch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %v", err)
	}
	f.watcher = watcher

	// watch every existing directory
	err = filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = watcher.Close()
		f.watcher = nil
		return fmt.Errorf("failed to watch %q: %v", f.root, err)
	}

	go f.watchLoop()
	return nil
}

// watchLoop translates fsnotify events into driver change events
func (f *fsImpl) watchLoop() {
	for {
		select {
		case <-f.done:
			return

		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			f.handleEvent(event)

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("watch error below %s: %v", f.root, err)
		}
	}
}

func (f *fsImpl) handleEvent(event fsnotify.Event) {
	key, ok := f.relKey(event.Name)
	if !ok {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			// recurse into new directories
			if err := f.watcher.Add(event.Name); err != nil {
				log.Warnf("failed to watch new directory %s: %v", event.Name, err)
			}
			return
		}
		f.notify(kv.EventUpdate, key)

	case event.Op.Has(fsnotify.Write):
		f.notify(kv.EventUpdate, key)

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		f.notify(kv.EventRemove, key)
	}
}

// notify invokes all registered watch callbacks in registration order
func (f *fsImpl) notify(event kv.EventType, key string) {
	f.watchMu.RLock()
	defer f.watchMu.RUnlock()
	for _, fn := range f.listeners {
		fn(event, key)
	}
}

// --------------------------------------------------------------------------
// Lifecycle and Feature Support
// --------------------------------------------------------------------------

func (f *fsImpl) Dispose() error {
	close(f.done)
	if f.watcher != nil {
		return f.watcher.Close()
	}
	return nil
}

// SupportsFeature checks if this implementation supports a specific feature
func (f *fsImpl) SupportsFeature(feature kv.Feature) bool {
	supportedFeatures := kv.FeatureHas |
		kv.FeatureGet |
		kv.FeatureKeys |
		kv.FeatureSet |
		kv.FeatureRemove |
		kv.FeatureClear |
		kv.FeatureMeta |
		kv.FeatureWatch |
		kv.FeatureDispose
	return supportedFeatures&feature == feature
}

// GetInfo returns information about the driver
func (f *fsImpl) GetInfo() kv.DriverInfo {
	return kv.DriverInfo{
		Name: kv.ImplFS,
		SupportedFeatures: []kv.Feature{
			kv.FeatureHas, kv.FeatureGet, kv.FeatureKeys,
			kv.FeatureSet, kv.FeatureRemove, kv.FeatureClear,
			kv.FeatureMeta, kv.FeatureWatch, kv.FeatureDispose,
		},
		Metadata: &struct {
			Root string `json:"root"`
		}{
			Root: f.root,
		},
	}
}
