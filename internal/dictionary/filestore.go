package dictionary

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"resumescan/internal/errors"
)

// reloadDebounce coalesces bursts of filesystem events into one reload.
const reloadDebounce = 500 * time.Millisecond

// FileStore serves dictionaries from a directory of JSON files. Each file
// holds one Dictionary document. The store can watch the directory and reload
// on change, so dictionary updates do not require a restart.
type FileStore struct {
	dir    string
	logger *errors.Logger

	mu    sync.RWMutex
	dicts map[string]*Dictionary

	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	doneChan chan struct{}

	onReload func() // test hook, also drives the reload metric
}

// NewFileStore loads all dictionaries from dir. The directory must exist;
// individual unreadable or malformed files are skipped with a warning.
func NewFileStore(dir string, logger *errors.Logger) (*FileStore, error) {
	fs := &FileStore{
		dir:    dir,
		logger: logger,
	}
	if err := fs.reload(); err != nil {
		return nil, err
	}
	return fs, nil
}

// SetReloadHook registers a callback invoked after every successful reload.
func (fs *FileStore) SetReloadHook(fn func()) {
	fs.onReload = fn
}

func (fs *FileStore) reload() error {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return errors.NewDictionaryError(errors.ErrCodeFileNotReadable,
			"failed to read dictionary directory", err).WithContext("dir", fs.dir)
	}

	dicts := make(map[string]*Dictionary)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(fs.dir, entry.Name())
		d, err := loadDictionaryFile(path)
		if err != nil {
			if fs.logger != nil {
				fs.logger.LogError(err, "Skipping dictionary file", "path", path)
			}
			continue
		}
		dicts[d.ID] = d
	}

	fs.mu.Lock()
	fs.dicts = dicts
	fs.mu.Unlock()

	if fs.logger != nil {
		fs.logger.Debug("Dictionary directory loaded", "dir", fs.dir, "count", len(dicts))
	}
	if fs.onReload != nil {
		fs.onReload()
	}
	return nil
}

func loadDictionaryFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewDictionaryError(errors.ErrCodeFileNotReadable,
			"failed to read dictionary file", err).WithContext("path", path)
	}

	var d Dictionary
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.NewDictionaryError(errors.ErrCodeDictionaryDecode,
			"failed to decode dictionary file", err).WithContext("path", path)
	}

	d.ID = strings.ToLower(strings.TrimSpace(d.ID))
	if d.ID == "" {
		// Fall back to the file name so hand-written files without an
		// explicit id still resolve.
		d.ID = strings.ToLower(strings.TrimSuffix(filepath.Base(path), ".json"))
	}
	return &d, nil
}

func (fs *FileStore) Get(_ context.Context, id string) (*Dictionary, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	d, ok := fs.dicts[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, errors.NewDictionaryError(errors.ErrCodeFileNotFound,
			"dictionary not found", nil).WithContext("dictionary_id", id)
	}
	return d, nil
}

func (fs *FileStore) List(_ context.Context) ([]string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	ids := make([]string, 0, len(fs.dicts))
	for id := range fs.dicts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// StartWatching begins monitoring the dictionary directory and reloads after
// changes settle. Call Stop to shut the watcher down.
func (fs *FileStore) StartWatching() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewDictionaryError("WATCHER_CREATE_FAILED",
			"failed to create dictionary watcher", err)
	}

	if err := watcher.Add(fs.dir); err != nil {
		watcher.Close()
		return errors.NewDictionaryError("WATCHER_ADD_FAILED",
			"failed to watch dictionary directory", err).WithContext("dir", fs.dir)
	}

	fs.watcher = watcher
	fs.stopChan = make(chan struct{})
	fs.doneChan = make(chan struct{})

	go fs.watchLoop()

	if fs.logger != nil {
		fs.logger.Info("Dictionary hot reload enabled", "dir", fs.dir)
	}
	return nil
}

func (fs *FileStore) watchLoop() {
	defer close(fs.doneChan)

	var debounce *time.Timer
	var debounceC <-chan time.Time

	for {
		select {
		case event, ok := <-fs.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(reloadDebounce)
				debounceC = debounce.C
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(reloadDebounce)
			}

		case <-debounceC:
			debounce = nil
			debounceC = nil
			if err := fs.reload(); err != nil && fs.logger != nil {
				fs.logger.LogError(err, "Dictionary reload failed", "dir", fs.dir)
			}

		case err, ok := <-fs.watcher.Errors:
			if !ok {
				return
			}
			if fs.logger != nil {
				fs.logger.Warn("Dictionary watcher error", "error", err.Error())
			}

		case <-fs.stopChan:
			return
		}
	}
}

// Stop shuts down the directory watcher. Safe to call when watching was never
// started.
func (fs *FileStore) Stop() {
	if fs.watcher == nil {
		return
	}
	close(fs.stopChan)
	fs.watcher.Close()
	<-fs.doneChan
	fs.watcher = nil
}
