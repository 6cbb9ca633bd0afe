package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// maxWatchedDirectories bounds how many directories a single workspace
// watcher will add, so a pathological tree can't exhaust inotify handles.
const maxWatchedDirectories = 4000

// fileWatcher implements Watcher using fsnotify, recursively adding every
// non-ignored directory under root.
type fileWatcher struct {
	root   string
	ignore *ignorePredicate
	logger *log.Logger

	fsw      *fsnotify.Watcher
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once

	dirCount int
}

// New returns a Watcher rooted at root. stateDirName is excluded from
// watching (it holds the engine's own persisted state); userIgnorePatterns
// are appended to the fixed ignore list of spec.md §4.8.
func New(root, stateDirName string, userIgnorePatterns []string, logger *log.Logger) (Watcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &fileWatcher{
		root:   root,
		ignore: newIgnorePredicate(stateDirName, userIgnorePatterns),
		logger: logger,
		fsw:    fsw,
		done:   make(chan struct{}),
	}, nil
}

func (fw *fileWatcher) Start(ctx context.Context, onChange func(Event), onNotify func(Event)) error {
	if err := fw.addRecursively(fw.root); err != nil {
		return fmt.Errorf("watch %s: %w", fw.root, err)
	}

	fw.ctx, fw.cancel = context.WithCancel(ctx)
	go fw.run(onChange, onNotify)
	return nil
}

func (fw *fileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			fw.cancel()
			<-fw.done
		} else {
			close(fw.done)
		}
		err = fw.fsw.Close()
	})
	return err
}

func (fw *fileWatcher) run(onChange func(Event), onNotify func(Event)) {
	defer close(fw.done)
	for {
		select {
		case <-fw.ctx.Done():
			return
		case ev, ok := <-fw.fsw.Events:
			if !ok {
				return
			}
			fw.handleRaw(ev, onChange, onNotify)
		case err, ok := <-fw.fsw.Errors:
			if !ok {
				return
			}
			fw.logger.Printf("watcher: error: %v", err)
		}
	}
}

func (fw *fileWatcher) handleRaw(raw fsnotify.Event, onChange func(Event), onNotify func(Event)) {
	if raw.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(raw.Name); err == nil && info.IsDir() {
			if !fw.ignore.ShouldIgnoreDir(filepath.Base(raw.Name)) {
				if err := fw.addRecursively(raw.Name); err != nil {
					fw.logger.Printf("watcher: failed to watch new directory %s: %v", raw.Name, err)
				}
			}
			return
		}
	}

	evType, ok := classify(raw.Op)
	if !ok {
		return
	}
	if fw.ignore.ShouldIgnoreFile(raw.Name) {
		return
	}

	event := Event{Type: evType, Path: raw.Name, Timestamp: time.Now()}
	if onChange != nil {
		onChange(event)
	}
	if onNotify != nil {
		onNotify(event)
	}
}

func classify(op fsnotify.Op) (EventType, bool) {
	switch {
	case op&fsnotify.Remove != 0 || op&fsnotify.Rename != 0:
		return EventDelete, true
	case op&fsnotify.Create != 0:
		return EventCreate, true
	case op&fsnotify.Write != 0:
		return EventUpdate, true
	default:
		return "", false
	}
}

func (fw *fileWatcher) addRecursively(dir string) error {
	base := filepath.Base(dir)
	if dir != fw.root && fw.ignore.ShouldIgnoreDir(base) {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	if fw.dirCount >= maxWatchedDirectories {
		return fmt.Errorf("directory limit reached: %d", maxWatchedDirectories)
	}
	if err := fw.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	fw.dirCount++

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if fw.ignore.ShouldIgnoreDir(entry.Name()) {
			continue
		}
		sub := filepath.Join(dir, entry.Name())
		if err := fw.addRecursively(sub); err != nil {
			fw.logger.Printf("watcher: %v", err)
		}
	}
	return nil
}
