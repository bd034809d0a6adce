package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/mandible/logger"
)

type ChangeKind int

const (
	SpecChanged ChangeKind = iota
	ScriptChanged
)

func (k ChangeKind) String() string {
	if k == ScriptChanged {
		return "script"
	}
	return "spec"
}

// Change is a debounced edit to a template or script file.
type Change struct {
	Path string
	Kind ChangeKind
}

const defaultDebounce = 100 * time.Millisecond

// Watcher reports template and script edits under a set of directories.
// Its goroutine only writes to the channels; consumers drain them from the
// frame loop.
type Watcher struct {
	watcher  *fsnotify.Watcher
	log      *logrus.Entry
	debounce time.Duration

	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher:  w,
		log:      logger.For("prefabs"),
		debounce: defaultDebounce,
		Events:   make(chan Change, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Drain returns every pending change without blocking. Repeated edits of
// one file collapse into a single entry.
func (w *Watcher) Drain() []Change {
	var out []Change
	seen := make(map[string]bool)
	for {
		select {
		case c, ok := <-w.Events:
			if !ok {
				return out
			}
			if seen[c.Path] {
				continue
			}
			seen[c.Path] = true
			out = append(out, c)
		default:
			return out
		}
	}
}

func (w *Watcher) run() {
	defer close(w.done)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, ok := classify(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			w.log.WithFields(logrus.Fields{"path": event.Name, "kind": kind}).Debug("file changed")
			select {
			case w.Events <- Change{Path: event.Name, Kind: kind}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				w.log.WithError(err).Warn("dropped watcher error")
			}
		case <-w.closeCh:
			return
		}
	}
}

func classify(path string) (ChangeKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SpecChanged, true
	case ".tengo":
		return ScriptChanged, true
	default:
		return 0, false
	}
}
