package readers

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tensorhvac/hvaccase/casefile"
	"github.com/tensorhvac/hvaccase/mesh"
)

// Snapshot is the state of constant/triSurface after a burst of changes settles
type Snapshot struct {
	Names  []string
	Counts mesh.Counts
	Box    r3.Box
	Err    error // bounding box failure, if any
}

// TakeSnapshot lists, counts and bounds the surface files of the case
func TakeSnapshot(cc *casefile.Context) (s Snapshot) {
	if s.Names, s.Err = SurfaceNames(cc); s.Err != nil {
		return
	}
	s.Counts = DetectCounts(s.Names)
	s.Box, s.Err = BoundingBox(cc)
	return
}

// Watcher reports surface file changes under constant/triSurface. Events are
// debounced so that a copy of many files produces one snapshot.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	cc       *casefile.Context
	dir      string
	debounce time.Duration
	pending  map[string]time.Time
	onChange func(Snapshot)
}

func NewWatcher(cc *casefile.Context, onChange func(Snapshot)) (*Watcher, error) {
	dir, err := casefile.Resolve(cc.CaseRoot, TriSurfaceDir)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		cc:       cc,
		dir:      dir,
		debounce: 300 * time.Millisecond,
		pending:  make(map[string]time.Time),
		onChange: onChange,
	}, nil
}

// Run watches until ctx is cancelled or the event stream closes. It blocks.
func (w *Watcher) Run(ctx context.Context) error {
	log := w.cc.Logger()
	defer w.watcher.Close()
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	log.Info("watching surfaces", zap.String("dir", w.dir))

	tick := time.NewTicker(w.debounce / 3)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("surface watcher", zap.Error(err))
		case now := <-tick.C:
			if w.settled(now) {
				w.onChange(TakeSnapshot(w.cc))
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !IsSurfaceFile(event.Name) {
		return
	}
	var kind string
	switch {
	case event.Op&fsnotify.Create != 0:
		kind = "create"
	case event.Op&fsnotify.Write != 0:
		kind = "modify"
	case event.Op&fsnotify.Remove != 0:
		kind = "delete"
	case event.Op&fsnotify.Rename != 0:
		kind = "rename"
	default:
		return
	}
	w.cc.Logger().Debug("surface event", zap.String("op", kind), zap.String("name", filepath.Base(event.Name)))
	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// settled clears the pending set once its newest event is older than the debounce
func (w *Watcher) settled(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return false
	}
	for _, at := range w.pending {
		if now.Sub(at) < w.debounce {
			return false
		}
	}
	w.pending = make(map[string]time.Time)
	return true
}
