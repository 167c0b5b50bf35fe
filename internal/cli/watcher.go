package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/pipeline"
)

// reloadDebounce coalesces the burst of events editors emit on save.
const reloadDebounce = 100 * time.Millisecond

// graphWatcher reloads a graph file whenever it changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors which save by renaming a temp file over the original keep
// triggering reloads.
type graphWatcher struct {
	path     string
	debounce time.Duration
	logger   *log.Logger
	reload   func(graph.Graph)
	fs       *fsnotify.Watcher
}

// newGraphWatcher starts watching path's directory. Call Run to deliver
// reloads and Close when done.
func newGraphWatcher(path string, logger *log.Logger, reload func(graph.Graph)) (*graphWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	return &graphWatcher{
		path:     abs,
		debounce: reloadDebounce,
		logger:   logger,
		reload:   reload,
		fs:       fw,
	}, nil
}

// Run delivers reloads until ctx is canceled. A file that fails to load is
// logged and the previous graph stays in place.
func (w *graphWatcher) Run(ctx context.Context) error {
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			fire = time.After(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "err", err)
		case <-fire:
			fire = nil
			w.load()
		}
	}
}

func (w *graphWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *graphWatcher) load() {
	p := newProgress(w.logger)
	g, err := pipeline.LoadGraph(w.path)
	if err != nil {
		w.logger.Warn("graph reload failed, keeping previous graph", "path", w.path, "err", err)
		return
	}
	w.reload(g)
	p.done("graph reloaded", "nodes", g.NodeCount(), "edges", g.EdgeCount())
}

// Close stops watching.
func (w *graphWatcher) Close() error {
	return w.fs.Close()
}
