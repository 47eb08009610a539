package lsp

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Change is a blueprint file the watcher found added, modified or removed
// on disk.
type Change struct {
	Path    string
	Removed bool
}

// FileWatcher keeps a workspace in sync with the files below its root by
// polling modification times. Files open in an editor are left alone.
type FileWatcher struct {
	workspace *Workspace
	interval  time.Duration
	onChange  func([]Change)
	seen      map[string]time.Time
	done      chan struct{}
}

// NewFileWatcher returns a watcher that calls onChange, if non-nil, with
// the files each poll reloaded or dropped.
func NewFileWatcher(w *Workspace, interval time.Duration, onChange func([]Change)) *FileWatcher {
	return &FileWatcher{
		workspace: w,
		interval:  interval,
		onChange:  onChange,
		seen:      make(map[string]time.Time),
		done:      make(chan struct{}),
	}
}

func (fw *FileWatcher) Start() {
	go fw.loop()
}

func (fw *FileWatcher) Stop() {
	close(fw.done)
}

func (fw *FileWatcher) loop() {
	fw.poll()

	tick := time.NewTicker(fw.interval)
	defer tick.Stop()
	for {
		select {
		case <-fw.done:
			return
		case <-tick.C:
			fw.poll()
		}
	}
}

// poll applies every change since the previous poll to the workspace and
// returns the ones it applied.
func (fw *FileWatcher) poll() []Change {
	current := fw.snapshot()
	changes := diffSnapshots(fw.seen, current)
	fw.seen = current

	applied := changes[:0]
	for _, c := range changes {
		if fw.workspace.IsOpen(c.Path) {
			continue
		}
		if c.Removed {
			fw.workspace.RemoveFile(c.Path)
		} else if err := fw.workspace.ScanFile(c.Path); err != nil {
			log.Debugf("watcher: %s", err)
			continue
		}
		applied = append(applied, c)
	}

	if len(applied) > 0 {
		log.Debugf("watcher applied %d changes", len(applied))
		if fw.onChange != nil {
			fw.onChange(applied)
		}
	}
	return applied
}

// snapshot maps each blueprint file below the root to its modification
// time. Unreadable entries and hidden directories are skipped.
func (fw *FileWatcher) snapshot() map[string]time.Time {
	files := make(map[string]time.Time)
	root := fw.workspace.RootDir()
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != Ext {
			return nil
		}
		if info, err := d.Info(); err == nil {
			files[path] = info.ModTime()
		}
		return nil
	})
	return files
}

// diffSnapshots lists the paths that are new or newer in cur, then the
// paths missing from it, each group sorted.
func diffSnapshots(prev, cur map[string]time.Time) []Change {
	var changes []Change
	for path, mod := range cur {
		if last, ok := prev[path]; !ok || mod.After(last) {
			changes = append(changes, Change{Path: path})
		}
	}
	for path := range prev {
		if _, ok := cur[path]; !ok {
			changes = append(changes, Change{Path: path, Removed: true})
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Removed != changes[j].Removed {
			return !changes[i].Removed
		}
		return changes[i].Path < changes[j].Path
	})
	return changes
}
