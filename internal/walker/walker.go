// Package walker moves accepted files from a source tree into a destination
// tree, one file at a time.
//
// For every accepted file the Category supplies a destination directory and a
// filename prefix; the file is then moved to <dir>/<prefix>_<name>. A file is
// moved only when both are known. Failures for a single file are logged and
// never stop the walk.
package walker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"photo-organizer/internal/fsx"
	"photo-organizer/internal/logging"
	"photo-organizer/internal/placement"
	"photo-organizer/internal/report"
)

// SourceFile is a file under consideration during one walk iteration.
type SourceFile struct {
	Path string // absolute path
	Name string // base name
	Ext  string // extension including the dot, as found on disk
}

func newSourceFile(path string) SourceFile {
	name := filepath.Base(path)
	return SourceFile{Path: path, Name: name, Ext: filepath.Ext(name)}
}

// Move records a completed relocation.
type Move struct {
	Source     SourceFile
	Dest       string
	Resolution fsx.Resolution
}

// Options configures a Walker.
type Options struct {
	// DestRoot is skipped during the walk when it lies inside the source tree.
	DestRoot  string
	Collision fsx.CollisionPolicy
	DryRun    bool
	// OnMove is called after every successful move.
	OnMove func(Move)
}

// Walker applies a Category to a directory tree.
type Walker struct {
	category Category
	opts     Options
	logger   *slog.Logger
}

// New returns a Walker for category.
func New(category Category, opts Options, logger *slog.Logger) *Walker {
	if opts.Collision == "" {
		opts.Collision = fsx.CollisionSuffix
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Walker{
		category: category,
		opts:     opts,
		logger:   logger.With("category", category.Name),
	}
}

// Run walks sourceRoot, descending into subdirectories when recurse is set.
//
// The returned error is non-nil only when sourceRoot itself cannot be read or
// ctx is cancelled; per-file problems are logged and counted in the Summary.
func (w *Walker) Run(ctx context.Context, sourceRoot string, recurse bool) (report.Summary, error) {
	var summary report.Summary

	root, err := filepath.Abs(sourceRoot)
	if err != nil {
		return summary, fmt.Errorf("resolve source root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return summary, fmt.Errorf("source root: %w", err)
	}
	if !info.IsDir() {
		return summary, fmt.Errorf("source root %s is not a directory", root)
	}

	var destRoot string
	if w.opts.DestRoot != "" {
		if destRoot, err = filepath.Abs(w.opts.DestRoot); err != nil {
			return summary, fmt.Errorf("resolve destination root: %w", err)
		}
		// Only a destination nested inside the source is skipped; organizing a
		// tree in place walks it like any other source.
		if !isUnder(destRoot, root) {
			destRoot = ""
		}
	}

	t := &traversal{
		w:        w,
		ctx:      ctx,
		recurse:  recurse,
		destRoot: destRoot,
		summary:  &summary,
	}
	if err := t.dir(root, true); err != nil {
		return summary, err
	}
	return summary, nil
}

// skipFolders contains directory names that hold system or camera
// bookkeeping rather than user photos.
var skipFolders = map[string]bool{
	".stfolder":       true, // Syncthing
	".fseventsd":      true, // macOS filesystem events
	".Trashes":        true, // macOS trash
	".Spotlight-V100": true, // macOS Spotlight index
	"PRIVATE":         true, // Camera system folder
	"AVF_INFO":        true, // Sony AVCHD info
	"THMBNL":          true, // Sony thumbnails
}

// traversal carries the state of one Run.
//
// Symbolic links are not followed: os.ReadDir reports them as neither
// directories nor regular files, so both linked directories and linked files
// are passed over. The tree therefore cannot loop.
type traversal struct {
	w        *Walker
	ctx      context.Context
	recurse  bool
	destRoot string
	summary  *report.Summary
}

func (t *traversal) dir(dir string, isRoot bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if isRoot {
			return fmt.Errorf("read source root: %w", err)
		}
		t.w.logger.Error("cannot read directory", "path", dir, "error", err)
		return nil
	}

	for _, entry := range entries {
		if err := t.ctx.Err(); err != nil {
			return err
		}
		name := entry.Name()
		path := filepath.Join(dir, name)

		switch {
		case entry.IsDir():
			if !t.recurse || skipFolders[name] || t.excluded(path) {
				continue
			}
			if err := t.dir(path, false); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if !t.w.category.Accept(path) {
				continue
			}
			t.summary.Add(t.w.process(newSourceFile(path)))
		}
	}
	return nil
}

// excluded reports whether dir is the destination root or lies below it.
func (t *traversal) excluded(dir string) bool {
	if t.destRoot == "" {
		return false
	}
	return dir == t.destRoot || isUnder(dir, t.destRoot)
}

// isUnder reports whether path lies strictly below base.
func isUnder(path, base string) bool {
	return strings.HasPrefix(path, base+string(filepath.Separator))
}

// process places one accepted file.
func (w *Walker) process(f SourceFile) report.Outcome {
	log := w.logger.With("path", f.Path)

	p, err := w.place(f.Path)
	if err != nil {
		log.Error("cannot place file; leaving file in place", "error", err)
		return report.OutcomeUndetermined
	}
	dir := p.Dir

	dst := filepath.Join(dir, TargetName(p.Prefix, f.Name))

	if !w.opts.DryRun {
		if err := fsx.EnsureDir(dir); err != nil {
			log.Error("cannot create destination directory", "dest", dir, "error", err)
			return report.OutcomeFailed
		}
	}

	final, res, err := fsx.Resolve(f.Path, dst, w.opts.Collision)
	if err != nil {
		log.Error("cannot resolve destination", "dest", dst, "error", err)
		return report.OutcomeFailed
	}

	switch res {
	case fsx.ResolutionSame:
		log.Debug("file already in place")
		return report.OutcomeInPlace
	case fsx.ResolutionDuplicate:
		log.Warn("identical file already at destination; leaving source in place", "dest", final)
		return report.OutcomeDuplicate
	case fsx.ResolutionConflict:
		log.Error("destination name taken by a different file; leaving file in place",
			"dest", final, "error", os.ErrExist)
		return report.OutcomeFailed
	}

	if w.opts.DryRun {
		log.Info("would move file", "dest", final, "resolution", res.String())
		return report.OutcomePlanned
	}

	if err := fsx.Move(f.Path, final); err != nil {
		log.Error("move failed; leaving file in place", "dest", final, "error", err)
		return report.OutcomeFailed
	}

	log.Info("moved file", "dest", final, "resolution", res.String())
	if w.opts.OnMove != nil {
		w.opts.OnMove(Move{Source: f, Dest: final, Resolution: res})
	}
	return report.OutcomeMoved
}

// place derives both halves of the destination. A file without either one is
// reported as placement.ErrUndetermined.
func (w *Walker) place(path string) (Placement, error) {
	c := w.category
	if c.Place != nil {
		p, ok, err := c.Place(path)
		if err == nil && !ok {
			err = placement.ErrUndetermined
		}
		return p, err
	}

	dir, ok, err := c.TargetDir(path)
	if err == nil && !ok {
		err = placement.ErrUndetermined
	}
	if err != nil {
		return Placement{}, fmt.Errorf("destination directory: %w", err)
	}
	prefix, ok, err := c.Prefix(path)
	if err == nil && !ok {
		err = placement.ErrUndetermined
	}
	if err != nil {
		return Placement{}, fmt.Errorf("filename prefix: %w", err)
	}
	return Placement{Dir: dir, Prefix: prefix}, nil
}

// TargetName builds "<prefix>_<name>". A name that already carries the
// prefix is returned unchanged so re-running over an organized tree does not
// stack prefixes.
func TargetName(prefix, name string) string {
	if strings.HasPrefix(name, prefix+"_") {
		return name
	}
	return prefix + "_" + name
}
