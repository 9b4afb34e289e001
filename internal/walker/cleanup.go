package walker

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"photo-organizer/internal/logging"
)

// Cleanup removes directories under root that are empty after a run, deepest
// first. Only empty directories are removed; files are never touched, so a
// directory holding anything (hidden files included) stays. root itself and
// anything under skip are kept. Returns the number of directories removed.
func Cleanup(root, skip string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return 0, err
	}
	if skip != "" {
		if skip, err = filepath.Abs(skip); err != nil {
			return 0, err
		}
		if !isUnder(skip, root) {
			skip = ""
		}
	}

	var dirs []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if skip != "" && (path == skip || isUnder(path, skip)) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return 0, err
	}

	// Longest paths first so children go before their parents.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	removed := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			logger.Warn("cannot remove empty directory", "path", dir, "error", err)
			continue
		}
		logger.Debug("removed empty directory", "path", dir)
		removed++
	}
	return removed, nil
}
