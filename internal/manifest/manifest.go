// Package manifest keeps a CSV ledger of every file the organizer relocated.
//
// Rows are keyed by their path relative to the destination root. Existing
// rows are preserved across runs; output is sorted by relative path.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultRelPath is where the manifest lives under the destination root.
var DefaultRelPath = filepath.Join("_Manifest", "photo_manifest.csv")

// Header lists the manifest columns in order.
var Header = []string{
	"filename",        // base filename after renaming
	"relative_path",   // path relative to the destination root
	"source_path",     // where the file was found
	"file_size_bytes", // size in bytes
	"capture_date",    // governing EXIF timestamp
	"capture_source",  // which EXIF tag governed
	"sha256",          // content digest
	"extension",       // lower-cased extension
	"organized_date",  // when the file was moved
	"run_id",          // run that moved it
}

const timeLayout = "2006-01-02 15:04:05.000"

// Entry describes one relocated file.
type Entry struct {
	SourcePath    string
	DestPath      string
	Size          int64
	CaptureDate   time.Time
	CaptureSource string
	SHA256        string
	OrganizedAt   time.Time
	RunID         string
}

// Manifest is a CSV ledger at Path describing files under Root.
type Manifest struct {
	Path string
	Root string
}

// New returns a manifest for root. An empty path selects DefaultRelPath.
func New(root, path string) *Manifest {
	if path == "" {
		path = filepath.Join(root, DefaultRelPath)
	}
	return &Manifest{Path: path, Root: root}
}

// Load reads the manifest rows keyed by relative path.
// A missing file yields an empty map.
func (m *Manifest) Load() (map[string][]string, error) {
	rows := make(map[string][]string)

	f, err := os.Open(m.Path)
	if errors.Is(err, os.ErrNotExist) {
		return rows, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", m.Path, err)
	}
	if len(records) == 0 {
		return rows, nil
	}
	for _, row := range records[1:] {
		if len(row) > 1 {
			rows[row[1]] = row
		}
	}
	return rows, nil
}

// Update merges entries into the manifest and rewrites it.
// Entries whose relative path is already recorded are left as they were.
// Returns the number of rows added.
func (m *Manifest) Update(entries []Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	existing, err := m.Load()
	if err != nil {
		return 0, err
	}

	added := 0
	for _, e := range entries {
		row, err := m.row(e)
		if err != nil {
			return 0, err
		}
		if _, ok := existing[row[1]]; ok {
			continue
		}
		existing[row[1]] = row
		added++
	}

	if err := m.write(existing); err != nil {
		return 0, err
	}
	return added, nil
}

func (m *Manifest) row(e Entry) ([]string, error) {
	rel, err := filepath.Rel(m.Root, e.DestPath)
	if err != nil {
		return nil, fmt.Errorf("relative path for %s: %w", e.DestPath, err)
	}
	return []string{
		filepath.Base(e.DestPath),
		filepath.ToSlash(rel),
		e.SourcePath,
		strconv.FormatInt(e.Size, 10),
		e.CaptureDate.Format(timeLayout),
		e.CaptureSource,
		e.SHA256,
		strings.ToLower(filepath.Ext(e.DestPath)),
		e.OrganizedAt.Format(timeLayout),
		e.RunID,
	}, nil
}

func (m *Manifest) write(rows map[string][]string) error {
	if err := os.MkdirAll(filepath.Dir(m.Path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	tmp := m.Path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer os.Remove(tmp)

	paths := make([]string, 0, len(rows))
	for p := range rows {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return err
	}
	for _, p := range paths {
		if err := w.Write(rows[p]); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, m.Path)
}
