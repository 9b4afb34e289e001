// Package placement decides where a photo belongs based on its capture time.
//
// A file's destination directory (YYYY/YYYY-MM) and filename prefix
// (YYYYMMDD_HHMMSSmmm) are always derived from the same timestamp, picked with
// a fixed fallback order: primary DateTime, then DateTimeDigitized, then
// DateTimeOriginal.
package placement

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"photo-organizer/internal/metadata"
)

// ErrUndetermined is returned at the walker boundary when no capture time
// could be found for a file.
var ErrUndetermined = errors.New("capture time could not be determined")

// Source identifies which timestamp candidate governed a decision.
type Source string

const (
	SourceNone      Source = ""
	SourceDateTime  Source = "DateTime"
	SourceDigitized Source = "DateTimeDigitized"
	SourceOriginal  Source = "DateTimeOriginal"
)

// Layouts use Go's reference time: Mon Jan 2 15:04:05 MST 2006.
const (
	SubpathLayout = "2006/2006-01"
	PrefixLayout  = "20060102_150405.000"
)

// Decision is the placement computed for one file.
type Decision struct {
	Subpath string    // relative to the destination root, e.g. "2007/2007-03"
	Dir     string    // DestRoot joined with Subpath
	Prefix  string    // e.g. "20070315_102205123"
	Capture time.Time // the governing timestamp
	Source  Source
}

// Policy maps files to destinations using embedded capture-time metadata.
type Policy struct {
	Reader   metadata.Reader
	DestRoot string
}

// New returns a Policy rooted at destRoot.
func New(reader metadata.Reader, destRoot string) *Policy {
	return &Policy{Reader: reader, DestRoot: destRoot}
}

// TargetDir returns the destination directory for path.
// ok is false (with a nil error) when the file carries no capture time.
func (p *Policy) TargetDir(path string) (dir string, ok bool, err error) {
	d, ok, err := p.Decide(path)
	if err != nil || !ok {
		return "", false, err
	}
	return d.Dir, true, nil
}

// Prefix returns the filename prefix for path.
// ok is false (with a nil error) when the file carries no capture time.
func (p *Policy) Prefix(path string) (prefix string, ok bool, err error) {
	d, ok, err := p.Decide(path)
	if err != nil || !ok {
		return "", false, err
	}
	return d.Prefix, true, nil
}

// Decide reads path's metadata once and derives both outputs from the same
// candidate.
func (p *Policy) Decide(path string) (Decision, bool, error) {
	md, err := p.Reader.Read(path)
	if err != nil {
		return Decision{}, false, fmt.Errorf("read metadata: %w", err)
	}
	t, src, ok := Select(md)
	if !ok {
		return Decision{}, false, nil
	}
	sub := FormatSubpath(t)
	return Decision{
		Subpath: sub,
		Dir:     filepath.Join(p.DestRoot, filepath.FromSlash(sub)),
		Prefix:  FormatPrefix(t),
		Capture: t,
		Source:  src,
	}, true, nil
}

// Select applies the fallback order. Sections are examined in order and the
// first one holding any candidate wins; within it DateTime is preferred, then
// Digitized, then Original.
func Select(md *metadata.Metadata) (time.Time, Source, bool) {
	if md == nil {
		return time.Time{}, SourceNone, false
	}
	for _, s := range md.Sections {
		switch {
		case s.DateTime != nil:
			return *s.DateTime, SourceDateTime, true
		case s.Digitized != nil:
			return *s.Digitized, SourceDigitized, true
		case s.Original != nil:
			return *s.Original, SourceOriginal, true
		}
	}
	return time.Time{}, SourceNone, false
}

// FormatSubpath formats t as "YYYY/YYYY-MM" (always slash separated).
func FormatSubpath(t time.Time) string {
	return t.Format(SubpathLayout)
}

// FormatPrefix formats t as "YYYYMMDD_HHMMSSmmm".
func FormatPrefix(t time.Time) string {
	s := t.Format(PrefixLayout)
	// Go can only emit fractional seconds after a dot; drop it.
	return s[:15] + s[16:]
}
