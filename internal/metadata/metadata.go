// Package metadata reads embedded capture timestamps from media files.
//
// The rest of the organizer only sees the Metadata value defined here; the
// actual decoding is done by a Reader (see ExifReader).
package metadata

import "time"

// Section is one group of date-time tags found in a file. Every candidate is
// independently optional; no ordering among them is implied here.
type Section struct {
	Name      string
	DateTime  *time.Time // primary DateTime tag
	Digitized *time.Time // DateTimeDigitized
	Original  *time.Time // DateTimeOriginal
}

// Empty reports whether the section carries no timestamp at all.
func (s Section) Empty() bool {
	return s.DateTime == nil && s.Digitized == nil && s.Original == nil
}

// Metadata holds the date-time capable sections of a file, in the order the
// reader examined them.
type Metadata struct {
	Sections []Section
}

// Reader extracts metadata from the file at path.
// An error means the file could not be read or decoded at all.
type Reader interface {
	Read(path string) (*Metadata, error)
}

// ReaderFunc adapts a plain function to the Reader interface.
type ReaderFunc func(path string) (*Metadata, error)

func (f ReaderFunc) Read(path string) (*Metadata, error) { return f(path) }
