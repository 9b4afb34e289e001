package metadata

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifLayout is the fixed EXIF date-time encoding: "YYYY:MM:DD HH:MM:SS".
const exifLayout = "2006:01:02 15:04:05"

// ExifSectionName names the single section produced by ExifReader.
const ExifSectionName = "exif"

// ExifReader decodes EXIF metadata from JPEG and TIFF files using goexif.
//
// Timestamps are returned as wall-clock values in Location (UTC when nil).
// EXIF dates carry no zone, so keeping them in one fixed location means
// formatting them later never shifts the hour.
type ExifReader struct {
	Location *time.Location
}

// NewExifReader returns an ExifReader that keeps timestamps in UTC.
func NewExifReader() *ExifReader {
	return &ExifReader{Location: time.UTC}
}

// Read opens path and decodes its EXIF block.
// Returns an error if the file cannot be opened or has no usable EXIF data.
func (r *ExifReader) Read(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// goexif hands back a partially decoded result for non-critical
		// errors (for example a broken maker note); the date tags are still good.
		if x == nil || exif.IsCriticalError(err) {
			return nil, fmt.Errorf("decode exif: %w", err)
		}
	}

	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}

	section := Section{
		Name:      ExifSectionName,
		DateTime:  exifTime(x, exif.DateTime, exif.SubSecTime, loc),
		Digitized: exifTime(x, exif.DateTimeDigitized, exif.SubSecTimeDigitized, loc),
		Original:  exifTime(x, exif.DateTimeOriginal, exif.SubSecTimeOriginal, loc),
	}
	return &Metadata{Sections: []Section{section}}, nil
}

// exifTime reads a date-time tag and its companion sub-second tag.
// Returns nil when the tag is missing, blank or unparsable.
func exifTime(x *exif.Exif, field, subsec exif.FieldName, loc *time.Location) *time.Time {
	s, ok := stringTag(x, field)
	if !ok {
		return nil
	}
	t, ok := ParseDateTime(s, loc)
	if !ok {
		return nil
	}
	if frac, ok := stringTag(x, subsec); ok {
		t = t.Add(ParseSubSec(frac))
	}
	return &t
}

func stringTag(x *exif.Exif, field exif.FieldName) (string, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return "", false
	}
	s, err := tag.StringVal()
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	return s, s != ""
}

// ParseDateTime parses an EXIF date-time string in loc.
// Blank placeholders ("    :  :     :  :  ") and zero dates are rejected.
func ParseDateTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	if len(s) < len(exifLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(exifLayout, s[:len(exifLayout)], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseSubSec converts an EXIF SubSecTime value ("123" = .123s, "5" = .5s)
// into a duration. Anything after the leading digits is ignored.
func ParseSubSec(s string) time.Duration {
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	digits := s[:end]
	if digits == "" {
		return 0
	}
	if len(digits) > 9 {
		digits = digits[:9]
	}
	digits += strings.Repeat("0", 9-len(digits))
	ns, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return time.Duration(ns)
}
