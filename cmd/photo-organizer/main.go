// Photo Organizer - moves photos into a date-based tree using their EXIF
// capture time.
//
// Every accepted file under the source directory is moved to
//
//	<dest>/YYYY/YYYY-MM/YYYYMMDD_HHMMSSmmm_<original name>
//
// The capture time comes from the EXIF DateTime tag, falling back to
// DateTimeDigitized and then DateTimeOriginal. Files without any of them, or
// with unreadable metadata, are logged and left where they are.
//
// Usage:
//
//	photo-organizer <source> <dest>              # Move photos
//	photo-organizer -n <source> <dest>           # Preview (dry run)
//	photo-organizer -m <source> <dest>           # Move and update the manifest CSV
//	photo-organizer --config org.toml <src> <dst>
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
