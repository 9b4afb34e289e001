// Package testutil builds fixture files for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// ExifDates lists the EXIF date strings to embed. Empty fields are omitted.
type ExifDates struct {
	DateTime        string // "2006:01:02 15:04:05"
	SubSecTime      string
	Digitized       string
	SubSecDigitized string
	Original        string
	SubSecOriginal  string
}

const (
	tagDateTime          = 0x0132
	tagExifIFDPointer    = 0x8769
	tagDateTimeOriginal  = 0x9003
	tagDateTimeDigitized = 0x9004
	tagSubSecTime        = 0x9290
	tagSubSecOriginal    = 0x9291
	tagSubSecDigitized   = 0x9292

	typeASCII = 2
	typeLong  = 4
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func asciiEntry(tag uint16, s string) ifdEntry {
	b := append([]byte(s), 0)
	return ifdEntry{tag: tag, typ: typeASCII, count: uint32(len(b)), data: b}
}

// TIFF returns a little-endian TIFF structure holding the given dates:
// DateTime in IFD0, everything else in the EXIF sub-IFD.
func TIFF(d ExifDates) []byte {
	var ifd0, sub []ifdEntry
	if d.DateTime != "" {
		ifd0 = append(ifd0, asciiEntry(tagDateTime, d.DateTime))
	}
	add := func(tag uint16, v string) {
		if v != "" {
			sub = append(sub, asciiEntry(tag, v))
		}
	}
	add(tagDateTimeOriginal, d.Original)
	add(tagDateTimeDigitized, d.Digitized)
	add(tagSubSecTime, d.SubSecTime)
	add(tagSubSecOriginal, d.SubSecOriginal)
	add(tagSubSecDigitized, d.SubSecDigitized)

	ifdSize := func(n int) uint32 { return uint32(2 + 12*n + 4) }

	const off0 = 8
	n0 := len(ifd0)
	if len(sub) > 0 {
		n0++
	}
	offSub := off0 + ifdSize(n0)
	dataOff := offSub
	if len(sub) > 0 {
		dataOff += ifdSize(len(sub))
		ptr := make([]byte, 4)
		binary.LittleEndian.PutUint32(ptr, offSub)
		ifd0 = append(ifd0, ifdEntry{tag: tagExifIFDPointer, typ: typeLong, count: 1, data: ptr})
	}

	var data bytes.Buffer
	writeIFD := func(buf *bytes.Buffer, entries []ifdEntry) {
		le := binary.LittleEndian
		_ = binary.Write(buf, le, uint16(len(entries)))
		for _, e := range entries {
			_ = binary.Write(buf, le, e.tag)
			_ = binary.Write(buf, le, e.typ)
			_ = binary.Write(buf, le, e.count)
			if len(e.data) <= 4 {
				v := make([]byte, 4)
				copy(v, e.data)
				buf.Write(v)
				continue
			}
			_ = binary.Write(buf, le, dataOff+uint32(data.Len()))
			data.Write(e.data)
			if data.Len()%2 == 1 {
				data.WriteByte(0)
			}
		}
		_ = binary.Write(buf, le, uint32(0))
	}

	var out bytes.Buffer
	out.WriteString("II")
	_ = binary.Write(&out, binary.LittleEndian, uint16(42))
	_ = binary.Write(&out, binary.LittleEndian, uint32(off0))
	writeIFD(&out, ifd0)
	if len(sub) > 0 {
		writeIFD(&out, sub)
	}
	out.Write(data.Bytes())
	return out.Bytes()
}

// JPEG wraps the dates in a minimal JPEG: SOI, an APP1 "Exif" segment, EOI.
func JPEG(d ExifDates) []byte {
	tiff := TIFF(d)
	payload := append([]byte("Exif\x00\x00"), tiff...)

	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write([]byte{0xFF, 0xD9})
	return out.Bytes()
}

// WriteJPEG writes a fixture JPEG to dir/name, creating parent directories.
func WriteJPEG(t testing.TB, dir, name string, d ExifDates) string {
	t.Helper()
	return WriteFile(t, dir, name, JPEG(d))
}

// WriteFile writes raw bytes to dir/name, creating parent directories.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
