package placement

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"photo-organizer/internal/metadata"
)

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04:05.000", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func staticReader(md *metadata.Metadata, err error) metadata.Reader {
	return metadata.ReaderFunc(func(string) (*metadata.Metadata, error) { return md, err })
}

func oneSection(dt, dig, orig *time.Time) *metadata.Metadata {
	return &metadata.Metadata{Sections: []metadata.Section{{
		Name: "exif", DateTime: dt, Digitized: dig, Original: orig,
	}}}
}

func TestPolicy_FallbackOrder(t *testing.T) {
	primary := ts("2007-03-15 10:22:05.123")
	digitized := ts("2008-04-16 11:00:00.000")
	original := ts("1999-12-31 23:59:59.000")

	tests := []struct {
		name       string
		md         *metadata.Metadata
		wantSub    string
		wantPrefix string
		wantSource Source
	}{
		{
			name:       "primary wins over everything",
			md:         oneSection(primary, digitized, original),
			wantSub:    "2007/2007-03",
			wantPrefix: "20070315_102205123",
			wantSource: SourceDateTime,
		},
		{
			name:       "primary alone",
			md:         oneSection(primary, nil, nil),
			wantSub:    "2007/2007-03",
			wantPrefix: "20070315_102205123",
			wantSource: SourceDateTime,
		},
		{
			name:       "digitized when primary missing",
			md:         oneSection(nil, digitized, original),
			wantSub:    "2008/2008-04",
			wantPrefix: "20080416_110000000",
			wantSource: SourceDigitized,
		},
		{
			name:       "original as last resort",
			md:         oneSection(nil, nil, original),
			wantSub:    "1999/1999-12",
			wantPrefix: "19991231_235959000",
			wantSource: SourceOriginal,
		},
		{
			name: "first section with a candidate wins",
			md: &metadata.Metadata{Sections: []metadata.Section{
				{Name: "empty"},
				{Name: "second", Original: original},
				{Name: "third", DateTime: primary},
			}},
			wantSub:    "1999/1999-12",
			wantPrefix: "19991231_235959000",
			wantSource: SourceOriginal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(staticReader(tt.md, nil), "/dest")

			dir, ok, err := p.TargetDir("x.jpg")
			if err != nil || !ok {
				t.Fatalf("TargetDir() = %q, %v, %v", dir, ok, err)
			}
			if want := filepath.Join("/dest", filepath.FromSlash(tt.wantSub)); dir != want {
				t.Errorf("TargetDir() = %q, want %q", dir, want)
			}

			prefix, ok, err := p.Prefix("x.jpg")
			if err != nil || !ok {
				t.Fatalf("Prefix() = %q, %v, %v", prefix, ok, err)
			}
			if prefix != tt.wantPrefix {
				t.Errorf("Prefix() = %q, want %q", prefix, tt.wantPrefix)
			}

			d, ok, err := p.Decide("x.jpg")
			if err != nil || !ok {
				t.Fatalf("Decide() = %+v, %v, %v", d, ok, err)
			}
			if d.Subpath != tt.wantSub || d.Prefix != tt.wantPrefix || d.Source != tt.wantSource {
				t.Errorf("Decide() = %+v, want subpath %q prefix %q source %q", d, tt.wantSub, tt.wantPrefix, tt.wantSource)
			}
		})
	}
}

func TestPolicy_Undetermined(t *testing.T) {
	tests := []struct {
		name string
		md   *metadata.Metadata
	}{
		{"nil metadata", nil},
		{"no sections", &metadata.Metadata{}},
		{"empty sections", &metadata.Metadata{Sections: []metadata.Section{{Name: "a"}, {Name: "b"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(staticReader(tt.md, nil), "/dest")
			if dir, ok, err := p.TargetDir("x.jpg"); ok || err != nil || dir != "" {
				t.Errorf("TargetDir() = %q, %v, %v; want undetermined", dir, ok, err)
			}
			if prefix, ok, err := p.Prefix("x.jpg"); ok || err != nil || prefix != "" {
				t.Errorf("Prefix() = %q, %v, %v; want undetermined", prefix, ok, err)
			}
		})
	}
}

func TestPolicy_ReadFailure(t *testing.T) {
	cause := errors.New("boom")
	p := New(staticReader(nil, cause), "/dest")

	if _, ok, err := p.TargetDir("x.jpg"); ok || !errors.Is(err, cause) {
		t.Errorf("TargetDir() ok=%v err=%v, want wrapped cause", ok, err)
	}
	if _, ok, err := p.Prefix("x.jpg"); ok || !errors.Is(err, cause) {
		t.Errorf("Prefix() ok=%v err=%v, want wrapped cause", ok, err)
	}
}

func TestFormatPrefix(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2007, 3, 15, 10, 22, 5, 123_456_789, time.UTC), "20070315_102205123"},
		{time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC), "19991231_235959000"},
		{time.Date(2024, 1, 2, 3, 4, 5, 9_000_000, time.UTC), "20240102_030405009"},
	}
	for _, tt := range tests {
		if got := FormatPrefix(tt.in); got != tt.want {
			t.Errorf("FormatPrefix(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSubpath(t *testing.T) {
	got := FormatSubpath(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	if got != "2024/2024-01" {
		t.Errorf("FormatSubpath() = %q, want %q", got, "2024/2024-01")
	}
}
