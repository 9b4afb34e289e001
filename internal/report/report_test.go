package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestSummary_Add(t *testing.T) {
	var s Summary
	for _, o := range []Outcome{
		OutcomeMoved, OutcomeMoved, OutcomeDuplicate, OutcomeUndetermined,
		OutcomeFailed, OutcomeInPlace, OutcomePlanned,
	} {
		s.Add(o)
	}

	want := Summary{Scanned: 7, Moved: 2, Planned: 1, InPlace: 1, Duplicates: 1, Undetermined: 1, Failed: 1}
	if s != want {
		t.Errorf("Summary = %+v, want %+v", s, want)
	}
	if got := s.Skipped(); got != 4 {
		t.Errorf("Skipped() = %d, want 4", got)
	}
}

func TestRender(t *testing.T) {
	s := Summary{Scanned: 3, Moved: 2, Undetermined: 1}

	var buf bytes.Buffer
	if err := Render(&buf, s, false); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"moved", "undetermined", "scanned"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := Render(&buf, Summary{Planned: 4, Scanned: 4}, true); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "would move") {
		t.Errorf("dry-run output missing %q:\n%s", "would move", buf.String())
	}
}
