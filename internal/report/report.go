// Package report tallies the outcome of a run and renders the summary.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Outcome is what happened to one accepted file.
type Outcome int

const (
	OutcomeMoved        Outcome = iota // relocated into the destination tree
	OutcomePlanned                     // would be moved (dry run)
	OutcomeInPlace                     // already at its destination
	OutcomeDuplicate                   // identical file already at the destination
	OutcomeUndetermined                // no capture time or unreadable metadata
	OutcomeFailed                      // move or collision failure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomePlanned:
		return "planned"
	case OutcomeInPlace:
		return "in-place"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeUndetermined:
		return "undetermined"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Summary counts outcomes over a run. Scanned counts every accepted file.
type Summary struct {
	Scanned      int
	Moved        int
	Planned      int
	InPlace      int
	Duplicates   int
	Undetermined int
	Failed       int
}

// Add records one outcome.
func (s *Summary) Add(o Outcome) {
	s.Scanned++
	switch o {
	case OutcomeMoved:
		s.Moved++
	case OutcomePlanned:
		s.Planned++
	case OutcomeInPlace:
		s.InPlace++
	case OutcomeDuplicate:
		s.Duplicates++
	case OutcomeUndetermined:
		s.Undetermined++
	case OutcomeFailed:
		s.Failed++
	}
}

// Skipped is the number of accepted files left where they were.
func (s Summary) Skipped() int {
	return s.InPlace + s.Duplicates + s.Undetermined + s.Failed
}

// Render writes the summary as a table.
func Render(w io.Writer, s Summary, dryRun bool) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Result", "Files"})

	rows := []struct {
		label string
		n     int
	}{
		{"scanned", s.Scanned},
		{"moved", s.Moved},
		{"in place", s.InPlace},
		{"duplicates", s.Duplicates},
		{"undetermined", s.Undetermined},
		{"failed", s.Failed},
	}
	if dryRun {
		rows[1].label, rows[1].n = "would move", s.Planned
	}
	for _, r := range rows {
		tw.AppendRow(table.Row{r.label, strconv.Itoa(r.n)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}
