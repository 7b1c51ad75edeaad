// Package dataset assembles spectrograms and annotations into a canonical
// table with one row per recording.
package dataset

import (
	"slices"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
)

// Column names, in table order.
const (
	ColSpectPath   = "spect_path"
	ColAudioPath   = "audio_path"
	ColAnnotPath   = "annot_path"
	ColAnnotFormat = "annot_format"
	ColLabels      = "labels"
	ColDuration    = "duration"
	ColTimebinDur  = "timebin_dur"
	ColSplit       = "split"
)

// BaseColumns is the layout of every table before a split is assigned.
var BaseColumns = []string{
	ColSpectPath,
	ColAudioPath,
	ColAnnotPath,
	ColAnnotFormat,
	ColLabels,
	ColDuration,
	ColTimebinDur,
}

// SplitColumns is BaseColumns followed by the split column.
func SplitColumns() []string {
	return append(slices.Clone(BaseColumns), ColSplit)
}

// Row is one recording. Empty AudioPath, AnnotPath or AnnotFormat mean the
// value is absent. Labels is never nil.
type Row struct {
	SpectPath   string
	AudioPath   string
	AnnotPath   string
	AnnotFormat formats.Annot
	Labels      []string
	Duration    float64
	TimebinDur  float64
	Split       string
}

type Table struct {
	Columns []string
	Rows    []Row
}

func NewTable() *Table {
	return &Table{Columns: slices.Clone(BaseColumns)}
}

func (t *Table) Len() int { return len(t.Rows) }

// HasSplit reports whether the split column is present.
func (t *Table) HasSplit() bool {
	return slices.Contains(t.Columns, ColSplit)
}

// SplitName returns the split shared by the rows, or "" when none is
// assigned or the table is empty.
func (t *Table) SplitName() string {
	if !t.HasSplit() || len(t.Rows) == 0 {
		return ""
	}
	return t.Rows[0].Split
}

// SpectPaths returns the spectrogram path of every row, in order.
func (t *Table) SpectPaths() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.SpectPath
	}
	return out
}

// TotalDuration sums row durations in seconds.
func (t *Table) TotalDuration() float64 {
	var total float64
	for _, r := range t.Rows {
		total += r.Duration
	}
	return total
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := &Table{Columns: slices.Clone(t.Columns), Rows: make([]Row, len(t.Rows))}
	for i, r := range t.Rows {
		r.Labels = slices.Clone(r.Labels)
		if r.Labels == nil {
			r.Labels = []string{}
		}
		out.Rows[i] = r
	}
	return out
}
