package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/himanishpuri/vocalprep/pkg/utils"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// EncodeLabels renders a label sequence as the JSON array stored in the
// labels column.
func EncodeLabels(labels []string) (string, error) {
	if labels == nil {
		labels = []string{}
	}
	b, err := json.Marshal(labels)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeLabels parses a labels cell. It never returns a nil slice.
func DecodeLabels(cell string) ([]string, error) {
	labels := []string{}
	if cell == "" {
		return labels, nil
	}
	if err := json.Unmarshal([]byte(cell), &labels); err != nil {
		return nil, fmt.Errorf("invalid labels %q: %w", cell, err)
	}
	if labels == nil {
		labels = []string{}
	}
	return labels, nil
}

// WriteCSV writes t with a header row. Floats are written in their
// shortest exact form so that ReadCSV restores them bit for bit.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	split := t.HasSplit()
	for _, r := range t.Rows {
		labels, err := EncodeLabels(r.Labels)
		if err != nil {
			return err
		}
		rec := []string{
			r.SpectPath,
			r.AudioPath,
			r.AnnotPath,
			string(r.AnnotFormat),
			labels,
			formatFloat(r.Duration),
			formatFloat(r.TimebinDur),
		}
		if split {
			rec = append(rec, r.Split)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table written by WriteCSV. The header must be the
// canonical layout, with or without the split column.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	var split bool
	switch {
	case slices.Equal(header, BaseColumns):
	case slices.Equal(header, SplitColumns()):
		split = true
	default:
		return nil, &errs.SchemaMismatchError{Want: SplitColumns(), Got: header}
	}

	t := &Table{Columns: slices.Clone(header)}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row, err := parseRow(rec, split)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func parseRow(rec []string, split bool) (Row, error) {
	labels, err := DecodeLabels(rec[4])
	if err != nil {
		return Row{}, err
	}
	dur, err := strconv.ParseFloat(rec[5], 64)
	if err != nil {
		return Row{}, fmt.Errorf("invalid %s %q: %w", ColDuration, rec[5], err)
	}
	tbd, err := strconv.ParseFloat(rec[6], 64)
	if err != nil {
		return Row{}, fmt.Errorf("invalid %s %q: %w", ColTimebinDur, rec[6], err)
	}
	row := Row{
		SpectPath:   rec[0],
		AudioPath:   rec[1],
		AnnotPath:   rec[2],
		AnnotFormat: formats.Annot(rec[3]),
		Labels:      labels,
		Duration:    dur,
		TimebinDur:  tbd,
	}
	if row.AnnotFormat != "" && !row.AnnotFormat.Valid() {
		return Row{}, &errs.UnsupportedFormatError{Kind: "annot", Format: rec[3]}
	}
	if split {
		row.Split = rec[7]
	}
	return row, nil
}

// SaveCSV writes t to path, replacing any existing file only once the
// whole table is written.
func SaveCSV(path string, t *Table) error {
	return utils.WriteFileAtomic(path, func(tmp string) error {
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		if err := WriteCSV(f, t); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return t, nil
}
