package annot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
)

// Columns of the generic csv annotation format. annot_path is optional and
// defaults to the csv file itself.
const (
	csvLabel     = "label"
	csvOnset     = "onset_s"
	csvOffset    = "offset_s"
	csvAudioPath = "audio_path"
	csvAnnotPath = "annot_path"
)

// ParseCSV reads a csv annotation file with one segment per row. Rows are
// grouped into one record per audio_path, in order of first appearance.
func ParseCSV(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	recs, err := readCSV(f, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

func readCSV(r io.Reader, path string) ([]*Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{csvLabel, csvOnset, csvOffset, csvAudioPath} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	annotCol, hasAnnotCol := idx[csvAnnotPath]

	var records []*Record
	byAudio := map[string]*Record{}
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		onset, err := strconv.ParseFloat(row[idx[csvOnset]], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: onset: %w", line, err)
		}
		offset, err := strconv.ParseFloat(row[idx[csvOffset]], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: offset: %w", line, err)
		}
		if offset < onset {
			return nil, fmt.Errorf("row %d: offset %v before onset %v", line, offset, onset)
		}

		audioPath := row[idx[csvAudioPath]]
		rec, ok := byAudio[audioPath]
		if !ok {
			annotPath := path
			if hasAnnotCol && row[annotCol] != "" {
				annotPath = row[annotCol]
			}
			rec = &Record{AudioPath: audioPath, AnnotPath: annotPath, Format: formats.AnnotCSV}
			byAudio[audioPath] = rec
			records = append(records, rec)
		}
		rec.Segments = append(rec.Segments, Segment{
			Label:  row[idx[csvLabel]],
			Onset:  onset,
			Offset: offset,
		})
	}
	return records, nil
}
