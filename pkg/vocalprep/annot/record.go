// Package annot holds parsed annotation records and the operations the
// dataset builder runs on them: indexing by audio filename and label-set
// filtering.
package annot

import (
	"path/filepath"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
)

// Segment is one labeled interval of a recording, in seconds.
type Segment struct {
	Label  string
	Onset  float64
	Offset float64
}

// Record is one parsed transcription of a single audio file. Records are
// owned by the caller; nothing in this module modifies one after parsing.
type Record struct {
	AudioPath string
	AnnotPath string
	Format    formats.Annot
	Segments  []Segment
}

// AudioFilename is the join key between a record and a spectrogram.
func (r *Record) AudioFilename() string {
	return filepath.Base(r.AudioPath)
}

// Labels returns the label of every segment, in order.
func (r *Record) Labels() []string {
	labels := make([]string, len(r.Segments))
	for i, seg := range r.Segments {
		labels[i] = seg.Label
	}
	return labels
}
