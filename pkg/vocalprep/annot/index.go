package annot

import (
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
)

// Index maps audio filenames to the single record annotating each.
type Index struct {
	byName map[string]*Record
}

// IndexByAudioFilename builds an Index. Two records naming the same audio
// file is an error: there is no safe way to choose between them.
func IndexByAudioFilename(records []*Record) (*Index, error) {
	ix := &Index{byName: make(map[string]*Record, len(records))}
	for _, rec := range records {
		name := rec.AudioFilename()
		if prev, ok := ix.byName[name]; ok {
			return nil, &errs.AmbiguousAnnotationError{
				AudioFilename: name,
				AnnotPaths:    []string{prev.AnnotPath, rec.AnnotPath},
			}
		}
		ix.byName[name] = rec
	}
	return ix, nil
}

// Lookup returns the record for audioFilename.
func (ix *Index) Lookup(audioFilename string) (*Record, error) {
	rec, ok := ix.byName[audioFilename]
	if !ok {
		return nil, &errs.MissingAnnotationError{AudioFilename: audioFilename}
	}
	return rec, nil
}

// Len is the number of indexed records.
func (ix *Index) Len() int { return len(ix.byName) }
