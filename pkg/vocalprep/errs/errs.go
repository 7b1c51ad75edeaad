// Package errs defines the error taxonomy of dataset assembly. Every error
// type reports its class through errors.Is against ErrConfig,
// ErrDataIntegrity or ErrSchema.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfig marks invalid or conflicting inputs, detected before any
	// row is processed.
	ErrConfig = errors.New("invalid argument")
	// ErrDataIntegrity marks an inconsistent upstream dataset.
	ErrDataIntegrity = errors.New("data integrity")
	// ErrSchema marks tables whose layout does not allow the operation.
	ErrSchema = errors.New("schema")
)

// AmbiguousInputError is returned when zero or several mutually exclusive
// inputs were supplied.
type AmbiguousInputError struct {
	Reason string
}

func (e *AmbiguousInputError) Error() string {
	return "ambiguous input: " + e.Reason
}

func (e *AmbiguousInputError) Is(target error) bool { return target == ErrConfig }

// UnsupportedFormatError is returned for a format tag outside the fixed
// tables, or a valid tag with no codec available.
type UnsupportedFormatError struct {
	Kind   string // "audio", "spect" or "annot"
	Format string
	Valid  []string
}

func (e *UnsupportedFormatError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("unsupported %s format %q", e.Kind, e.Format)
	}
	return fmt.Sprintf("unsupported %s format %q, valid formats are: %s",
		e.Kind, e.Format, strings.Join(e.Valid, ", "))
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrConfig }

// UnrecognizedSpectrogramNamingError is returned when no naming
// convention recovers an audio filename from a spectrogram path.
type UnrecognizedSpectrogramNamingError struct {
	Path string
}

func (e *UnrecognizedSpectrogramNamingError) Error() string {
	return fmt.Sprintf("cannot recover audio filename from spectrogram file %s", e.Path)
}

func (e *UnrecognizedSpectrogramNamingError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// AmbiguousAnnotationError is returned when several annotation records
// reference the same audio filename.
type AmbiguousAnnotationError struct {
	AudioFilename string
	AnnotPaths    []string
}

func (e *AmbiguousAnnotationError) Error() string {
	return fmt.Sprintf("more than one annotation for audio file %s (from %s)",
		e.AudioFilename, strings.Join(e.AnnotPaths, ", "))
}

func (e *AmbiguousAnnotationError) Is(target error) bool { return target == ErrDataIntegrity }

// MissingAnnotationError is returned when annotations were requested but
// none references the audio filename.
type MissingAnnotationError struct {
	AudioFilename string
	Path          string
}

func (e *MissingAnnotationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("no annotation found for audio file %s (source %s)", e.AudioFilename, e.Path)
	}
	return fmt.Sprintf("no annotation found for audio file %s", e.AudioFilename)
}

func (e *MissingAnnotationError) Is(target error) bool { return target == ErrDataIntegrity }

// AnnotationMismatchError is returned when an explicitly paired annotation
// references a different audio file than its spectrogram.
type AnnotationMismatchError struct {
	SpectPath      string
	AudioFilename  string
	AnnotAudioName string
}

func (e *AnnotationMismatchError) Error() string {
	return fmt.Sprintf("spectrogram %s is for audio file %s but its annotation is for %s",
		e.SpectPath, e.AudioFilename, e.AnnotAudioName)
}

func (e *AnnotationMismatchError) Is(target error) bool { return target == ErrDataIntegrity }

// DuplicateRecordError is returned when two rows of one table share a
// spectrogram path.
type DuplicateRecordError struct {
	SpectPath string
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("duplicate spectrogram path %s", e.SpectPath)
}

func (e *DuplicateRecordError) Is(target error) bool { return target == ErrDataIntegrity }

// TimebinMismatchError is returned when spectrograms of one table disagree
// on time-bin duration or frequency-bin count.
type TimebinMismatchError struct {
	SpectPath string
	Field     string // "timebin_dur" or "freqbins"
	Want      float64
	Got       float64
}

func (e *TimebinMismatchError) Error() string {
	return fmt.Sprintf("%s of %s is %v, other spectrograms in the dataset have %v",
		e.Field, e.SpectPath, e.Got, e.Want)
}

func (e *TimebinMismatchError) Is(target error) bool { return target == ErrDataIntegrity }

// SplitAlreadyAssignedError is returned when a split is assigned to a
// table that already carries one.
type SplitAlreadyAssignedError struct {
	Existing string
}

func (e *SplitAlreadyAssignedError) Error() string {
	return fmt.Sprintf("table already assigned to split %q", e.Existing)
}

func (e *SplitAlreadyAssignedError) Is(target error) bool { return target == ErrSchema }

// SchemaMismatchError is returned when tables with different columns are
// combined, or a persisted table does not have the canonical layout.
type SchemaMismatchError struct {
	Want []string
	Got  []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: expected columns [%s], got [%s]",
		strings.Join(e.Want, ", "), strings.Join(e.Got, ", "))
}

func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchema }

// SplitLeakageError is returned when the same spectrogram appears in more
// than one split of a merged dataset.
type SplitLeakageError struct {
	SpectPaths []string
}

func (e *SplitLeakageError) Error() string {
	return fmt.Sprintf("%d spectrogram(s) appear in more than one split: %s",
		len(e.SpectPaths), strings.Join(e.SpectPaths, ", "))
}

func (e *SplitLeakageError) Is(target error) bool { return target == ErrDataIntegrity }
