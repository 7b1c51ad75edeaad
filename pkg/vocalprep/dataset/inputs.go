package dataset

import (
	"fmt"
	"strings"

	"github.com/himanishpuri/vocalprep/pkg/utils"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/annot"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/spect"
)

// SpectAnnot pairs a spectrogram file with its annotation.
type SpectAnnot struct {
	SpectPath string
	Annot     *annot.Record
}

// Inputs describes one table to build. Exactly one source is set:
// SpectDir, SpectFiles, SpectAnnotMap, AudioDir, or DataDir together with
// exactly one of SpectFormat and AudioFormat.
type Inputs struct {
	SpectFormat   formats.Spect
	SpectDir      string
	SpectFiles    []string
	SpectAnnotMap []SpectAnnot

	AudioFormat formats.Audio
	AudioDir    string

	// DataDir holds either audio or spectrogram files, chosen by which
	// format is set. Annotation files of AnnotFormat found in it are
	// parsed when no other annotation source is given.
	DataDir string

	AnnotFormat formats.Annot
	AnnotFile   string
	AnnotList   []*annot.Record

	LabelSet annot.LabelSet

	// OutputDir receives spectrograms computed from audio. Defaults to
	// the audio file's directory.
	OutputDir   string
	SpectParams spect.Params
}

type Mode int

const (
	ModeSpectDir Mode = iota + 1
	ModeSpectFiles
	ModeSpectAnnotMap
	ModeAudioDir
)

func (m Mode) String() string {
	switch m {
	case ModeSpectDir:
		return "spect_dir"
	case ModeSpectFiles:
		return "spect_files"
	case ModeSpectAnnotMap:
		return "spect_annot_map"
	case ModeAudioDir:
		return "audio_dir"
	}
	return "unknown"
}

// Candidate is one file to turn into a row. Exactly one of SpectPath and
// AudioPath is set. Annot is set when the caller paired it explicitly.
type Candidate struct {
	SpectPath string
	AudioPath string
	Annot     *annot.Record
}

// Source is a validated Inputs.
type Source struct {
	Mode        Mode
	SpectFormat formats.Spect
	AudioFormat formats.Audio
	AnnotFormat formats.Annot
	Candidates  []Candidate

	// Annotations is non-nil when rows must have an annotation. In
	// ModeSpectAnnotMap the annotations come with the candidates instead.
	Annotations []*annot.Record
	Annotated   bool
}

func names[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func ambiguous(format string, args ...any) error {
	return &errs.AmbiguousInputError{Reason: fmt.Sprintf(format, args...)}
}

// Resolve validates in and lists its candidates. Every configuration
// error is reported here, before any file other than directory listings
// and annotation files is read.
func Resolve(in Inputs, parsers *annot.Registry) (*Source, error) {
	if parsers == nil {
		parsers = annot.NewRegistry()
	}
	if err := expandDataDir(&in); err != nil {
		return nil, err
	}

	var set []string
	if in.SpectDir != "" {
		set = append(set, "spect_dir")
	}
	if in.SpectFiles != nil {
		set = append(set, "spect_files")
	}
	if in.SpectAnnotMap != nil {
		set = append(set, "spect_annot_map")
	}
	if in.AudioDir != "" {
		set = append(set, "audio_dir")
	}
	switch len(set) {
	case 0:
		return nil, ambiguous("one of spect_dir, spect_files, spect_annot_map, audio_dir or data_dir is required")
	case 1:
	default:
		return nil, ambiguous("only one input source may be given, got %s", strings.Join(set, " and "))
	}

	src := &Source{}
	if in.AudioDir != "" {
		src.Mode = ModeAudioDir
		if in.SpectFormat != "" {
			return nil, ambiguous("audio_dir cannot be combined with spect_format")
		}
		if in.AudioFormat == "" {
			return nil, ambiguous("audio_dir requires audio_format")
		}
		if !in.AudioFormat.Valid() {
			return nil, &errs.UnsupportedFormatError{Kind: "audio", Format: string(in.AudioFormat), Valid: names(formats.AudioFormats())}
		}
		src.AudioFormat = in.AudioFormat
	} else {
		if in.AudioFormat != "" {
			return nil, ambiguous("audio_format cannot be combined with a spectrogram source")
		}
		if in.SpectFormat == "" {
			return nil, ambiguous("spectrogram sources require spect_format")
		}
		if !in.SpectFormat.Valid() {
			return nil, &errs.UnsupportedFormatError{Kind: "spect", Format: string(in.SpectFormat), Valid: names(formats.SpectFormats())}
		}
		src.SpectFormat = in.SpectFormat
	}

	if err := resolveAnnotations(in, src, parsers); err != nil {
		return nil, err
	}

	switch {
	case in.SpectDir != "":
		src.Mode = ModeSpectDir
		paths, err := listSpectFiles(in.SpectDir, in.SpectFormat)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			src.Candidates = append(src.Candidates, Candidate{SpectPath: p})
		}
	case in.SpectFiles != nil:
		src.Mode = ModeSpectFiles
		for _, p := range in.SpectFiles {
			src.Candidates = append(src.Candidates, Candidate{SpectPath: p})
		}
	case in.SpectAnnotMap != nil:
		src.Mode = ModeSpectAnnotMap
		src.Annotated = true
		for _, pair := range in.SpectAnnotMap {
			if pair.Annot == nil {
				return nil, &errs.MissingAnnotationError{AudioFilename: pair.SpectPath}
			}
			src.Candidates = append(src.Candidates, Candidate{SpectPath: pair.SpectPath, Annot: pair.Annot})
		}
	case in.AudioDir != "":
		paths, err := utils.ListFilesWithSuffix(in.AudioDir, in.AudioFormat.Ext())
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			src.Candidates = append(src.Candidates, Candidate{AudioPath: p})
		}
	}
	return src, nil
}

// expandDataDir rewrites a DataDir input into SpectDir or AudioDir.
func expandDataDir(in *Inputs) error {
	if in.DataDir == "" {
		return nil
	}
	if in.SpectDir != "" || in.SpectFiles != nil || in.SpectAnnotMap != nil || in.AudioDir != "" {
		return ambiguous("data_dir cannot be combined with another input source")
	}
	switch {
	case in.AudioFormat != "" && in.SpectFormat != "":
		return ambiguous("data_dir needs exactly one of audio_format and spect_format, got both")
	case in.AudioFormat != "":
		in.AudioDir = in.DataDir
	case in.SpectFormat != "":
		in.SpectDir = in.DataDir
	default:
		return ambiguous("data_dir needs exactly one of audio_format and spect_format, got neither")
	}
	return nil
}

func resolveAnnotations(in Inputs, src *Source, parsers *annot.Registry) error {
	if in.AnnotFormat != "" && !in.AnnotFormat.Valid() {
		return &errs.UnsupportedFormatError{Kind: "annot", Format: string(in.AnnotFormat), Valid: names(formats.AnnotFormats())}
	}
	if in.AnnotList != nil && in.AnnotFile != "" {
		return ambiguous("annot_list and annot_file are mutually exclusive")
	}
	if in.SpectAnnotMap != nil {
		if in.AnnotList != nil || in.AnnotFile != "" {
			return ambiguous("spect_annot_map already pairs annotations, annot_list and annot_file must be empty")
		}
		return nil
	}
	src.AnnotFormat = in.AnnotFormat

	switch {
	case in.AnnotList != nil:
		src.Annotations = in.AnnotList
	case in.AnnotFile != "":
		if in.AnnotFormat == "" {
			return ambiguous("annot_file requires annot_format")
		}
		recs, err := parsers.ParseFiles(in.AnnotFormat, in.AnnotFile)
		if err != nil {
			return err
		}
		src.Annotations = recs
	case in.AnnotFormat != "" && in.DataDir != "":
		files, err := utils.ListFilesWithSuffix(in.DataDir, in.AnnotFormat.Ext())
		if err != nil {
			return err
		}
		recs, err := parsers.ParseFiles(in.AnnotFormat, files...)
		if err != nil {
			return err
		}
		src.Annotations = recs
	case in.AnnotFormat != "":
		return ambiguous("annot_format requires annot_file, annot_list or data_dir")
	default:
		return nil
	}
	if src.Annotations == nil {
		src.Annotations = []*annot.Record{}
	}
	src.Annotated = true
	return nil
}

// listSpectFiles lists spectrogram files of format in dir. Annotation
// files whose compound extension ends in the container's (".not.mat" for
// "mat") are skipped.
func listSpectFiles(dir string, format formats.Spect) ([]string, error) {
	paths, err := utils.ListFilesWithSuffix(dir, format.Ext())
	if err != nil {
		return nil, err
	}
	var skip []string
	for _, a := range formats.AnnotFormats() {
		ext := strings.ToLower(a.Ext())
		if len(ext) > len(format.Ext()) && strings.HasSuffix(ext, format.Ext()) {
			skip = append(skip, ext)
		}
	}

	out := paths[:0]
outer:
	for _, p := range paths {
		lower := strings.ToLower(p)
		for _, ext := range skip {
			if strings.HasSuffix(lower, ext) {
				continue outer
			}
		}
		out = append(out, p)
	}
	return out, nil
}
