package dataset

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/himanishpuri/vocalprep/pkg/logger"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/annot"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/audio"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/spect"
)

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
}

// Progress is called after each candidate is handled.
type Progress func(done, total int)

// Builder turns Inputs into a Table. A Builder holds no per-call state, so
// one value may serve concurrent Build calls that write to different
// output directories.
type Builder struct {
	Store     spect.Store
	Transform spect.Transform
	Parsers   *annot.Registry
	Log       Logger
	Progress  Progress
}

func NewBuilder() *Builder {
	return &Builder{
		Store:     spect.NewFileStore(),
		Transform: spect.STFT{},
		Parsers:   annot.NewRegistry(),
		Log:       logger.GetLogger(),
	}
}

// binRef is the time and frequency resolution every row must share.
type binRef struct {
	spectPath  string
	timebinDur float64
	freqbins   int
}

// Build assembles one table. Candidates are visited in source order; rows
// whose annotation uses labels outside in.LabelSet are left out. The first
// error aborts the build. Spectrograms already written from audio are not
// removed.
func (b *Builder) Build(ctx context.Context, in Inputs) (*Table, error) {
	src, err := Resolve(in, b.Parsers)
	if err != nil {
		return nil, err
	}
	params := in.SpectParams.WithDefaults()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrConfig, err)
	}
	if err := b.checkContainer(src); err != nil {
		return nil, err
	}

	var index *annot.Index
	if src.Annotations != nil {
		index, err = annot.IndexByAudioFilename(src.Annotations)
		if err != nil {
			return nil, err
		}
	}
	b.Log.Infof("building table from %s: %d candidates", src.Mode, len(src.Candidates))

	table := NewTable()
	seen := make(map[string]struct{}, len(src.Candidates))
	var ref *binRef
	skipped := 0

	for i, c := range src.Candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, arr, ok, err := b.buildRow(c, src, index, in, params, seen)
		if err != nil {
			return nil, err
		}
		if b.Progress != nil {
			b.Progress(i+1, len(src.Candidates))
		}
		if !ok {
			skipped++
			continue
		}

		if ref == nil {
			ref = &binRef{spectPath: row.SpectPath, timebinDur: row.TimebinDur, freqbins: arr.NumFreqbins()}
		} else if err := ref.check(row.SpectPath, row.TimebinDur, arr.NumFreqbins()); err != nil {
			return nil, err
		}
		seen[row.SpectPath] = struct{}{}
		table.Rows = append(table.Rows, row)
	}

	b.Log.Infof("built table with %d rows (%d excluded by label set), %.2f s total",
		table.Len(), skipped, table.TotalDuration())
	return table, nil
}

// checkContainer fails when the store cannot read the source's
// spectrograms, or cannot write the ones computed from audio.
func (b *Builder) checkContainer(src *Source) error {
	container := src.SpectFormat
	if src.Mode == ModeAudioDir {
		container = formats.SpectNpz
	}
	if b.Store.Supports(container) {
		return nil
	}
	return &errs.UnsupportedFormatError{Kind: "spect", Format: string(container), Valid: names(spect.SupportedFormats(b.Store))}
}

func (r *binRef) check(path string, timebinDur float64, freqbins int) error {
	if timebinDur != r.timebinDur {
		return &errs.TimebinMismatchError{SpectPath: path, Field: "timebin_dur", Want: r.timebinDur, Got: timebinDur}
	}
	if freqbins != r.freqbins {
		return &errs.TimebinMismatchError{SpectPath: path, Field: "freqbins", Want: float64(r.freqbins), Got: float64(freqbins)}
	}
	return nil
}

// buildRow handles one candidate. ok is false when the label set excludes
// the recording.
func (b *Builder) buildRow(c Candidate, src *Source, index *annot.Index, in Inputs,
	params spect.Params, seen map[string]struct{}) (row Row, arr *spect.Arrays, ok bool, err error) {

	var audioName string
	if c.SpectPath != "" {
		audioName, err = spect.FindAudioFilename(c.SpectPath)
		if err != nil {
			return Row{}, nil, false, err
		}
	} else {
		audioName = filepath.Base(c.AudioPath)
	}

	rec := c.Annot
	switch {
	case rec != nil:
		if rec.AudioFilename() != audioName {
			return Row{}, nil, false, &errs.AnnotationMismatchError{
				SpectPath:      c.SpectPath,
				AudioFilename:  audioName,
				AnnotAudioName: rec.AudioFilename(),
			}
		}
	case src.Annotated:
		rec, err = index.Lookup(audioName)
		if err != nil {
			return Row{}, nil, false, err
		}
	}

	if rec != nil && !annot.Admitted(rec, in.LabelSet) {
		b.Log.Debugf("skipping %s: labels %v not in label set", audioName, annot.OutOfVocabulary(rec, in.LabelSet))
		return Row{}, nil, false, nil
	}

	spectPath := c.SpectPath
	if spectPath == "" {
		outDir := in.OutputDir
		if outDir == "" {
			outDir = filepath.Dir(c.AudioPath)
		}
		spectPath = filepath.Join(outDir, audioName+formats.SpectNpz.OutputExt())
	}
	if _, dup := seen[spectPath]; dup {
		return Row{}, nil, false, &errs.DuplicateRecordError{SpectPath: spectPath}
	}

	if c.SpectPath != "" {
		b.Log.Debugf("loading %s", spectPath)
		arr, err = b.Store.Load(spectPath, params.Keys())
		if err != nil {
			return Row{}, nil, false, fmt.Errorf("loading spectrogram %s: %w", spectPath, err)
		}
	} else {
		arr, err = b.compute(c.AudioPath, src.AudioFormat, spectPath, params)
		if err != nil {
			return Row{}, nil, false, err
		}
	}

	timebinDur, duration, err := arr.Duration()
	if err != nil {
		return Row{}, nil, false, fmt.Errorf("%s: %w", spectPath, err)
	}

	row = Row{
		SpectPath:  spectPath,
		AudioPath:  c.AudioPath,
		Labels:     []string{},
		Duration:   duration,
		TimebinDur: timebinDur,
	}
	if rec != nil {
		row.AnnotPath = rec.AnnotPath
		row.AnnotFormat = rec.Format
		if row.AnnotFormat == "" {
			row.AnnotFormat = src.AnnotFormat
		}
		row.Labels = rec.Labels()
	}
	return row, arr, true, nil
}

func (b *Builder) compute(audioPath string, format formats.Audio, spectPath string, params spect.Params) (*spect.Arrays, error) {
	b.Log.Debugf("computing spectrogram for %s", audioPath)
	samples, rate, err := audio.Read(audioPath, format)
	if err != nil {
		return nil, fmt.Errorf("reading audio %s: %w", audioPath, err)
	}
	arr, err := b.Transform.Compute(samples, rate, params)
	if err != nil {
		return nil, fmt.Errorf("computing spectrogram for %s: %w", audioPath, err)
	}
	if err := b.Store.Save(spectPath, arr, params.Keys()); err != nil {
		return nil, fmt.Errorf("saving spectrogram %s: %w", spectPath, err)
	}
	return arr, nil
}
