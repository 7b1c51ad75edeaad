package annot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
)

func record(audioPath string, labels ...string) *Record {
	rec := &Record{AudioPath: audioPath, AnnotPath: audioPath + ".not.mat", Format: formats.AnnotNotmat}
	for i, l := range labels {
		rec.Segments = append(rec.Segments, Segment{Label: l, Onset: float64(i), Offset: float64(i) + 0.5})
	}
	return rec
}

func TestIndexByAudioFilename(t *testing.T) {
	recs := []*Record{
		record("/data/bird/a.cbin", "i", "a"),
		record("/data/bird/b.cbin", "b"),
		record("/elsewhere/c.wav"),
	}

	ix, err := IndexByAudioFilename(recs)
	require.NoError(t, err)
	assert.Equal(t, len(recs), ix.Len())

	got, err := ix.Lookup("b.cbin")
	require.NoError(t, err)
	assert.Same(t, recs[1], got)
}

func TestIndexByAudioFilenameDuplicate(t *testing.T) {
	recs := []*Record{
		record("/day1/a.cbin", "i"),
		record("/day2/a.cbin", "a"),
	}

	_, err := IndexByAudioFilename(recs)
	var ambiguous *errs.AmbiguousAnnotationError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "a.cbin", ambiguous.AudioFilename)
	assert.ErrorIs(t, err, errs.ErrDataIntegrity)
}

func TestIndexLookupMissing(t *testing.T) {
	ix, err := IndexByAudioFilename(nil)
	require.NoError(t, err)

	_, err = ix.Lookup("ghost.wav")
	var missing *errs.MissingAnnotationError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "ghost.wav", missing.AudioFilename)
}

func TestAdmitted(t *testing.T) {
	ls := NewLabelSet("a", "b", "c")

	tests := []struct {
		name   string
		rec    *Record
		ls     LabelSet
		expect bool
	}{
		{"subset", record("x.wav", "a", "b", "a"), ls, true},
		{"one unknown label drops all", record("x.wav", "a", "z", "b"), ls, false},
		{"no segments", record("x.wav"), ls, true},
		{"nil labelset", record("x.wav", "q"), nil, true},
		{"exact match only", record("x.wav", "A"), ls, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Admitted(tt.rec, tt.ls))
		})
	}
}

func TestOutOfVocabulary(t *testing.T) {
	ls := NewLabelSet("a")
	assert.Equal(t, []string{"x", "y"}, OutOfVocabulary(record("r.wav", "y", "a", "x", "y"), ls))
	assert.Nil(t, OutOfVocabulary(record("r.wav", "y"), nil))
}

func TestParseLabelSet(t *testing.T) {
	ls := ParseLabelSet("iabc")
	assert.Equal(t, []string{"a", "b", "c", "i"}, ls.Sorted())
	assert.Nil(t, ParseLabelSet(""))
	assert.Nil(t, NewLabelSet())
}

func TestRecordLabelsAndFilename(t *testing.T) {
	rec := record("/a/b/song.wav", "x", "y")
	assert.Equal(t, "song.wav", rec.AudioFilename())
	assert.Equal(t, []string{"x", "y"}, rec.Labels())
}

const sampleCSV = `label,onset_s,offset_s,audio_path
i,0.10,0.20,/birds/a.wav
a,0.30,0.45,/birds/a.wav
b,0.05,0.15,/birds/b.wav
`

func TestParseCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annot.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	recs, err := ParseCSV(path)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "/birds/a.wav", recs[0].AudioPath)
	assert.Equal(t, path, recs[0].AnnotPath)
	assert.Equal(t, []string{"i", "a"}, recs[0].Labels())
	assert.InDelta(t, 0.45, recs[0].Segments[1].Offset, 1e-12)
	assert.Equal(t, []string{"b"}, recs[1].Labels())
}

func TestParseCSVErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"missing column": "label,onset_s,audio_path\ni,0.1,a.wav\n",
		"bad onset":      "label,onset_s,offset_s,audio_path\ni,x,0.2,a.wav\n",
		"reversed":       "label,onset_s,offset_s,audio_path\ni,0.3,0.2,a.wav\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".csv")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := ParseCSV(path)
			assert.Error(t, err)
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.True(t, reg.Supports(formats.AnnotCSV))
	assert.False(t, reg.Supports(formats.AnnotNotmat))

	_, err := reg.ParseFiles(formats.AnnotNotmat, "x.not.mat")
	var unsupported *errs.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)

	_, err = reg.ParseFiles(formats.Annot("json"), "x.json")
	assert.ErrorIs(t, err, errs.ErrConfig)

	err = reg.Register(formats.Annot("json"), ParserFunc(func(string) ([]*Record, error) { return nil, nil }))
	assert.ErrorIs(t, err, errs.ErrConfig)

	require.NoError(t, reg.Register(formats.AnnotNotmat, ParserFunc(func(path string) ([]*Record, error) {
		return []*Record{{AudioPath: path[:len(path)-len(".not.mat")], AnnotPath: path}}, nil
	})))
	recs, err := reg.ParseFiles(formats.AnnotNotmat, "/d/a.cbin.not.mat", "/d/b.cbin.not.mat")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b.cbin", recs[1].AudioFilename())
	assert.Equal(t, formats.AnnotNotmat, recs[1].Format)
}

func TestRegistryParseError(t *testing.T) {
	reg := NewRegistry()
	boom := errors.New("corrupt")
	require.NoError(t, reg.Register(formats.AnnotYarden, ParserFunc(func(string) ([]*Record, error) { return nil, boom })))
	_, err := reg.ParseFiles(formats.AnnotYarden, "annot.mat")
	assert.ErrorIs(t, err, boom)
}
