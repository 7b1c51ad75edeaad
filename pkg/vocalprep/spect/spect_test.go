package spect

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFindAudioFilename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/gy6or6/032312/gy6or6_baseline_230312_0808.138.cbin.spect.npz", "gy6or6_baseline_230312_0808.138.cbin"},
		{"bird1.wav.spect.npz", "bird1.wav"},
		{"bird1.WAV.spect.mat", "bird1.WAV"},
		{"/llb3/llb3_0001_2018_04_23_14_18_54.wav.mat", "llb3_0001_2018_04_23_14_18_54.wav"},
		{"a.b.cbin.npz", "a.b.cbin"},
		{"a.wav.spect.NPZ", "a.wav"},
		{"B.CBIN.Mat", "B.CBIN"},
		{"c.wav.SPECT.npz", "c.wav"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FindAudioFilename(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, tt.path, got)
		})
	}
}

func TestFindAudioFilenameUnrecognized(t *testing.T) {
	for _, p := range []string{"bird1.npz", "bird1.mp3.spect.npz", "bird1.wav.spect.npy", "notes.txt"} {
		_, err := FindAudioFilename(p)
		var target *errs.UnrecognizedSpectrogramNamingError
		assert.ErrorAs(t, err, &target, p)
		assert.ErrorIs(t, err, errs.ErrDataIntegrity)
	}
}

func TestCustomMatcherRulesOrder(t *testing.T) {
	m := NewMatcher(defaultRules()[1])
	_, err := m.AudioFilename("bird1.wav.spect.npz")
	assert.Error(t, err, "marker names need the marker rule")

	got, err := m.AudioFilename("bird1.wav.npz")
	require.NoError(t, err)
	assert.Equal(t, "bird1.wav", got)
}

func TestParamsValidate(t *testing.T) {
	p := Params{}.WithDefaults()
	assert.NoError(t, p.Validate())
	assert.Equal(t, DefaultParams(), p)
	assert.Equal(t, Keys{Spect: "s", Freqs: "f", Times: "t"}, p.Keys())

	bad := p
	bad.FreqCutoffs = []float64{10000, 500}
	assert.Error(t, bad.Validate())

	bad = p
	bad.FreqCutoffs = []float64{500}
	assert.Error(t, bad.Validate())

	bad = p
	bad.TransformType = "mel"
	assert.Error(t, bad.Validate())
}

func TestTimebinDur(t *testing.T) {
	dur, err := TimebinDur([]float64{0.016, 0.020, 0.024000001, 0.028})
	require.NoError(t, err)
	assert.Equal(t, 0.004, dur)

	_, err = TimebinDur([]float64{0.1})
	assert.Error(t, err)
}

func TestArraysDuration(t *testing.T) {
	arr := &Arrays{
		Spect: mat.NewDense(3, 4, nil),
		Freqs: []float64{0, 1, 2},
		Times: []float64{0, 0.002, 0.004, 0.006},
	}
	tbd, dur, err := arr.Duration()
	require.NoError(t, err)
	assert.Equal(t, 0.002, tbd)
	assert.InDelta(t, 0.008, dur, 1e-12)
	assert.Equal(t, 3, arr.NumFreqbins())
	assert.Equal(t, 4, arr.NumTimebins())
}

func sine(freq float64, rate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(rate))
	}
	return out
}

func TestSTFTPeakAndAxes(t *testing.T) {
	arr, err := STFT{}.Compute(sine(1000, 16000, 16000), 16000, DefaultParams())
	require.NoError(t, err)

	rows, cols := arr.Spect.Dims()
	assert.Equal(t, 257, rows)
	assert.Equal(t, 243, cols)
	assert.Len(t, arr.Freqs, rows)
	assert.Len(t, arr.Times, cols)
	assert.InDelta(t, 0.016, arr.Times[0], 1e-12)

	peak := 0
	col := mat.Col(nil, 10, arr.Spect)
	for i, v := range col {
		if v > col[peak] {
			peak = i
		}
	}
	assert.Equal(t, 1000.0, arr.Freqs[peak])

	tbd, err := TimebinDur(arr.Times)
	require.NoError(t, err)
	assert.Equal(t, 0.004, tbd)
}

func TestSTFTCutoffsLogThresh(t *testing.T) {
	thresh := 6.25
	p := DefaultParams()
	p.FreqCutoffs = []float64{500, 10000}
	p.TransformType = TransformLogSpect
	p.Thresh = &thresh

	arr, err := STFT{}.Compute(sine(1000, 16000, 4096), 16000, p)
	require.NoError(t, err)

	assert.Equal(t, 500.0, arr.Freqs[0])
	assert.Equal(t, 8000.0, arr.Freqs[len(arr.Freqs)-1])
	assert.GreaterOrEqual(t, mat.Min(arr.Spect), thresh)
}

func TestSTFTErrors(t *testing.T) {
	_, err := STFT{}.Compute(make([]float64, 100), 16000, DefaultParams())
	assert.Error(t, err)

	p := DefaultParams()
	p.FreqCutoffs = []float64{9000, 10000}
	_, err = STFT{}.Compute(make([]float64, 1024), 16000, p)
	assert.Error(t, err, "no bins above Nyquist")
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "bird1.wav.spect.npz")
	arr := &Arrays{
		Spect: mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}),
		Freqs: []float64{100, 200},
		Times: []float64{0.01, 0.02, 0.03},
	}
	keys := Keys{Spect: "S", Freqs: "freq", Times: "time"}

	store := NewFileStore()
	require.NoError(t, store.Save(path, arr, keys))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file left behind")

	got, err := store.Load(path, keys)
	require.NoError(t, err)
	assert.True(t, mat.Equal(arr.Spect, got.Spect))
	assert.Equal(t, arr.Freqs, got.Freqs)
	assert.Equal(t, arr.Times, got.Times)

	_, err = store.Load(path, DefaultKeys())
	assert.Error(t, err, "wrong keys")
}

func TestFileStoreMatUnsupported(t *testing.T) {
	store := NewFileStore()
	assert.False(t, store.Supports(formats.SpectMat))
	assert.True(t, store.Supports(formats.SpectNpz))
	assert.Equal(t, []formats.Spect{formats.SpectNpz}, SupportedFormats(store))

	err := store.Save(filepath.Join(t.TempDir(), "bird1.wav.mat"), &Arrays{Spect: mat.NewDense(1, 1, nil)}, DefaultKeys())
	assert.True(t, errors.Is(err, ErrContainerUnsupported))

	_, err = store.Load("bird1.wav.mat", DefaultKeys())
	assert.True(t, errors.Is(err, ErrContainerUnsupported))
}

func TestRenderPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bird1.png")
	err := RenderPNG(sine(2000, 22050, 22050), 22050, path, RenderOptions{Width: 256, Height: 128})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
