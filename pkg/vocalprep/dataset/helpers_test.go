package dataset

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/himanishpuri/vocalprep/pkg/logger"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/annot"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/spect"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// memStore serves fixed arrays by path and records saves.
type memStore struct {
	mu     sync.Mutex
	arrays map[string]*spect.Arrays
	saved  []string
}

func newMemStore() *memStore {
	return &memStore{arrays: map[string]*spect.Arrays{}}
}

func (s *memStore) Supports(formats.Spect) bool { return true }

func (s *memStore) Load(path string, _ spect.Keys) (*spect.Arrays, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	arr, ok := s.arrays[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return arr, nil
}

func (s *memStore) Save(path string, arr *spect.Arrays, _ spect.Keys) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arrays[path] = arr
	s.saved = append(s.saved, path)
	return nil
}

// testArrays has freqbins rows and timebins columns spaced step seconds.
func testArrays(freqbins, timebins int, step float64) *spect.Arrays {
	times := make([]float64, timebins)
	for i := range times {
		times[i] = float64(i) * step
	}
	freqs := make([]float64, freqbins)
	for i := range freqs {
		freqs[i] = float64(i) * 100
	}
	return &spect.Arrays{Spect: mat.NewDense(freqbins, timebins, nil), Freqs: freqs, Times: times}
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
}

func newTestBuilder(store spect.Store) *Builder {
	b := NewBuilder()
	b.Store = store
	b.Log = quietLogger()
	return b
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func rec(audioPath string, labels ...string) *annot.Record {
	r := &annot.Record{AudioPath: audioPath, AnnotPath: audioPath + ".not.mat", Format: "notmat"}
	for i, l := range labels {
		r.Segments = append(r.Segments, annot.Segment{Label: l, Onset: float64(i), Offset: float64(i) + 0.5})
	}
	return r
}

// spectDirFixture writes one npz-named spectrogram per audio name into a
// temp dir, registers arrays for each in store and returns the dir.
func spectDirFixture(t *testing.T, store *memStore, audioNames ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range audioNames {
		p := filepath.Join(dir, name+".spect.npz")
		touch(t, p)
		store.arrays[p] = testArrays(4, 10, 0.002)
	}
	return dir
}
