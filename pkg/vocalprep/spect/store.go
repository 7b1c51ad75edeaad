package spect

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/himanishpuri/vocalprep/pkg/utils"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"
)

// Store reads and writes spectrogram files. Implementations must allow
// concurrent writes of distinct paths.
type Store interface {
	// Supports reports whether the store has a codec for the container.
	Supports(format formats.Spect) bool
	Load(path string, keys Keys) (*Arrays, error)
	Save(path string, arr *Arrays, keys Keys) error
}

// SupportedFormats lists the containers s can read and write.
func SupportedFormats(s Store) []formats.Spect {
	var out []formats.Spect
	for _, f := range formats.SpectFormats() {
		if s.Supports(f) {
			out = append(out, f)
		}
	}
	return out
}

// ErrContainerUnsupported is returned by FileStore for a valid container
// format it has no codec for.
var ErrContainerUnsupported = errors.New("array container not supported by this store")

// FileStore keeps spectrograms as numpy .npz archives on the local
// filesystem.
type FileStore struct{}

func NewFileStore() *FileStore { return &FileStore{} }

func (s *FileStore) Supports(format formats.Spect) bool { return format == formats.SpectNpz }

func containerOf(path string) formats.Spect {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range formats.SpectFormats() {
		if s.Ext() == ext {
			return s
		}
	}
	return ""
}

func (s *FileStore) Load(path string, keys Keys) (*Arrays, error) {
	if c := containerOf(path); !s.Supports(c) {
		return nil, fmt.Errorf("load %s: %w (%q)", path, ErrContainerUnsupported, c)
	}

	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	arr := &Arrays{Spect: &mat.Dense{}}
	if err := r.Read(keys.Spect, arr.Spect); err != nil {
		return nil, fmt.Errorf("read %q from %s: %w", keys.Spect, path, err)
	}
	if err := r.Read(keys.Freqs, &arr.Freqs); err != nil {
		return nil, fmt.Errorf("read %q from %s: %w", keys.Freqs, path, err)
	}
	if err := r.Read(keys.Times, &arr.Times); err != nil {
		return nil, fmt.Errorf("read %q from %s: %w", keys.Times, path, err)
	}
	return arr, nil
}

// Save writes arr to path through a temporary file, so readers never see a
// partially written archive.
func (s *FileStore) Save(path string, arr *Arrays, keys Keys) error {
	if c := containerOf(path); !s.Supports(c) {
		return fmt.Errorf("save %s: %w (%q)", path, ErrContainerUnsupported, c)
	}
	if arr == nil || arr.Spect == nil {
		return errors.New("no spectrogram to save")
	}

	return utils.WriteFileAtomic(path, func(tmp string) error {
		w, err := npz.Create(tmp)
		if err != nil {
			return err
		}
		if err := w.Write(keys.Spect, arr.Spect); err != nil {
			w.Close()
			return err
		}
		if err := w.Write(keys.Freqs, arr.Freqs); err != nil {
			w.Close()
			return err
		}
		if err := w.Write(keys.Times, arr.Times); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	})
}
