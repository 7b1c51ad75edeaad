package vocalprep

import (
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/annot"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/dataset"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/spect"
)

type Config struct {
	DBPath    string
	OutputDir string
	Workers   int
	Logger    Logger
	Storage   Storage
	Store     spect.Store
	Transform spect.Transform
	Parsers   *annot.Registry
	Progress  func(split string) dataset.Progress
}

type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

// WithOutputDir sets the directory spectrograms computed from audio are
// written to. Each split gets its own subdirectory.
func WithOutputDir(dir string) Option {
	return func(c *Config) {
		c.OutputDir = dir
	}
}

// WithWorkers bounds how many splits are prepared at once.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

func WithStore(store spect.Store) Option {
	return func(c *Config) {
		c.Store = store
	}
}

func WithTransform(t spect.Transform) Option {
	return func(c *Config) {
		c.Transform = t
	}
}

func WithParsers(r *annot.Registry) Option {
	return func(c *Config) {
		c.Parsers = r
	}
}

// WithProgress installs a per-split progress callback factory.
func WithProgress(f func(split string) dataset.Progress) Option {
	return func(c *Config) {
		c.Progress = f
	}
}

func defaultConfig() *Config {
	return &Config{
		DBPath:  "vocalprep.sqlite3",
		Workers: 3,
	}
}
