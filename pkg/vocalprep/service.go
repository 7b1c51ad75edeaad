// Package vocalprep assembles audio, spectrograms and annotations into
// per-split training tables and stores them.
package vocalprep

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/himanishpuri/vocalprep/pkg/logger"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/annot"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/dataset"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/spect"
	"golang.org/x/sync/errgroup"
)

// prepService is the default implementation of the Service interface.
type prepService struct {
	storage Storage
	log     Logger
	config  *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	if cfg.Store == nil {
		cfg.Store = spect.NewFileStore()
	}
	if cfg.Transform == nil {
		cfg.Transform = spect.STFT{}
	}
	if cfg.Parsers == nil {
		cfg.Parsers = annot.NewRegistry()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	var stor Storage
	var err error
	if cfg.Storage != nil {
		stor = cfg.Storage
	} else {
		stor, err = NewSQLiteStorage(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
	}

	return &prepService{
		storage: stor,
		log:     cfg.Logger,
		config:  cfg,
	}, nil
}

func (s *prepService) splitLogger(split string) Logger {
	if l, ok := s.log.(*logger.Logger); ok && split != "" {
		return l.With("split=" + split)
	}
	return s.log
}

func (s *prepService) builder(split string) *dataset.Builder {
	b := &dataset.Builder{
		Store:     s.config.Store,
		Transform: s.config.Transform,
		Parsers:   s.config.Parsers,
		Log:       s.splitLogger(split),
	}
	if s.config.Progress != nil {
		b.Progress = s.config.Progress(split)
	}
	return b
}

// Prep builds one table and, when split is not empty, assigns it.
func (s *prepService) Prep(ctx context.Context, split string, in dataset.Inputs) (*dataset.Table, error) {
	table, err := s.builder(split).Build(ctx, in)
	if err != nil {
		return nil, err
	}
	if split == "" {
		return table, nil
	}
	return dataset.AssignSplit(table, split)
}

// PrepSplits prepares every job concurrently and returns the tables in job
// order. Spectrograms computed from audio go to <OutputDir>/<split>, so
// splits never write the same file. The first failure cancels the other
// jobs; files they already wrote stay on disk.
func (s *prepService) PrepSplits(ctx context.Context, jobs []SplitJob) ([]*dataset.Table, error) {
	names := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		if job.Name == "" {
			return nil, fmt.Errorf("%w: split name must not be empty", errs.ErrConfig)
		}
		if _, dup := names[job.Name]; dup {
			return nil, &errs.AmbiguousInputError{Reason: fmt.Sprintf("split %q given twice", job.Name)}
		}
		names[job.Name] = struct{}{}
	}

	tables := make([]*dataset.Table, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i, job := range jobs {
		i, job := i, job
		in := job.Inputs
		base := in.OutputDir
		if base == "" {
			base = s.config.OutputDir
		}
		if base != "" {
			in.OutputDir = filepath.Join(base, job.Name)
		}

		g.Go(func() error {
			table, err := s.Prep(gctx, job.Name, in)
			if err != nil {
				return fmt.Errorf("split %s: %w", job.Name, err)
			}
			tables[i] = table
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Merge concatenates tables. With checkLeakage it first fails if any
// spectrogram belongs to more than one of them.
func (s *prepService) Merge(checkLeakage bool, tables ...*dataset.Table) (*dataset.Table, error) {
	if checkLeakage {
		if dups := dataset.FindDuplicates(tables...); len(dups) > 0 {
			return nil, &errs.SplitLeakageError{SpectPaths: dups}
		}
	}
	merged, err := dataset.Concatenate(tables...)
	if err != nil {
		return nil, err
	}
	s.log.Infof("merged %d tables into %d rows", len(tables), merged.Len())
	return merged, nil
}

func (s *prepService) SaveTable(name string, t *dataset.Table) (string, error) {
	id, err := s.storage.SaveTable(name, t)
	if err != nil {
		return "", err
	}
	s.log.Infof("saved table %s (%d rows) as %s", name, t.Len(), id)
	return id, nil
}

func (s *prepService) LoadTable(ref string) (*dataset.Table, error) {
	return s.storage.LoadTable(ref)
}

func (s *prepService) ListTables() ([]DatasetInfo, error) {
	return s.storage.ListTables()
}

func (s *prepService) DeleteTable(ref string) error {
	return s.storage.DeleteTable(ref)
}

func (s *prepService) Close() error {
	return s.storage.Close()
}
