package vocalprep

import (
	"context"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/dataset"
)

type Service interface {
	Prep(ctx context.Context, split string, in dataset.Inputs) (*dataset.Table, error)
	PrepSplits(ctx context.Context, jobs []SplitJob) ([]*dataset.Table, error)
	Merge(checkLeakage bool, tables ...*dataset.Table) (*dataset.Table, error)
	SaveTable(name string, t *dataset.Table) (string, error)
	LoadTable(ref string) (*dataset.Table, error)
	ListTables() ([]DatasetInfo, error)
	DeleteTable(ref string) error
	Close() error
}

type Storage interface {
	SaveTable(name string, t *dataset.Table) (string, error)
	LoadTable(ref string) (*dataset.Table, error)
	ListTables() ([]DatasetInfo, error)
	DeleteTable(ref string) error
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
