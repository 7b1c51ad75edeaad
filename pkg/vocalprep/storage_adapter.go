package vocalprep

import (
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/dataset"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/storage"
)

// storageAdapter adapts the storage.DBClient to implement the Storage interface.
type storageAdapter struct {
	db *storage.DBClient
}

// NewSQLiteStorage creates a new SQLite storage backend.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	db, err := storage.NewDBClientWithPath(dbPath)
	if err != nil {
		return nil, err
	}
	return &storageAdapter{db: db}, nil
}

func (s *storageAdapter) SaveTable(name string, t *dataset.Table) (string, error) {
	return s.db.SaveTable(name, t)
}

func (s *storageAdapter) LoadTable(ref string) (*dataset.Table, error) {
	t, _, err := s.db.LoadTable(ref)
	return t, err
}

func (s *storageAdapter) ListTables() ([]DatasetInfo, error) {
	rows, err := s.db.ListDatasets()
	if err != nil {
		return nil, err
	}
	out := make([]DatasetInfo, len(rows))
	for i, ds := range rows {
		out[i] = DatasetInfo{
			ID:            ds.ID,
			Name:          ds.Name,
			Split:         ds.Split,
			Rows:          ds.RowCount,
			TotalDuration: ds.TotalDuration,
			CreatedAt:     ds.CreatedAt,
		}
	}
	return out, nil
}

func (s *storageAdapter) DeleteTable(ref string) error {
	return s.db.DeleteTable(ref)
}

func (s *storageAdapter) Close() error {
	return s.db.Close()
}
