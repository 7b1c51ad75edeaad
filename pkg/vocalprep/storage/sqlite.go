// Package storage persists canonical tables in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/himanishpuri/vocalprep/pkg/utils"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/dataset"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultDBFile = "vocalprep.sqlite3"
const errDBClientNil = "db client is nil"

var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrDatasetExists   = errors.New("dataset already exists")
)

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// Dataset is the header of a stored table.
type Dataset struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name          string    `gorm:"uniqueIndex:idx_dataset_name" json:"name"`
	Split         string    `gorm:"index:idx_dataset_split" json:"split"`
	Columns       string    `json:"columns"`
	RowCount      int       `json:"row_count"`
	TotalDuration float64   `json:"total_duration"`
	CreatedAt     time.Time `json:"created_at"`
}

// DatasetRow is one table row; Position keeps the table order.
type DatasetRow struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	DatasetID   string  `gorm:"type:varchar(36);index:idx_dataset_pos,priority:1" json:"dataset_id"`
	Position    int     `gorm:"index:idx_dataset_pos,priority:2" json:"position"`
	SpectPath   string  `gorm:"index:idx_spect_path" json:"spect_path"`
	AudioPath   string  `json:"audio_path"`
	AnnotPath   string  `json:"annot_path"`
	AnnotFormat string  `json:"annot_format"`
	Labels      string  `json:"labels"`
	Duration    float64 `json:"duration"`
	TimebinDur  float64 `json:"timebin_dur"`
	Split       string  `json:"split"`
}

func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("VOCALPREP_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !os.IsExist(err) {
		if filepath.Dir(dbPath) != "." {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_pragma=foreign_keys(1)"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Dataset{}, &DatasetRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// SaveTable stores t under name and returns the new dataset ID. Names are
// unique.
func (c *DBClient) SaveTable(name string, t *dataset.Table) (string, error) {
	if c == nil || c.DB == nil {
		return "", errors.New(errDBClientNil)
	}
	if name == "" {
		return "", fmt.Errorf("%w: dataset name must not be empty", errs.ErrConfig)
	}

	ds := Dataset{
		ID:            utils.GenerateUUID(),
		Name:          name,
		Split:         t.SplitName(),
		Columns:       strings.Join(t.Columns, ","),
		RowCount:      t.Len(),
		TotalDuration: t.TotalDuration(),
	}

	rows := make([]DatasetRow, 0, t.Len())
	for i, r := range t.Rows {
		labels, err := dataset.EncodeLabels(r.Labels)
		if err != nil {
			return "", fmt.Errorf("encoding labels of %s: %w", r.SpectPath, err)
		}
		rows = append(rows, DatasetRow{
			DatasetID:   ds.ID,
			Position:    i,
			SpectPath:   r.SpectPath,
			AudioPath:   r.AudioPath,
			AnnotPath:   r.AnnotPath,
			AnnotFormat: string(r.AnnotFormat),
			Labels:      labels,
			Duration:    r.Duration,
			TimebinDur:  r.TimebinDur,
			Split:       r.Split,
		})
	}

	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ds).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrDatasetExists, name)
			}
			return fmt.Errorf("creating dataset: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 500).Error; err != nil {
				return fmt.Errorf("batch insert rows: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return ds.ID, nil
}

// GetDataset finds a dataset by ID or, failing that, by name.
func (c *DBClient) GetDataset(ref string) (*Dataset, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var ds Dataset
	err := c.DB.Where("id = ?", ref).First(&ds).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = c.DB.Where("name = ?", ref).First(&ds).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("querying dataset: %w", err)
	}
	return &ds, nil
}

// LoadTable returns a stored table with its rows in their saved order.
func (c *DBClient) LoadTable(ref string) (*dataset.Table, *Dataset, error) {
	ds, err := c.GetDataset(ref)
	if err != nil {
		return nil, nil, err
	}

	columns := strings.Split(ds.Columns, ",")
	if !slices.Equal(columns, dataset.BaseColumns) && !slices.Equal(columns, dataset.SplitColumns()) {
		return nil, nil, &errs.SchemaMismatchError{Want: dataset.SplitColumns(), Got: columns}
	}

	var rows []DatasetRow
	if err := c.DB.Where("dataset_id = ?", ds.ID).Order("position").Find(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("querying rows: %w", err)
	}

	t := &dataset.Table{Columns: columns, Rows: make([]dataset.Row, 0, len(rows))}
	for _, r := range rows {
		labels, err := dataset.DecodeLabels(r.Labels)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", r.Position, err)
		}
		t.Rows = append(t.Rows, dataset.Row{
			SpectPath:   r.SpectPath,
			AudioPath:   r.AudioPath,
			AnnotPath:   r.AnnotPath,
			AnnotFormat: formats.Annot(r.AnnotFormat),
			Labels:      labels,
			Duration:    r.Duration,
			TimebinDur:  r.TimebinDur,
			Split:       r.Split,
		})
	}
	return t, ds, nil
}

func (c *DBClient) ListDatasets() ([]Dataset, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var out []Dataset
	if err := c.DB.Order("created_at, name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	return out, nil
}

// DeleteTable removes a dataset and its rows.
func (c *DBClient) DeleteTable(ref string) error {
	ds, err := c.GetDataset(ref)
	if err != nil {
		return err
	}
	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset_id = ?", ds.ID).Delete(&DatasetRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", ds.ID).Delete(&Dataset{}).Error; err != nil {
			return err
		}
		return nil
	})
}

// RowCount counts stored rows of a dataset.
func (c *DBClient) RowCount(datasetID string) (int, error) {
	if c == nil || c.DB == nil {
		return 0, errors.New(errDBClientNil)
	}
	var n int64
	if err := c.DB.Model(&DatasetRow{}).Where("dataset_id = ?", datasetID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return int(n), nil
}
