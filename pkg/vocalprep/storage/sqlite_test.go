package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/dataset"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
)

// Helper function to create a temporary test database
func setupTestDB(t *testing.T) (*DBClient, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test_vocalprep.sqlite3")

	oldPath := os.Getenv("VOCALPREP_DB_PATH")
	os.Setenv("VOCALPREP_DB_PATH", dbPath)
	t.Cleanup(func() {
		if oldPath == "" {
			os.Unsetenv("VOCALPREP_DB_PATH")
		} else {
			os.Setenv("VOCALPREP_DB_PATH", oldPath)
		}
	})

	client, err := NewDBClient()
	if err != nil {
		t.Fatalf("Failed to create test DB client: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	return client, dbPath
}

func testTable(t *testing.T, split string) *dataset.Table {
	t.Helper()
	table := dataset.NewTable()
	table.Rows = []dataset.Row{
		{
			SpectPath:   "/prep/train/b.cbin.spect.npz",
			AudioPath:   "/raw/b.cbin",
			AnnotPath:   "/raw/b.cbin.not.mat",
			AnnotFormat: formats.AnnotNotmat,
			Labels:      []string{"i", "a", "b"},
			Duration:    1.0 / 3.0,
			TimebinDur:  0.002,
		},
		{
			SpectPath:  "/prep/train/a.cbin.spect.npz",
			Labels:     []string{},
			Duration:   2.5e-3,
			TimebinDur: 0.002,
		},
	}
	if split == "" {
		return table
	}
	out, err := dataset.AssignSplit(table, split)
	if err != nil {
		t.Fatalf("AssignSplit: %v", err)
	}
	return out
}

// TestNewDBClient tests database initialization
func TestNewDBClient(t *testing.T) {
	client, dbPath := setupTestDB(t)

	if client.DB == nil {
		t.Fatal("Expected non-nil GORM DB handle")
	}
	if client.db == nil {
		t.Fatal("Expected non-nil sql.DB handle")
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("Database file was not created at %s", dbPath)
	}
}

// TestNewDBClientWithCustomPath tests database creation in a missing directory
func TestNewDBClientWithCustomPath(t *testing.T) {
	customPath := filepath.Join(t.TempDir(), "subdir", "custom.db")

	client, err := NewDBClientWithPath(customPath)
	if err != nil {
		t.Fatalf("Failed to create DB with custom path: %v", err)
	}
	defer client.Close()

	if _, err := os.Stat(customPath); os.IsNotExist(err) {
		t.Errorf("Database file was not created at custom path %s", customPath)
	}
}

// TestSaveLoadTable checks that a stored table comes back unchanged
func TestSaveLoadTable(t *testing.T) {
	client, _ := setupTestDB(t)

	for _, split := range []string{"", "train"} {
		table := testTable(t, split)
		name := "bird-" + split

		id, err := client.SaveTable(name, table)
		if err != nil {
			t.Fatalf("Failed to save table: %v", err)
		}

		byID, ds, err := client.LoadTable(id)
		if err != nil {
			t.Fatalf("Failed to load table by id: %v", err)
		}
		if !reflect.DeepEqual(byID, table) {
			t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", byID, table)
		}
		if ds.Split != split {
			t.Errorf("Expected split %q, got %q", split, ds.Split)
		}
		if ds.RowCount != 2 {
			t.Errorf("Expected row count 2, got %d", ds.RowCount)
		}

		byName, _, err := client.LoadTable(name)
		if err != nil {
			t.Fatalf("Failed to load table by name: %v", err)
		}
		if !reflect.DeepEqual(byName, table) {
			t.Errorf("Load by name returned a different table")
		}
	}
}

// TestSaveTableDuplicateName tests that dataset names are unique
func TestSaveTableDuplicateName(t *testing.T) {
	client, _ := setupTestDB(t)

	if _, err := client.SaveTable("train", testTable(t, "train")); err != nil {
		t.Fatalf("Failed to save table: %v", err)
	}
	_, err := client.SaveTable("train", testTable(t, "train"))
	if !errors.Is(err, ErrDatasetExists) {
		t.Fatalf("Expected ErrDatasetExists, got %v", err)
	}

	var count int64
	client.DB.Model(&DatasetRow{}).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 rows after rejected save, found %d", count)
	}
}

// TestSaveEmptyTable tests that a table without rows can be stored
func TestSaveEmptyTable(t *testing.T) {
	client, _ := setupTestDB(t)

	id, err := client.SaveTable("empty", dataset.NewTable())
	if err != nil {
		t.Fatalf("Failed to save empty table: %v", err)
	}
	table, _, err := client.LoadTable(id)
	if err != nil {
		t.Fatalf("Failed to load empty table: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("Expected no rows, got %d", table.Len())
	}
}

// TestListDatasets tests listing stored tables
func TestListDatasets(t *testing.T) {
	client, _ := setupTestDB(t)

	for _, name := range []string{"train", "val"} {
		if _, err := client.SaveTable(name, testTable(t, name)); err != nil {
			t.Fatalf("Failed to save %s: %v", name, err)
		}
	}

	list, err := client.ListDatasets()
	if err != nil {
		t.Fatalf("Failed to list datasets: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 datasets, got %d", len(list))
	}
	seen := map[string]bool{}
	for _, ds := range list {
		seen[ds.Name] = true
	}
	if !seen["train"] || !seen["val"] {
		t.Errorf("Unexpected dataset names: %+v", list)
	}
}

// TestDeleteTable tests that deletion removes the dataset and its rows
func TestDeleteTable(t *testing.T) {
	client, _ := setupTestDB(t)

	id, err := client.SaveTable("to-delete", testTable(t, "test"))
	if err != nil {
		t.Fatalf("Failed to save table: %v", err)
	}

	if err := client.DeleteTable("to-delete"); err != nil {
		t.Fatalf("Failed to delete table: %v", err)
	}

	if _, _, err := client.LoadTable(id); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("Expected ErrDatasetNotFound after delete, got %v", err)
	}
	n, err := client.RowCount(id)
	if err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected rows to be deleted, found %d", n)
	}

	if err := client.DeleteTable("to-delete"); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("Expected ErrDatasetNotFound for second delete, got %v", err)
	}
}

// TestNilClient tests that methods on a nil client fail cleanly
func TestNilClient(t *testing.T) {
	var client *DBClient

	if _, err := client.SaveTable("x", dataset.NewTable()); err == nil {
		t.Error("Expected error from nil client")
	}
	if _, err := client.ListDatasets(); err == nil {
		t.Error("Expected error from nil client")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client should be a no-op, got %v", err)
	}
}
