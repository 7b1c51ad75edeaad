package vocalprep

import (
	"time"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/dataset"
)

// SplitJob describes one split to prepare.
type SplitJob struct {
	Name   string
	Inputs dataset.Inputs
}

// DatasetInfo summarizes a stored table.
type DatasetInfo struct {
	ID            string    // Storage ID (UUID)
	Name          string    // Unique name given when saved
	Split         string    // Split shared by the rows, if assigned
	Rows          int       // Number of rows
	TotalDuration float64   // Sum of row durations in seconds
	CreatedAt     time.Time // When the table was saved
}
