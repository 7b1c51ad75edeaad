package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/dataset"
	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	var (
		checkLeakage bool
		saveAs       string
		csvOut       string
	)
	cmd := &cobra.Command{
		Use:   "merge <table>...",
		Short: "Concatenate tables (CSV files or stored tables) into one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}
			defer svc.Close()

			tables := make([]*dataset.Table, 0, len(args))
			for _, ref := range args {
				t, err := loadTableRef(svc, ref)
				if err != nil {
					return err
				}
				tables = append(tables, t)
			}

			merged, err := svc.Merge(checkLeakage, tables...)
			if err != nil {
				return err
			}
			fmt.Printf("Merged %d tables: %d rows, %.1f s\n", len(tables), merged.Len(), merged.TotalDuration())

			if csvOut != "" {
				if err := dataset.SaveCSV(csvOut, merged); err != nil {
					return err
				}
			}
			if saveAs != "" {
				id, err := svc.SaveTable(saveAs, merged)
				if err != nil {
					return err
				}
				fmt.Printf("Stored as %s (%s)\n", saveAs, id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkLeakage, "check-leakage", false, "Fail if a spectrogram appears in more than one input table")
	cmd.Flags().StringVar(&saveAs, "save", "", "Store the merged table under this name")
	cmd.Flags().StringVar(&csvOut, "csv", "", "Write the merged table to this CSV file")
	return cmd
}

// loadTableRef reads ref as a CSV file when one exists at that path, and
// as a stored table ID or name otherwise.
func loadTableRef(svc vocalprep.Service, ref string) (*dataset.Table, error) {
	if strings.HasSuffix(strings.ToLower(ref), ".csv") {
		if _, err := os.Stat(ref); err == nil {
			return dataset.LoadCSV(ref)
		}
	}
	return svc.LoadTable(ref)
}
