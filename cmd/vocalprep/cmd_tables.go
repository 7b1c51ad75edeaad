package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/dataset"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}
			defer svc.Close()

			infos, err := svc.ListTables()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("No tables stored.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSPLIT\tROWS\tDURATION (s)\tCREATED")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%s\n",
					info.ID, info.Name, info.Split, info.Rows, info.TotalDuration,
					info.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newShowCmd() *cobra.Command {
	var csvOut string
	var limit int
	cmd := &cobra.Command{
		Use:   "show <id-or-name>",
		Short: "Print or export a stored table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}
			defer svc.Close()

			table, err := svc.LoadTable(args[0])
			if err != nil {
				return err
			}
			if csvOut != "" {
				return dataset.SaveCSV(csvOut, table)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, strings.ToUpper(strings.Join(table.Columns, "\t")))
			for i, r := range table.Rows {
				if limit > 0 && i >= limit {
					fmt.Fprintf(w, "... %d more rows\n", table.Len()-limit)
					break
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.3f\t%g",
					r.SpectPath, r.AudioPath, r.AnnotPath, r.AnnotFormat,
					strings.Join(r.Labels, ""), r.Duration, r.TimebinDur)
				if table.HasSplit() {
					fmt.Fprintf(w, "\t%s", r.Split)
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&csvOut, "csv", "", "Write the table to this CSV file instead of printing it")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Rows to print (0 for all)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id-or-name>",
		Short: "Delete a stored table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.DeleteTable(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}
