package dataset

import (
	"slices"
	"sort"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
)

// Concatenate appends the rows of tables in order. All tables must have
// the same columns in the same order. Rows are not deduplicated across
// tables; see FindDuplicates.
func Concatenate(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return NewTable(), nil
	}

	want := tables[0].Columns
	out := &Table{Columns: slices.Clone(want)}
	for _, t := range tables {
		if !slices.Equal(t.Columns, want) {
			return nil, &errs.SchemaMismatchError{Want: slices.Clone(want), Got: slices.Clone(t.Columns)}
		}
		out.Rows = append(out.Rows, t.Clone().Rows...)
	}
	return out, nil
}

// FindDuplicates returns, sorted, the spectrogram paths that appear in
// more than one of tables. Repeats inside a single table are not reported.
func FindDuplicates(tables ...*Table) []string {
	owners := make(map[string]int)
	for _, t := range tables {
		seen := make(map[string]struct{})
		for _, r := range t.Rows {
			if _, ok := seen[r.SpectPath]; ok {
				continue
			}
			seen[r.SpectPath] = struct{}{}
			owners[r.SpectPath]++
		}
	}

	var out []string
	for path, n := range owners {
		if n > 1 {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}
