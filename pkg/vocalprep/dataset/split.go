package dataset

import (
	"fmt"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
)

// AssignSplit returns a copy of t with every row stamped with split. A
// table carries at most one split; assigning a second one fails with
// SplitAlreadyAssignedError.
func AssignSplit(t *Table, split string) (*Table, error) {
	if split == "" {
		return nil, fmt.Errorf("%w: split name must not be empty", errs.ErrConfig)
	}
	if t.HasSplit() {
		return nil, &errs.SplitAlreadyAssignedError{Existing: t.SplitName()}
	}

	out := t.Clone()
	out.Columns = append(out.Columns, ColSplit)
	for i := range out.Rows {
		out.Rows[i].Split = split
	}
	return out, nil
}
