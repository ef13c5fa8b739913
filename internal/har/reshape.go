package har

import (
	"cmp"
	"math"
	"slices"
)

// MeltedRow is one (identifiers, variable, value) record of the long form.
type MeltedRow struct {
	ActivityID   int
	ActivityName string
	SubjectID    int
	Variable     string
	Value        float64
}

// ReshapeOptions controls Reshape.
type ReshapeOptions struct {
	// Required groups must be present in the data, otherwise Reshape fails with EmptyGroupError.
	Required []GroupKey
}

// Melt streams the long form of l to fn, variable by variable, each in row order.
func Melt(l *Labeled, fn func(MeltedRow) error) error {
	for j, v := range l.Variables {
		for _, r := range l.Rows {
			err := fn(MeltedRow{
				ActivityID:   r.ActivityID,
				ActivityName: r.ActivityName,
				SubjectID:    r.SubjectID,
				Variable:     v,
				Value:        r.Values[j],
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

type meanAcc struct {
	sum []float64
	n   []int
}

// Reshape melts l and recasts it in one pass: each melted row goes to sink (if non-nil)
// and into a running mean per (ActivityName, SubjectID, variable). NaN values are skipped;
// a cell with no non-NaN values is NaN.
func Reshape(l *Labeled, opt ReshapeOptions, sink func(MeltedRow) error) (*Tidy, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	col := make(map[string]int, len(l.Variables))
	for j, v := range l.Variables {
		if _, dup := col[v]; !dup {
			col[v] = j
		}
	}
	groups := map[GroupKey]*meanAcc{}
	err := Melt(l, func(r MeltedRow) error {
		if sink != nil {
			if err := sink(r); err != nil {
				return err
			}
		}
		k := GroupKey{ActivityName: r.ActivityName, SubjectID: r.SubjectID}
		acc := groups[k]
		if acc == nil {
			acc = &meanAcc{sum: make([]float64, len(l.Variables)), n: make([]int, len(l.Variables))}
			groups[k] = acc
		}
		if math.IsNaN(r.Value) {
			return nil
		}
		j := col[r.Variable]
		acc.sum[j] += r.Value
		acc.n[j]++
		return nil
	})
	if err != nil {
		return nil, err
	}

	var missing []GroupKey
	for _, k := range opt.Required {
		if _, ok := groups[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, &EmptyGroupError{Missing: missing}
	}

	// Duplicate variable names collapse into their first column.
	vars := make([]string, 0, len(col))
	for j, v := range l.Variables {
		if col[v] == j {
			vars = append(vars, v)
		}
	}
	t := &Tidy{Variables: vars, Rows: make([]TidyRow, 0, len(groups))}
	for k, acc := range groups {
		row := TidyRow{GroupKey: k, Means: make([]float64, 0, len(vars))}
		for j, v := range l.Variables {
			if col[v] != j {
				continue
			}
			if acc.n[j] == 0 {
				row.Means = append(row.Means, math.NaN())
				continue
			}
			row.Means = append(row.Means, acc.sum[j]/float64(acc.n[j]))
		}
		t.Rows = append(t.Rows, row)
	}
	slices.SortFunc(t.Rows, func(a, b TidyRow) int {
		return cmp.Or(cmp.Compare(a.ActivityName, b.ActivityName), cmp.Compare(a.SubjectID, b.SubjectID))
	})
	return t, nil
}
