package pipeline

import (
	"github.com/KaramelBytes/tidyhar/internal/har"
	"github.com/KaramelBytes/tidyhar/internal/tabular"
)

func writeMerged(path string, m *har.Merged) error {
	w, err := tabular.Create(path)
	if err != nil {
		return err
	}
	header := append(append([]string{}, m.Variables...), "ActivityID", "SubjectID")
	if err := w.WriteHeader(header...); err != nil {
		w.Abort()
		return err
	}
	cells := make([]string, len(header))
	for _, r := range m.Rows {
		for j, v := range r.Values {
			cells[j] = tabular.Float(v)
		}
		cells[len(cells)-2] = tabular.Int(r.ActivityID)
		cells[len(cells)-1] = tabular.Int(r.SubjectID)
		if err := w.WriteRow(cells...); err != nil {
			w.Abort()
			return err
		}
	}
	return w.Commit()
}

// meltedSink returns a Reshape sink streaming the long form to w.
func meltedSink(w *tabular.Writer) func(har.MeltedRow) error {
	return func(r har.MeltedRow) error {
		return w.WriteRow(
			tabular.Int(r.ActivityID),
			tabular.Quote(r.ActivityName),
			tabular.Int(r.SubjectID),
			tabular.Quote(r.Variable),
			tabular.Float(r.Value),
		)
	}
}

var meltedHeader = []string{"ActivityID", "ActivityName", "SubjectID", "variable", "value"}

func writeTidy(path string, t *har.Tidy) error {
	w, err := tabular.Create(path)
	if err != nil {
		return err
	}
	header := append([]string{"ActivityName", "SubjectID"}, t.Variables...)
	if err := w.WriteHeader(header...); err != nil {
		w.Abort()
		return err
	}
	cells := make([]string, len(header))
	for _, r := range t.Rows {
		cells[0] = tabular.Quote(r.ActivityName)
		cells[1] = tabular.Int(r.SubjectID)
		for j, v := range r.Means {
			cells[j+2] = tabular.Float(v)
		}
		if err := w.WriteRow(cells...); err != nil {
			w.Abort()
			return err
		}
	}
	return w.Commit()
}
