package har

// Label attaches an activity name to every merged row. Rows whose ActivityID is not in
// labels are dropped and counted in Labeled.Dropped.
func Label(m *Merged, labels ActivityLabels) *Labeled {
	out := &Labeled{
		Variables: m.Variables,
		Rows:      make([]LabeledObservation, 0, len(m.Rows)),
	}
	for _, r := range m.Rows {
		name, ok := labels[r.ActivityID]
		if !ok {
			out.Dropped++
			continue
		}
		out.Rows = append(out.Rows, LabeledObservation{Observation: r, ActivityName: name})
	}
	return out
}
