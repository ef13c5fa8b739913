package har

import (
	"context"
	"regexp"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Partition tags in concatenation order.
const (
	TestPartition  = "test"
	TrainPartition = "train"
)

// PartitionSource loads a single partition by tag. *Loader implements it.
type PartitionSource interface {
	LoadPartition(ctx context.Context, tag string) (*Partition, error)
}

// MergeOptions controls Merge.
type MergeOptions struct {
	// Parallel loads both partitions concurrently. Row order is unaffected.
	Parallel bool
}

var renameRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`[^[:alnum:]]+mean[^[:alnum:]]+`), "Mean"},
	{regexp.MustCompile(`[^[:alnum:]]+std[^[:alnum:]]+`), "Std"},
}

// RenameVariable turns a raw feature name into its friendly form,
// e.g. "tBodyAcc-mean()-X" becomes "tBodyAccMeanX".
func RenameVariable(name string) string {
	for _, r := range renameRules {
		name = r.re.ReplaceAllString(name, r.repl)
	}
	return name
}

// Merge loads the test and train partitions and concatenates them, test rows first.
func Merge(ctx context.Context, src PartitionSource, opt MergeOptions) (*Merged, error) {
	tags := []string{TestPartition, TrainPartition}
	parts := make([]*Partition, len(tags))

	if opt.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, tag := range tags {
			g.Go(func() error {
				p, err := src.LoadPartition(gctx, tag)
				if err != nil {
					return err
				}
				parts[i] = p
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, tag := range tags {
			p, err := src.LoadPartition(ctx, tag)
			if err != nil {
				return nil, err
			}
			parts[i] = p
		}
	}

	first := parts[0]
	for _, p := range parts[1:] {
		if !slices.Equal(first.Variables, p.Variables) {
			return nil, &SchemaMismatchError{
				Left: first.Tag, Right: p.Tag,
				LeftVars: first.Variables, RightVars: p.Variables,
			}
		}
	}

	m := &Merged{Variables: make([]string, len(first.Variables))}
	for i, v := range first.Variables {
		m.Variables[i] = RenameVariable(v)
	}
	total := 0
	for _, p := range parts {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		total += len(p.Rows)
	}
	m.Rows = make([]Observation, 0, total)
	for _, p := range parts {
		m.Rows = append(m.Rows, p.Rows...)
		m.Sources = append(m.Sources, PartitionCount{Tag: p.Tag, Rows: len(p.Rows)})
	}
	return m, nil
}
