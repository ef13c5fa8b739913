package har

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// Feature is one entry of features.txt.
type Feature struct {
	ID   int
	Name string
}

// Catalog is the ordered feature list defining the columns of every X matrix.
type Catalog []Feature

var selectPattern = regexp.MustCompile(`mean\(\)|std\(\)`)

// ReadCatalog reads features.txt from baseDir.
func ReadCatalog(baseDir string) (Catalog, error) {
	path := filepath.Join(baseDir, FeaturesFile)
	ids, names, err := readIDNamePairs(path)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, &MalformedDataError{Path: path, Reason: "no features"}
	}
	c := make(Catalog, len(ids))
	for i := range ids {
		c[i] = Feature{ID: ids[i], Name: names[i]}
	}
	return c, nil
}

// Selected returns the positions and names of the mean()/std() features in catalog order.
func (c Catalog) Selected() (idx []int, names []string) {
	for i, f := range c {
		if selectPattern.MatchString(f.Name) {
			idx = append(idx, i)
			names = append(names, f.Name)
		}
	}
	return idx, names
}

// ActivityLabels maps ActivityID to ActivityName.
type ActivityLabels map[int]string

// ReadActivityLabels reads activity_labels.txt from baseDir.
func ReadActivityLabels(baseDir string) (ActivityLabels, error) {
	path := filepath.Join(baseDir, ActivityLabelsFile)
	ids, names, err := readIDNamePairs(path)
	if err != nil {
		return nil, err
	}
	labels := make(ActivityLabels, len(ids))
	for i, id := range ids {
		if prev, dup := labels[id]; dup {
			return nil, &MalformedDataError{Path: path,
				Reason: fmt.Sprintf("activity %d labeled twice (%s, %s)", id, prev, names[i])}
		}
		labels[id] = names[i]
	}
	return labels, nil
}
