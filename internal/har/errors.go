package har

import (
	"errors"
	"fmt"
)

// MissingFileError indicates a required input file is absent.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("required file missing: %s", e.Path)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// MalformedDataError indicates an input file has the wrong shape or an unparsable value.
// Line is 1-based; zero means the problem is not tied to a single line.
type MalformedDataError struct {
	Path   string
	Line   int
	Reason string
}

func (e *MalformedDataError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed data in %s line %d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed data in %s: %s", e.Path, e.Reason)
}

// SchemaMismatchError indicates the two partitions produced different variable lists.
type SchemaMismatchError struct {
	Left, Right         string
	LeftVars, RightVars []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: %s has %d variables, %s has %d (first difference: %s)",
		e.Left, len(e.LeftVars), e.Right, len(e.RightVars), firstDifference(e.LeftVars, e.RightVars))
}

// EmptyGroupError indicates a required (activity, subject) group has no observations.
type EmptyGroupError struct {
	Missing []GroupKey
}

func (e *EmptyGroupError) Error() string {
	if len(e.Missing) == 1 {
		return fmt.Sprintf("required group %s has no observations", e.Missing[0])
	}
	return fmt.Sprintf("%d required groups have no observations (first: %s)", len(e.Missing), e.Missing[0])
}

// Kind names the error category of err, looking through wrapping.
// It returns "" for errors outside the taxonomy.
func Kind(err error) string {
	var (
		missing   *MissingFileError
		malformed *MalformedDataError
		schema    *SchemaMismatchError
		empty     *EmptyGroupError
	)
	switch {
	case errors.As(err, &missing):
		return "MissingFileError"
	case errors.As(err, &malformed):
		return "MalformedDataError"
	case errors.As(err, &schema):
		return "SchemaMismatchError"
	case errors.As(err, &empty):
		return "EmptyGroupError"
	}
	return ""
}

func firstDifference(a, b []string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return fmt.Sprintf("column %d %q vs %q", i+1, a[i], b[i])
		}
	}
	if len(a) != len(b) {
		return fmt.Sprintf("column %d present on one side only", n+1)
	}
	return "none"
}
