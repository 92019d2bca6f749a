package ingest

import (
	"fmt"
)

// ResolutionError reports a natural key that could neither be inserted nor
// looked up. No row referencing the key may be loaded, so the run aborts.
type ResolutionError struct {
	Entity string
	Key    string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve %s %q: key neither inserted nor found", e.Entity, e.Key)
}

// MappingError reports an input row referencing a natural key absent from
// the resolved map. Skipping the row would silently drop or double-count
// downstream fact rows, so the run aborts instead.
type MappingError struct {
	Entity string
	Key    string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s %q is not present in the resolved key map", e.Entity, e.Key)
}
