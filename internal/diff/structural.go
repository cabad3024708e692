package diff

import (
	"reflect"

	"github.com/shuymn/stateql/internal/core"
)

// structuralEqual compares two schema objects of the same kind field by
// field, ignoring RenamedFrom: that field records where an object came
// from, not what it currently looks like, and must never by itself cause
// an object to be reported as changed.
func structuralEqual(old, new core.SchemaObject) bool {
	if old == nil || new == nil {
		return old == new
	}
	if old.Kind() != new.Kind() {
		return false
	}

	oldClone := cloneWithoutProvenance(old)
	newClone := cloneWithoutProvenance(new)
	return reflect.DeepEqual(oldClone, newClone)
}

// cloneWithoutProvenance returns a shallow copy of obj with RenamedFrom
// cleared, for the two kinds that carry it.
func cloneWithoutProvenance(obj core.SchemaObject) core.SchemaObject {
	switch v := obj.(type) {
	case *core.Table:
		clone := *v
		clone.RenamedFrom = nil
		clone.Columns = make([]*core.Column, len(v.Columns))
		for i, c := range v.Columns {
			colClone := *c
			colClone.RenamedFrom = nil
			clone.Columns[i] = &colClone
		}
		return &clone
	default:
		return obj
	}
}
