package diff

import (
	"github.com/shuymn/stateql/internal/core"
)

// findByName returns the object in objs whose ObjectName matches name,
// and whether one was found. Search is linear because schemas are small
// enough (tens to low thousands of objects) that a name-equality helper
// mattering more than O(1) lookup would be premature.
func findByName(objs []core.SchemaObject, name core.QualifiedName) (core.SchemaObject, bool) {
	for _, o := range objs {
		if o.ObjectName().Equal(name) {
			return o, true
		}
	}
	return nil, false
}

// diffGeneric matches current/desired objects of a single kind purely by
// name (no rename tracking: only Table and Column carry RenamedFrom).
func diffGeneric(kind core.ObjectKind, current, desired []core.SchemaObject, opts Options) []DiffOp {
	var ops []DiffOp
	matchedCurrent := make(map[core.SchemaObject]bool, len(current))

	for _, d := range desired {
		c, ok := findByName(current, d.ObjectName())
		if !ok {
			ops = append(ops, DiffOp{Kind: OpCreate, ObjectKind: kind, Name: d.ObjectName(), New: d})
			continue
		}
		matchedCurrent[c] = true
		if !opts.Equivalence.Equal(c, d) {
			ops = append(ops, DiffOp{Kind: OpAlter, ObjectKind: kind, Name: d.ObjectName(), Old: c, New: d, Detail: "definition changed"})
		}
	}

	for _, c := range current {
		if matchedCurrent[c] {
			continue
		}
		ops = append(ops, DiffOp{Kind: OpDrop, ObjectKind: kind, Name: c.ObjectName(), Old: c})
	}

	return ops
}
