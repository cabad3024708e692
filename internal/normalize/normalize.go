// Package normalize assembles the objects a dialect parser produces,
// together with the @renamed annotations internal/annotate extracted from
// the same source text, into the canonical ObjectSet the diff engine
// consumes. It is the only place RenamedFrom fields get populated.
package normalize

import (
	"fmt"

	"github.com/shuymn/stateql/internal/annotate"
	"github.com/shuymn/stateql/internal/core"
)

// ParsedTable pairs a parsed Table with the line information the dialect
// parser recorded for it: the span of the whole CREATE TABLE statement,
// and the single line each column definition started on. Renames on a
// column's own line attach to the column; any other line inside the
// table's span attaches to the table itself.
type ParsedTable struct {
	Table       *core.Table
	Span        core.LineSpan
	ColumnLines map[string]int
}

// ParsedObject pairs any other schema object with the source line span the
// parser attributed to it. Only tables support column-level renames; every
// other object kind can only be renamed as a whole.
type ParsedObject struct {
	Object core.SchemaObject
	Span   core.LineSpan
}

// Result is the outcome of Assemble: the finished object set plus any
// annotations whose Deprecated flag was set, so callers can surface a
// warning for the legacy @rename spelling without failing the build.
type Result struct {
	Objects    *core.ObjectSet
	Deprecated []annotate.Annotation
}

// OrphanError reports an @renamed annotation whose line did not fall
// within any parsed object's span.
type OrphanError struct {
	Annotation annotate.Annotation
}

func (e *OrphanError) Error() string {
	return fmt.Sprintf("normalize: line %d: @renamed from=%s does not annotate any parsed object",
		e.Annotation.Line, e.Annotation.OldName.String())
}

// Assemble attaches each annotation to the table, column, or other object
// whose source span contains its line, populating RenamedFrom accordingly.
// An annotation that matches no object's span is an OrphanError: spec.md
// §4.1 treats an annotation nobody claims as a build failure rather than a
// silently dropped hint.
func Assemble(tables []ParsedTable, others []ParsedObject, annotations []annotate.Annotation) (*Result, error) {
	objects := make([]core.SchemaObject, 0, len(tables)+len(others))
	for i := range tables {
		objects = append(objects, tables[i].Table)
	}
	for _, o := range others {
		objects = append(objects, o.Object)
	}

	res := &Result{Objects: &core.ObjectSet{Objects: objects}}

	for _, ann := range annotations {
		if ann.Deprecated {
			res.Deprecated = append(res.Deprecated, ann)
		}

		if attachToTable(tables, ann) {
			continue
		}
		if attachToOther(others, ann) {
			continue
		}
		return nil, &OrphanError{Annotation: ann}
	}

	return res, nil
}

func attachToTable(tables []ParsedTable, ann annotate.Annotation) bool {
	for i := range tables {
		pt := &tables[i]
		if !pt.Span.Contains(ann.Line) {
			continue
		}
		for colName, line := range pt.ColumnLines {
			if line != ann.Line {
				continue
			}
			col := pt.Table.FindColumn(core.NewIdentifier(colName))
			if col == nil {
				continue
			}
			old := ann.OldName
			col.RenamedFrom = &old
			return true
		}
		old := core.QualifiedName{Schema: pt.Table.Name.Schema, Name: ann.OldName}
		pt.Table.RenamedFrom = &old
		return true
	}
	return false
}

func attachToOther(others []ParsedObject, ann annotate.Annotation) bool {
	for i := range others {
		po := &others[i]
		if !po.Span.Contains(ann.Line) {
			continue
		}
		// Only tables carry a RenamedFrom today (spec.md's worked examples
		// and internal/order's sub-priorities only name table/column
		// renames); a non-table object's span still absorbs the
		// annotation so it is not reported as orphaned, but there is
		// nowhere to record the rename itself.
		return true
	}
	return false
}
