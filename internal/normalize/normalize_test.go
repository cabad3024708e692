package normalize

import (
	"testing"

	"github.com/shuymn/stateql/internal/annotate"
	"github.com/shuymn/stateql/internal/core"
)

func TestAssembleAttachesTableRename(t *testing.T) {
	tbl := &core.Table{Name: core.NewUnqualifiedName("accounts")}
	tables := []ParsedTable{{Table: tbl, Span: core.LineSpan{Start: 1, End: 3}}}

	res, err := Assemble(tables, nil, []annotate.Annotation{
		{Line: 1, OldName: core.NewIdentifier("users")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.RenamedFrom == nil || tbl.RenamedFrom.Name.Name != "users" {
		t.Fatalf("expected table RenamedFrom to be set, got %+v", tbl.RenamedFrom)
	}
	if len(res.Objects.Tables()) != 1 {
		t.Fatalf("expected 1 table in result, got %d", len(res.Objects.Tables()))
	}
}

func TestAssembleAttachesColumnRename(t *testing.T) {
	col := &core.Column{Name: core.NewIdentifier("username")}
	tbl := &core.Table{Name: core.NewUnqualifiedName("accounts"), Columns: []*core.Column{col}}
	tables := []ParsedTable{{
		Table:       tbl,
		Span:        core.LineSpan{Start: 1, End: 5},
		ColumnLines: map[string]int{"username": 3},
	}}

	_, err := Assemble(tables, nil, []annotate.Annotation{
		{Line: 3, OldName: core.NewIdentifier("login")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if col.RenamedFrom == nil || col.RenamedFrom.Name != "login" {
		t.Fatalf("expected column RenamedFrom to be set, got %+v", col.RenamedFrom)
	}
	if tbl.RenamedFrom != nil {
		t.Errorf("column-line annotation must not also set the table's RenamedFrom")
	}
}

func TestAssembleOrphanAnnotationFails(t *testing.T) {
	tbl := &core.Table{Name: core.NewUnqualifiedName("accounts")}
	tables := []ParsedTable{{Table: tbl, Span: core.LineSpan{Start: 10, End: 12}}}

	_, err := Assemble(tables, nil, []annotate.Annotation{
		{Line: 1, OldName: core.NewIdentifier("users")},
	})
	if err == nil {
		t.Fatal("expected an orphan annotation error")
	}
	if _, ok := err.(*OrphanError); !ok {
		t.Fatalf("expected *OrphanError, got %T", err)
	}
}

func TestAssembleCollectsDeprecatedAnnotations(t *testing.T) {
	tbl := &core.Table{Name: core.NewUnqualifiedName("accounts")}
	tables := []ParsedTable{{Table: tbl, Span: core.LineSpan{Start: 1, End: 3}}}

	res, err := Assemble(tables, nil, []annotate.Annotation{
		{Line: 1, OldName: core.NewIdentifier("users"), Deprecated: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Deprecated) != 1 {
		t.Fatalf("expected 1 deprecated annotation recorded, got %d", len(res.Deprecated))
	}
}

func TestAssembleOtherObjectSpanAbsorbsAnnotationWithoutOrphaning(t *testing.T) {
	view := &core.View{Name: core.NewUnqualifiedName("v")}
	others := []ParsedObject{{Object: view, Span: core.LineSpan{Start: 1, End: 2}}}

	_, err := Assemble(nil, others, []annotate.Annotation{
		{Line: 1, OldName: core.NewIdentifier("old_v")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
