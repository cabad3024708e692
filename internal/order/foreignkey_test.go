package order

import (
	"testing"

	"github.com/shuymn/stateql/internal/core"
	"github.com/shuymn/stateql/internal/diff"
)

func fkTable(tableName string, refs ...string) *core.Table {
	t := &core.Table{Name: name(tableName)}
	for _, ref := range refs {
		t.ForeignKeys = append(t.ForeignKeys, &core.ForeignKey{
			Name: "fk_" + tableName + "_" + ref, Columns: []string{ref + "_id"},
			ReferencedTable: name(ref), ReferencedColumns: []string{"id"},
		})
	}
	return t
}

func TestOrderTablesRespectForeignKeyDependencyOnCreate(t *testing.T) {
	parent := fkTable("parent")
	child := fkTable("child", "parent")

	ops := []diff.DiffOp{
		{Kind: diff.OpCreate, ObjectKind: core.KindTable, Name: name("child"), New: child},
		{Kind: diff.OpCreate, ObjectKind: core.KindTable, Name: name("parent"), New: parent},
	}
	got := Order(ops)
	if got[0].Op.Name.String() != "parent" || got[1].Op.Name.String() != "child" {
		t.Fatalf("expected parent table created before child table, got %+v", got)
	}
}

func TestOrderTablesRespectForeignKeyDependencyOnDrop(t *testing.T) {
	parent := fkTable("parent")
	child := fkTable("child", "parent")

	ops := []diff.DiffOp{
		{Kind: diff.OpDrop, ObjectKind: core.KindTable, Name: name("parent"), Old: parent},
		{Kind: diff.OpDrop, ObjectKind: core.KindTable, Name: name("child"), Old: child},
	}
	got := Order(ops)
	if got[0].Op.Name.String() != "child" || got[1].Op.Name.String() != "parent" {
		t.Fatalf("expected child table dropped before parent table, got %+v", got)
	}
}

func TestOrderTableCreateCycleDefersForeignKeys(t *testing.T) {
	a := fkTable("a", "b")
	b := fkTable("b", "a")

	ops := []diff.DiffOp{
		{Kind: diff.OpCreate, ObjectKind: core.KindTable, Name: name("a"), New: a},
		{Kind: diff.OpCreate, ObjectKind: core.KindTable, Name: name("b"), New: b},
	}
	got := Order(ops)

	var creates, addFKs int
	for _, o := range got {
		switch {
		case o.Op.Kind == diff.OpCreate && o.Op.ObjectKind == core.KindTable:
			creates++
			tbl, ok := o.Op.New.(*core.Table)
			if !ok {
				t.Fatalf("create table op missing *core.Table payload: %+v", o)
			}
			if len(tbl.ForeignKeys) != 0 {
				t.Errorf("expected cyclic foreign keys stripped from the CREATE TABLE statement, got %+v", tbl.ForeignKeys)
			}
		case o.Op.Kind == diff.OpAddForeignKey:
			addFKs++
		}
	}
	if creates != 2 {
		t.Fatalf("expected both tables still created, got %d creates (%+v)", creates, got)
	}
	if addFKs != 2 {
		t.Fatalf("expected both foreign keys deferred as AddForeignKey ops, got %d (%+v)", addFKs, got)
	}

	// The originals must never be mutated -- only clones travel through
	// the reordered ops.
	if len(a.ForeignKeys) != 1 || len(b.ForeignKeys) != 1 {
		t.Fatalf("reorderTableCreateBand must not mutate the caller's *core.Table, got a=%+v b=%+v", a, b)
	}
}
