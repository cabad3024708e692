package diff

import (
	"testing"

	"github.com/shuymn/stateql/internal/core"
)

func countKind(ops []DiffOp, kind OpKind) int {
	n := 0
	for _, op := range ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func TestDiffTableGranularColumnOps(t *testing.T) {
	current := &core.ObjectSet{Objects: []core.SchemaObject{
		tbl("accounts", col("id"), col("legacy_flag")),
	}}
	desired := &core.ObjectSet{Objects: []core.SchemaObject{
		tbl("accounts", col("id"), col("email")),
	}}

	res, err := Diff(current, desired, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := countKind(res.Ops, OpAddColumn); got != 1 {
		t.Errorf("expected 1 OpAddColumn, got %d (%+v)", got, res.Ops)
	}
	if got := countKind(res.Ops, OpDropColumn); got != 1 {
		t.Errorf("expected 1 OpDropColumn, got %d (%+v)", got, res.Ops)
	}
	if got := countKind(res.Ops, OpAlter); got != 0 {
		t.Errorf("table diffing must never emit a coarse OpAlter, got %d (%+v)", got, res.Ops)
	}
}

func TestDiffTableColumnDropSuppressedWhenDisabled(t *testing.T) {
	current := &core.ObjectSet{Objects: []core.SchemaObject{tbl("accounts", col("id"), col("legacy_flag"))}}
	desired := &core.ObjectSet{Objects: []core.SchemaObject{tbl("accounts", col("id"))}}

	opts := DefaultOptions()
	opts.EnableDrop = false
	res, err := Diff(current, desired, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var found bool
	for _, op := range res.Ops {
		if op.Kind == OpDropColumn {
			found = true
			if !op.Suppressed {
				t.Errorf("expected drop column to be suppressed, got %+v", op)
			}
			if op.Column == nil || op.Column.Name.String() != "legacy_flag" {
				t.Errorf("expected suppressed op to carry the dropped column, got %+v", op)
			}
		}
	}
	if !found {
		t.Fatalf("expected an OpDropColumn op, got %+v", res.Ops)
	}
}

func TestDiffCheckConstraintModificationPairing(t *testing.T) {
	oldCheck := &core.CheckConstraint{Name: "chk_age", Expression: core.Expression{Kind: core.ExprRaw, Raw: "age > 0"}}
	newCheck := &core.CheckConstraint{Name: "chk_age", Expression: core.Expression{Kind: core.ExprRaw, Raw: "age > 10"}}

	current := &core.ObjectSet{Objects: []core.SchemaObject{
		&core.Table{Name: core.NewUnqualifiedName("accounts"), Checks: []*core.CheckConstraint{oldCheck}},
	}}
	desired := &core.ObjectSet{Objects: []core.SchemaObject{
		&core.Table{Name: core.NewUnqualifiedName("accounts"), Checks: []*core.CheckConstraint{newCheck}},
	}}

	opts := DefaultOptions()
	opts.EnableDrop = false
	res, err := Diff(current, desired, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var drop, add *DiffOp
	for i := range res.Ops {
		op := &res.Ops[i]
		switch op.Kind {
		case OpDropCheck:
			drop = op
		case OpAddCheck:
			add = op
		}
	}
	if drop == nil || add == nil {
		t.Fatalf("expected a paired DropCheck+AddCheck, got %+v", res.Ops)
	}
	if drop.Suppressed {
		t.Errorf("the DROP half of a constraint-modification pair must not be suppressed, got %+v", drop)
	}
	if !drop.Paired {
		t.Errorf("expected the drop to be marked Paired, got %+v", drop)
	}
}

func TestDiffForeignKeyModificationPairing(t *testing.T) {
	ref := core.NewUnqualifiedName("accounts")
	oldFK := &core.ForeignKey{Name: "fk_owner", Columns: []string{"owner_id"}, ReferencedTable: ref, ReferencedColumns: []string{"id"}}
	newFK := &core.ForeignKey{Name: "fk_owner", Columns: []string{"owner_id"}, ReferencedTable: ref, ReferencedColumns: []string{"id"}, OnDelete: core.RefActionCascade}

	current := &core.ObjectSet{Objects: []core.SchemaObject{&core.Table{Name: core.NewUnqualifiedName("orders"), ForeignKeys: []*core.ForeignKey{oldFK}}}}
	desired := &core.ObjectSet{Objects: []core.SchemaObject{&core.Table{Name: core.NewUnqualifiedName("orders"), ForeignKeys: []*core.ForeignKey{newFK}}}}

	res, err := Diff(current, desired, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countKind(res.Ops, OpDropForeignKey) != 1 || countKind(res.Ops, OpAddForeignKey) != 1 {
		t.Fatalf("expected a paired DropForeignKey+AddForeignKey, got %+v", res.Ops)
	}
}
