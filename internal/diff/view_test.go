package diff

import (
	"testing"

	"github.com/shuymn/stateql/internal/core"
)

func TestDiffViewRebuildClosureForcesDependentsToRebuild(t *testing.T) {
	base := &core.View{Name: core.NewUnqualifiedName("base"), Definition: core.Expression{Kind: core.ExprRaw, Raw: "SELECT 1"}}
	dep := &core.View{Name: core.NewUnqualifiedName("dep"), Definition: core.Expression{Kind: core.ExprRaw, Raw: "SELECT * FROM base"},
		DependsOn: []core.QualifiedName{core.NewUnqualifiedName("base")}}

	current := &core.ObjectSet{Objects: []core.SchemaObject{base, dep}}

	newBase := &core.View{Name: core.NewUnqualifiedName("base"), Definition: core.Expression{Kind: core.ExprRaw, Raw: "SELECT 2"}}
	sameDep := &core.View{Name: core.NewUnqualifiedName("dep"), Definition: core.Expression{Kind: core.ExprRaw, Raw: "SELECT * FROM base"},
		DependsOn: []core.QualifiedName{core.NewUnqualifiedName("base")}}
	desired := &core.ObjectSet{Objects: []core.SchemaObject{newBase, sameDep}}

	res, err := Diff(current, desired, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var drops, creates []string
	for _, op := range res.Ops {
		switch op.Kind {
		case OpDrop:
			drops = append(drops, op.Name.String())
		case OpCreate:
			creates = append(creates, op.Name.String())
		case OpAlter:
			t.Fatalf("view diff must never emit OpAlter, got %+v", op)
		}
	}

	if len(drops) != 2 || len(creates) != 2 {
		t.Fatalf("expected DropView+CreateView for both base and its dependent, got drops=%v creates=%v", drops, creates)
	}
	for _, name := range []string{"base", "dep"} {
		if !contains(drops, name) {
			t.Errorf("expected %q to be dropped, got drops=%v", name, drops)
		}
		if !contains(creates, name) {
			t.Errorf("expected %q to be recreated, got creates=%v", name, creates)
		}
	}
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func TestDiffViewUnchangedNotRebuilt(t *testing.T) {
	base := &core.View{Name: core.NewUnqualifiedName("base"), Definition: core.Expression{Kind: core.ExprRaw, Raw: "SELECT 1"}}
	current := &core.ObjectSet{Objects: []core.SchemaObject{base}}
	desired := &core.ObjectSet{Objects: []core.SchemaObject{
		&core.View{Name: core.NewUnqualifiedName("base"), Definition: core.Expression{Kind: core.ExprRaw, Raw: "SELECT 1"}},
	}}

	res, err := Diff(current, desired, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Ops) != 0 {
		t.Fatalf("expected no ops for an unchanged view, got %+v", res.Ops)
	}
}
