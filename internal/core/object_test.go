package core

import "testing"

// sampleObject builds a minimal instance of each object kind so tests can
// exercise every implementation without constructing full fixtures.
func sampleObject(kind ObjectKind) SchemaObject {
	switch kind {
	case KindTable:
		return &Table{Name: NewUnqualifiedName("t")}
	case KindView:
		return &View{Name: NewUnqualifiedName("v")}
	case KindMaterializedView:
		return &MaterializedView{Name: NewUnqualifiedName("mv")}
	case KindIndex:
		return &Index{Name: NewUnqualifiedName("idx")}
	case KindSequence:
		return &Sequence{Name: NewUnqualifiedName("seq")}
	case KindTrigger:
		return &Trigger{Name: NewUnqualifiedName("trg")}
	case KindFunction:
		return &Function{Name: NewUnqualifiedName("fn")}
	case KindType:
		return &Type{Name: NewUnqualifiedName("ty")}
	case KindDomain:
		return &Domain{Name: NewUnqualifiedName("dom")}
	case KindExtension:
		return &Extension{Name: NewIdentifier("ext")}
	case KindSchema:
		return &Schema{Name: NewIdentifier("s")}
	case KindComment:
		return &Comment{TargetName: NewUnqualifiedName("t")}
	case KindPrivilege:
		return &Privilege{Object: NewUnqualifiedName("t"), Grantee: "r"}
	case KindPolicy:
		return &Policy{Name: NewUnqualifiedName("p")}
	default:
		return nil
	}
}

// TestAllObjectKindsConstructible guards the exhaustiveness contract: every
// kind in AllObjectKinds() must round-trip through sampleObject and report
// its own Kind() back, so a new kind can never silently slip past both
// this test and every downstream exhaustive switch at the same time.
func TestAllObjectKindsConstructible(t *testing.T) {
	for _, kind := range AllObjectKinds() {
		obj := sampleObject(kind)
		if obj == nil {
			t.Fatalf("no sample constructor registered for kind %q", kind)
		}
		if obj.Kind() != kind {
			t.Fatalf("sample for %q reports Kind() = %q", kind, obj.Kind())
		}
	}
}

func TestObjectSetByKind(t *testing.T) {
	set := &ObjectSet{Objects: []SchemaObject{
		&Table{Name: NewUnqualifiedName("a")},
		&View{Name: NewUnqualifiedName("b")},
		&Table{Name: NewUnqualifiedName("c")},
	}}
	if got := len(set.ByKind(KindTable)); got != 2 {
		t.Errorf("expected 2 tables, got %d", got)
	}
	if got := len(set.Tables()); got != 2 {
		t.Errorf("expected 2 tables via Tables(), got %d", got)
	}
}
