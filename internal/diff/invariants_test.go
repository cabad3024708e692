package diff

import (
	"testing"

	"github.com/shuymn/stateql/internal/core"
)

func TestDiffSequenceDuplicationIsAnError(t *testing.T) {
	owner := core.NewUnqualifiedName("accounts")
	set := &core.ObjectSet{Objects: []core.SchemaObject{
		&core.Sequence{Name: core.NewUnqualifiedName("accounts_id_seq")},
		&core.Sequence{Name: core.NewUnqualifiedName("accounts_id_seq"), OwnedByTable: &owner, OwnedByColumn: "id"},
	}}

	_, err := Diff(set, &core.ObjectSet{}, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error when a sequence name is both top-level and an identity column's implicit sequence")
	}
}

func TestDiffOrphanIndexOwnerIsAnError(t *testing.T) {
	set := &core.ObjectSet{Objects: []core.SchemaObject{
		&core.Index{
			Name:  core.NewUnqualifiedName("idx_missing"),
			Owner: core.IndexOwner{Kind: core.IndexOwnerTable, Name: core.NewUnqualifiedName("ghost")},
		},
	}}

	_, err := Diff(set, &core.ObjectSet{}, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error when an index's owner is absent from the schema")
	}
}

func TestDiffIndexWithPresentOwnerIsFine(t *testing.T) {
	owner := tbl("accounts", col("id"))
	idx := &core.Index{
		Name:  core.NewUnqualifiedName("idx_accounts_id"),
		Owner: core.IndexOwner{Kind: core.IndexOwnerTable, Name: core.NewUnqualifiedName("accounts")},
	}
	set := &core.ObjectSet{Objects: []core.SchemaObject{owner, idx}}

	_, err := Diff(set, set, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error for an index whose owner is present: %v", err)
	}
}
