package diff

import (
	"fmt"
	"sort"

	"github.com/shuymn/stateql/internal/core"
)

// checkNoSequenceDuplication enforces spec.md §3/§4.2: a sequence name must
// never appear both as a top-level Sequence and as the implicit backing
// sequence of an identity column. Both are represented as *core.Sequence in
// the object set -- core.Sequence.IsImplicit distinguishes the two -- so the
// check groups the set's sequences by name and rejects any name claimed by
// both an implicit and an explicit one.
func checkNoSequenceDuplication(set *core.ObjectSet) error {
	if set == nil {
		return nil
	}
	explicit := make(map[string]bool)
	implicit := make(map[string]bool)
	for _, o := range set.ByKind(core.KindSequence) {
		seq, ok := o.(*core.Sequence)
		if !ok {
			continue
		}
		if seq.IsImplicit() {
			implicit[seq.Name.String()] = true
		} else {
			explicit[seq.Name.String()] = true
		}
	}

	var dupes []string
	for name := range explicit {
		if implicit[name] {
			dupes = append(dupes, name)
		}
	}
	if len(dupes) == 0 {
		return nil
	}
	sort.Strings(dupes)
	return fmt.Errorf("sequence %q is declared both as a top-level sequence and as an identity column's implicit sequence", dupes[0])
}

// checkIndexOwners enforces spec.md §3/§4.2: every Index's Owner must
// resolve to an object present in the same object set, else the diff fails
// before any Drop* op is considered for it.
func checkIndexOwners(set *core.ObjectSet) error {
	if set == nil {
		return nil
	}
	for _, idx := range set.Indexes() {
		if !indexOwnerExists(set, idx.Owner) {
			return fmt.Errorf("index %q: owner %s %q not found in schema", idx.Name.String(), idx.Owner.Kind, idx.Owner.Name.String())
		}
	}
	return nil
}

func indexOwnerExists(set *core.ObjectSet, owner core.IndexOwner) bool {
	for _, o := range set.Objects {
		switch owner.Kind {
		case core.IndexOwnerTable:
			if t, ok := o.(*core.Table); ok && t.Name.Equal(owner.Name) {
				return true
			}
		case core.IndexOwnerView:
			if v, ok := o.(*core.View); ok && v.Name.Equal(owner.Name) {
				return true
			}
		case core.IndexOwnerMaterializedView:
			if v, ok := o.(*core.MaterializedView); ok && v.Name.Equal(owner.Name) {
				return true
			}
		}
	}
	return false
}
