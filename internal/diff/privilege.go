package diff

import (
	"fmt"
	"sort"

	"github.com/shuymn/stateql/internal/core"
)

// privilegeKey identifies a Privilege row by its composite key: the
// object it applies to and the grantee it applies to. Two Privilege
// objects matching this key are different versions of the same grant
// relationship, not independent objects.
func privilegeKey(p *core.Privilege) string {
	return p.Object.String() + "\x00" + p.Grantee
}

// diffPrivileges computes GRANT/REVOKE ops as a set difference over
// individual operations (SELECT, INSERT, ...) rather than revoking an
// entire grant row and reissuing it: a privilege change should touch only
// the operations that actually changed.
func diffPrivileges(current, desired []core.SchemaObject) []DiffOp {
	curByKey := make(map[string]*core.Privilege, len(current))
	for _, o := range current {
		if p, ok := o.(*core.Privilege); ok {
			curByKey[privilegeKey(p)] = p
		}
	}

	var ops []DiffOp
	matched := make(map[string]bool, len(desired))

	for _, o := range desired {
		dp, ok := o.(*core.Privilege)
		if !ok {
			continue
		}
		key := privilegeKey(dp)
		matched[key] = true

		cp, exists := curByKey[key]
		if !exists {
			ops = append(ops, DiffOp{Kind: OpGrant, ObjectKind: core.KindPrivilege, Name: dp.Object, New: dp,
				Detail: fmt.Sprintf("grant %v to %s on %s", dp.Ops(), dp.Grantee, dp.Object.String())})
			continue
		}

		var toGrant, toRevoke []core.PrivilegeOp
		for op, want := range dp.Operations {
			if want && !cp.Operations[op] {
				toGrant = append(toGrant, op)
			}
		}
		for op, had := range cp.Operations {
			if had && !dp.Operations[op] {
				toRevoke = append(toRevoke, op)
			}
		}
		// Operations is a map: iteration order is random. Sort before
		// emitting so the same schema pair always produces the same plan
		// text (spec.md §8 determinism).
		sort.Slice(toGrant, func(i, j int) bool { return toGrant[i] < toGrant[j] })
		sort.Slice(toRevoke, func(i, j int) bool { return toRevoke[i] < toRevoke[j] })
		if len(toGrant) > 0 {
			ops = append(ops, DiffOp{Kind: OpGrant, ObjectKind: core.KindPrivilege, Name: dp.Object, Old: cp, New: dp,
				Detail: fmt.Sprintf("grant %v to %s on %s", toGrant, dp.Grantee, dp.Object.String())})
		}
		if len(toRevoke) > 0 {
			ops = append(ops, DiffOp{Kind: OpRevoke, ObjectKind: core.KindPrivilege, Name: dp.Object, Old: cp, New: dp,
				Detail: fmt.Sprintf("revoke %v from %s on %s", toRevoke, dp.Grantee, dp.Object.String())})
		}
		if cp.WithGrantOption != dp.WithGrantOption {
			ops = append(ops, DiffOp{Kind: OpAlter, ObjectKind: core.KindPrivilege, Name: dp.Object, Old: cp, New: dp,
				Detail: "grant option changed"})
		}
	}

	for _, o := range current {
		cp, ok := o.(*core.Privilege)
		if !ok {
			continue
		}
		if matched[privilegeKey(cp)] {
			continue
		}
		ops = append(ops, DiffOp{Kind: OpRevoke, ObjectKind: core.KindPrivilege, Name: cp.Object, Old: cp,
			Detail: fmt.Sprintf("revoke all from %s on %s", cp.Grantee, cp.Object.String())})
	}

	return ops
}
