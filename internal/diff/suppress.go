package diff

import "fmt"

// dropLikeKinds lists every op kind spec.md §4.2's enable_drop taxonomy
// suppresses: every top-level Drop*, every table-scoped Drop (column,
// primary key, foreign key, check, exclusion, partition), and Revoke.
var dropLikeKinds = map[OpKind]bool{
	OpDrop:            true,
	OpRevoke:          true,
	OpDropColumn:      true,
	OpDropPrimaryKey:  true,
	OpDropForeignKey:  true,
	OpDropCheck:       true,
	OpDropExclusion:   true,
	OpDropPartition:   true,
}

// applyDropSuppression marks every drop-like op as Suppressed when the
// caller disabled drops, except the DROP half of a recognized
// constraint-modification pair (Paired == true): spec.md §4.2 exempts that
// one case because it is a modification, not a drop the operator might
// want to keep. Suppressed ops are kept in the result rather than
// discarded: the renderer turns a suppressed op into a `-- Skipped: ...`
// diagnostic so a dry-run plan still shows what was left alone and why.
func applyDropSuppression(res *Result, opts Options) {
	if opts.EnableDrop {
		return
	}
	for i := range res.Ops {
		op := &res.Ops[i]
		if !dropLikeKinds[op.Kind] || op.Paired {
			continue
		}
		op.Suppressed = true
		op.SuppressReason = suppressReason(*op)
	}
}

func suppressReason(op DiffOp) string {
	switch op.Kind {
	case OpRevoke:
		return fmt.Sprintf("revoke on %s skipped: enable_drop is false", op.Name.String())
	case OpDropColumn:
		return fmt.Sprintf("drop of column %q on table %q skipped: enable_drop is false", op.Column.Name.String(), op.Name.String())
	case OpDropPrimaryKey:
		return fmt.Sprintf("drop of primary key on table %q skipped: enable_drop is false", op.Name.String())
	case OpDropForeignKey:
		return fmt.Sprintf("drop of foreign key %q on table %q skipped: enable_drop is false", op.ForeignKey.Name, op.Name.String())
	case OpDropCheck:
		return fmt.Sprintf("drop of check %q on table %q skipped: enable_drop is false", op.Check.Name, op.Name.String())
	case OpDropExclusion:
		return fmt.Sprintf("drop of exclusion %q on table %q skipped: enable_drop is false", op.Exclusion.Name, op.Name.String())
	case OpDropPartition:
		return fmt.Sprintf("drop of partition %q on table %q skipped: enable_drop is false", op.Partition.Name, op.Name.String())
	default:
		return fmt.Sprintf("drop of %s %q skipped: enable_drop is false", op.ObjectKind, op.Name.String())
	}
}
