// Package diff compares two canonical ObjectSets (current vs desired
// schema) and produces the set of operations needed to transform one into
// the other. Unlike a name-similarity heuristic, every rename it reports
// is sourced from an explicit RenamedFrom annotation (internal/normalize);
// everything else is matched purely by (ObjectKind, QualifiedName).
package diff

import (
	"fmt"
	"sort"

	"github.com/shuymn/stateql/internal/core"
)

// OpKind enumerates the kinds of change a DiffOp can describe.
type OpKind string

const (
	OpCreate       OpKind = "CREATE"
	OpDrop         OpKind = "DROP"
	OpAlter        OpKind = "ALTER"
	OpRenameTable  OpKind = "RENAME_TABLE"
	OpRenameColumn OpKind = "RENAME_COLUMN"
	OpGrant        OpKind = "GRANT"
	OpRevoke       OpKind = "REVOKE"

	// The table-scoped kinds below replace a single coarse OpAlter(table)
	// with one op per changed column/constraint/option, so each is
	// individually visible to enable_drop suppression and to the
	// orderer's intra-table sub-priorities (spec.md §4.2, §4.3).
	OpAddColumn         OpKind = "ADD_COLUMN"
	OpDropColumn        OpKind = "DROP_COLUMN"
	OpAlterColumn       OpKind = "ALTER_COLUMN"
	OpAddPrimaryKey     OpKind = "ADD_PRIMARY_KEY"
	OpDropPrimaryKey    OpKind = "DROP_PRIMARY_KEY"
	OpAddForeignKey     OpKind = "ADD_FOREIGN_KEY"
	OpDropForeignKey    OpKind = "DROP_FOREIGN_KEY"
	OpAddCheck          OpKind = "ADD_CHECK"
	OpDropCheck         OpKind = "DROP_CHECK"
	OpAddExclusion      OpKind = "ADD_EXCLUSION"
	OpDropExclusion     OpKind = "DROP_EXCLUSION"
	OpAddPartition      OpKind = "ADD_PARTITION"
	OpDropPartition     OpKind = "DROP_PARTITION"
	OpAlterTableOptions OpKind = "ALTER_TABLE_OPTIONS"
)

// DiffOp is one atomic change the orderer and plan builder will turn into
// statements. Old/New carry whichever side is meaningful for Kind: Drop
// only sets Old, Create only sets New, Alter/renames set both.
type DiffOp struct {
	Kind       OpKind
	ObjectKind core.ObjectKind
	Name       core.QualifiedName
	Old        core.SchemaObject
	New        core.SchemaObject

	// Detail is a short human-readable description of what changed,
	// surfaced by the renderer in dry-run output and in suppressed-op
	// diagnostics.
	Detail string

	// RenamedColumn/OldColumnName are set only on OpRenameColumn, whose
	// Name/Old/New describe the owning table rather than the column.
	RenamedColumn string
	OldColumnName string

	// Column/OldColumn carry the payload for Add/Drop/AlterColumn ops;
	// Name/Old/New still identify the owning table. core.Column is not a
	// SchemaObject (it has no independent identity outside a table), so
	// it cannot travel through Old/New the way a table-level object can.
	Column    *core.Column
	OldColumn *core.Column

	PrimaryKey    *core.PrimaryKey
	OldPrimaryKey *core.PrimaryKey

	ForeignKey    *core.ForeignKey
	OldForeignKey *core.ForeignKey

	Check    *core.CheckConstraint
	OldCheck *core.CheckConstraint

	Exclusion    *core.ExclusionConstraint
	OldExclusion *core.ExclusionConstraint

	Partition    *core.Partition
	OldPartition *core.Partition

	// Paired marks the DROP half of a recognized constraint-modification
	// pair (same table, same constraint kind, changed body). Named
	// constraints pair by name; an unnamed constraint pairs with the first
	// still-unmatched unnamed one on the other side, in declaration order,
	// and how many unnamed constraints each side holds is not checked.
	// spec.md §4.2 exempts exactly this
	// DROP from enable_drop suppression: it is a modification, not a
	// drop the operator might want to keep.
	Paired bool

	// Suppressed marks an op that enable_drop policy vetoed. It is kept
	// in the result (rather than discarded) so the renderer can emit a
	// diagnostic explaining why no statement was produced for it.
	Suppressed     bool
	SuppressReason string
}

// Result is the full output of a Diff call.
type Result struct {
	Ops []DiffOp
	// Warnings records non-fatal conditions, e.g. a desired table whose
	// renamed_from names no existing table and is treated as a new table.
	Warnings []string
}

// EquivalencePolicy decides whether two versions of the same object
// should be treated as unchanged. It must be pure, deterministic, and
// symmetric (Equal(a,b) == Equal(b,a)) so diff output is stable across
// runs and independent of argument order; the default implementation is
// plain structural equality over the canonical IR.
type EquivalencePolicy interface {
	Equal(old, new core.SchemaObject) bool
}

// Options controls Diff behavior.
type Options struct {
	// EnableDrop, when false, suppresses every DROP op (tables, columns,
	// indexes, ...) except the DROP half of a recognized constraint
	// modification pair, which is never meaningfully "kept" on its own.
	EnableDrop bool

	Equivalence EquivalencePolicy
}

// DefaultOptions returns drop-enabled diffing with structural equivalence.
func DefaultOptions() Options {
	return Options{EnableDrop: true, Equivalence: StructuralEquivalence{}}
}

// Diff compares current against desired and returns the ops required to
// transform current into desired.
func Diff(current, desired *core.ObjectSet, opts Options) (*Result, error) {
	if opts.Equivalence == nil {
		opts.Equivalence = StructuralEquivalence{}
	}

	if err := checkNoDuplicates(current); err != nil {
		return nil, fmt.Errorf("diff: current schema: %w", err)
	}
	if err := checkNoDuplicates(desired); err != nil {
		return nil, fmt.Errorf("diff: desired schema: %w", err)
	}
	if err := checkNoSequenceDuplication(current); err != nil {
		return nil, fmt.Errorf("diff: current schema: %w", err)
	}
	if err := checkNoSequenceDuplication(desired); err != nil {
		return nil, fmt.Errorf("diff: desired schema: %w", err)
	}
	if err := checkIndexOwners(current); err != nil {
		return nil, fmt.Errorf("diff: current schema: %w", err)
	}
	if err := checkIndexOwners(desired); err != nil {
		return nil, fmt.Errorf("diff: desired schema: %w", err)
	}

	res := &Result{}

	for _, kind := range core.AllObjectKinds() {
		switch kind {
		case core.KindPrivilege:
			res.Ops = append(res.Ops, diffPrivileges(current.ByKind(kind), desired.ByKind(kind))...)
		case core.KindTable:
			ops, warnings := diffTables(current.Tables(), desired.Tables(), opts)
			res.Ops = append(res.Ops, ops...)
			res.Warnings = append(res.Warnings, warnings...)
		case core.KindView:
			// Views and materialized views rebuild together (spec.md
			// §4.2): KindMaterializedView is folded in here rather than
			// handled in its own switch arm below.
			res.Ops = append(res.Ops, diffViewLike(current, desired, opts)...)
		case core.KindMaterializedView:
			continue
		case core.KindIndex, core.KindSequence, core.KindTrigger, core.KindFunction, core.KindType,
			core.KindDomain, core.KindExtension, core.KindSchema, core.KindComment, core.KindPolicy:
			res.Ops = append(res.Ops, diffGeneric(kind, current.ByKind(kind), desired.ByKind(kind), opts)...)
		default:
			return nil, fmt.Errorf("diff: %w: %q", core.ErrUnknownObjectKind, kind)
		}
	}

	applyDropSuppression(res, opts)

	sort.SliceStable(res.Ops, func(i, j int) bool {
		return res.Ops[i].Name.String() < res.Ops[j].Name.String()
	})

	return res, nil
}

// checkNoDuplicates enforces the invariant that no (Kind, QualifiedName)
// pair appears twice within one ObjectSet; a parser or assembler bug that
// lets this through would make matching ambiguous in a way no
// EquivalencePolicy could recover from.
func checkNoDuplicates(set *core.ObjectSet) error {
	if set == nil {
		return nil
	}
	seen := make(map[string]bool, len(set.Objects))
	for _, obj := range set.Objects {
		key := string(obj.Kind()) + "\x00" + obj.ObjectName().String()
		if seen[key] {
			return fmt.Errorf("duplicate object %s %q", obj.Kind(), obj.ObjectName().String())
		}
		seen[key] = true
	}
	return nil
}

// StructuralEquivalence is the default EquivalencePolicy: two objects are
// equivalent iff they are deeply structurally equal once transient
// bookkeeping fields (RenamedFrom) are disregarded, since those describe
// provenance rather than desired state.
type StructuralEquivalence struct{}

func (StructuralEquivalence) Equal(old, new core.SchemaObject) bool {
	return structuralEqual(old, new)
}
