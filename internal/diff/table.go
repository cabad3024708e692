package diff

import (
	"fmt"
	"reflect"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/shuymn/stateql/internal/core"
)

// tableCompareConcurrency bounds how many tables diffTables compares in
// parallel. Each comparison is pure CPU work over in-memory structs (no
// I/O), so the bound exists only to avoid spawning more goroutines than
// there are cores on very large schemas (spec.md's concurrency model
// calls out per-table comparison as the one diff-stage operation worth
// parallelizing).
func tableCompareConcurrency() int {
	if n := runtime.GOMAXPROCS(0); n > 1 {
		return n
	}
	return 1
}

func findTableByName(tables []*core.Table, name core.QualifiedName) (*core.Table, bool) {
	for _, t := range tables {
		if t.Name.Equal(name) {
			return t, true
		}
	}
	return nil, false
}

func findColumnByName(cols []*core.Column, name core.Identifier) *core.Column {
	for _, c := range cols {
		if c.Name.Equal(name) {
			return c
		}
	}
	return nil
}

// diffTables compares two table lists. A desired table carrying
// RenamedFrom is matched against the current table it names instead of
// by its own name; every other table matches purely by name.
func diffTables(current, desired []*core.Table, opts Options) ([]DiffOp, []string) {
	// Matching is sequential (it only consults shared current-table state),
	// but the per-pair structural comparison that follows touches nothing
	// but its own two tables, so it runs bounded-concurrently across
	// desired tables.
	type match struct {
		nt      *core.Table
		ot      *core.Table
		renamed bool
	}

	matches := make([]match, len(desired))
	matchedCurrent := make(map[*core.Table]bool, len(current))
	var warnings []string

	for i, nt := range desired {
		var ot *core.Table
		var ok bool
		renamed := false

		if nt.RenamedFrom != nil {
			ot, ok = findTableByName(current, *nt.RenamedFrom)
			if ok {
				renamed = true
			} else {
				warnings = append(warnings, fmt.Sprintf(
					"table %q: renamed_from %q matches no existing table; treating as a new table",
					nt.Name.String(), nt.RenamedFrom.String()))
			}
		}
		if !ok {
			ot, ok = findTableByName(current, nt.Name)
		}
		if ok {
			matchedCurrent[ot] = true
		}
		matches[i] = match{nt: nt, ot: ot, renamed: renamed}
	}

	perTableOps := make([][]DiffOp, len(matches))
	g := new(errgroup.Group)
	g.SetLimit(tableCompareConcurrency())

	for i, m := range matches {
		i, m := i, m
		g.Go(func() error {
			perTableOps[i] = compareTablePair(m.nt, m.ot, m.renamed)
			return nil
		})
	}
	_ = g.Wait() // compareTablePair never errors; Wait only awaits completion.

	var ops []DiffOp
	for _, o := range perTableOps {
		ops = append(ops, o...)
	}

	for _, ot := range current {
		if matchedCurrent[ot] {
			continue
		}
		ops = append(ops, DiffOp{Kind: OpDrop, ObjectKind: core.KindTable, Name: ot.Name, Old: ot})
	}

	return ops, warnings
}

// compareTablePair produces the ops for one desired table against its
// matched current table (ot == nil means the table is new). Every
// column/constraint/option change is its own DiffOp (never a single
// coarse OpAlter) so enable_drop suppression and the orderer's intra-table
// sub-priorities can act on each independently (spec.md §4.2, §4.3).
func compareTablePair(nt, ot *core.Table, renamed bool) []DiffOp {
	if ot == nil {
		return []DiffOp{{Kind: OpCreate, ObjectKind: core.KindTable, Name: nt.Name, New: nt}}
	}

	var ops []DiffOp
	if renamed {
		ops = append(ops, DiffOp{Kind: OpRenameTable, ObjectKind: core.KindTable, Name: nt.Name, Old: ot, New: nt,
			Detail: fmt.Sprintf("%s -> %s", ot.Name.String(), nt.Name.String())})
	}

	ops = append(ops, diffTableColumns(ot, nt)...)
	ops = append(ops, diffPrimaryKey(nt.Name, ot, nt, ot.PrimaryKey, nt.PrimaryKey)...)
	ops = append(ops, diffForeignKeys(nt.Name, ot, nt, ot.ForeignKeys, nt.ForeignKeys)...)
	ops = append(ops, diffChecks(nt.Name, ot, nt, ot.Checks, nt.Checks)...)
	ops = append(ops, diffExclusions(nt.Name, ot, nt, ot.Exclusions, nt.Exclusions)...)
	ops = append(ops, diffPartitions(nt.Name, ot, nt, ot.Partition, nt.Partition)...)
	ops = append(ops, diffTableOptions(nt.Name, ot, nt)...)

	return ops
}

// diffTableColumns returns one op per column that was renamed, added,
// removed, or altered in place.
func diffTableColumns(old, new *core.Table) []DiffOp {
	var ops []DiffOp
	matchedOld := make(map[*core.Column]bool, len(old.Columns))

	for _, nc := range new.Columns {
		var oc *core.Column

		if nc.RenamedFrom != nil {
			oc = findColumnByName(old.Columns, *nc.RenamedFrom)
			if oc != nil {
				matchedOld[oc] = true
				ops = append(ops, DiffOp{
					Kind: OpRenameColumn, ObjectKind: core.KindTable, Name: new.Name, Old: old, New: new,
					RenamedColumn: nc.Name.String(), OldColumnName: oc.Name.String(),
					Detail: fmt.Sprintf("%s.%s -> %s", new.Name.String(), oc.Name.String(), nc.Name.String()),
				})
				if !columnsEqualIgnoringRename(oc, nc) {
					ops = append(ops, DiffOp{
						Kind: OpAlterColumn, ObjectKind: core.KindTable, Name: new.Name, Old: old, New: new,
						Column: nc, OldColumn: oc,
						Detail: fmt.Sprintf("column %q definition changed", nc.Name.String()),
					})
				}
				continue
			}
		}

		oc = findColumnByName(old.Columns, nc.Name)
		if oc == nil {
			ops = append(ops, DiffOp{
				Kind: OpAddColumn, ObjectKind: core.KindTable, Name: new.Name, Old: old, New: new,
				Column: nc, Detail: fmt.Sprintf("add column %q", nc.Name.String()),
			})
			continue
		}
		matchedOld[oc] = true
		if !columnsEqualIgnoringRename(oc, nc) {
			ops = append(ops, DiffOp{
				Kind: OpAlterColumn, ObjectKind: core.KindTable, Name: new.Name, Old: old, New: new,
				Column: nc, OldColumn: oc,
				Detail: fmt.Sprintf("column %q definition changed", nc.Name.String()),
			})
		}
	}

	for _, oc := range old.Columns {
		if matchedOld[oc] {
			continue
		}
		ops = append(ops, DiffOp{
			Kind: OpDropColumn, ObjectKind: core.KindTable, Name: new.Name, Old: old, New: new,
			Column: oc, Detail: fmt.Sprintf("drop column %q", oc.Name.String()),
		})
	}

	return ops
}

// columnsEqualIgnoringRename compares two columns' definitions, ignoring
// RenamedFrom (provenance, not state) and Name itself: this is used for
// both name-matched pairs (where Name is already identical) and
// rename-matched pairs (where Name necessarily differs), so Name can never
// be part of what makes two columns "different" here.
func columnsEqualIgnoringRename(a, b *core.Column) bool {
	ac, bc := *a, *b
	ac.Name, bc.Name = core.Identifier{}, core.Identifier{}
	ac.RenamedFrom, bc.RenamedFrom = nil, nil
	return reflect.DeepEqual(ac, bc)
}

// diffPrimaryKey handles the table's single (at most one) primary key.
// A body change is a constraint-modification pair: the DROP half is
// exempt from enable_drop suppression (spec.md §4.2).
func diffPrimaryKey(tableName core.QualifiedName, old, new *core.Table, op, np *core.PrimaryKey) []DiffOp {
	switch {
	case op == nil && np == nil:
		return nil
	case op == nil:
		return []DiffOp{{Kind: OpAddPrimaryKey, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
			PrimaryKey: np, Detail: "add primary key"}}
	case np == nil:
		return []DiffOp{{Kind: OpDropPrimaryKey, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
			PrimaryKey: op, Detail: "drop primary key"}}
	case reflect.DeepEqual(*op, *np):
		return nil
	default:
		return []DiffOp{
			{Kind: OpDropPrimaryKey, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
				PrimaryKey: op, Paired: true, Detail: "drop primary key: definition changed"},
			{Kind: OpAddPrimaryKey, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
				PrimaryKey: np, Detail: "add primary key: definition changed"},
		}
	}
}

// sameName reports whether two constraint names match (spec.md §4.2):
// both must be non-empty and equal. diffForeignKeys/diffChecks/
// diffExclusions pair an unnamed new constraint with the first
// still-unmatched unnamed old constraint of the same kind; they do not
// check how many unnamed constraints either side holds.
func sameName(a, b string) bool {
	return a != "" && a == b
}

func diffForeignKeys(tableName core.QualifiedName, old, new *core.Table, ofks, nfks []*core.ForeignKey) []DiffOp {
	var ops []DiffOp
	matchedOld := make(map[*core.ForeignKey]bool, len(ofks))

	for _, nfk := range nfks {
		var ofk *core.ForeignKey
		if nfk.Name != "" {
			for _, c := range ofks {
				if !matchedOld[c] && sameName(c.Name, nfk.Name) {
					ofk = c
					break
				}
			}
		} else {
			for _, c := range ofks {
				if !matchedOld[c] && c.Name == "" {
					ofk = c
					break
				}
			}
		}

		if ofk == nil {
			ops = append(ops, DiffOp{Kind: OpAddForeignKey, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
				ForeignKey: nfk, Detail: fmt.Sprintf("add foreign key %q", nfk.Name)})
			continue
		}
		matchedOld[ofk] = true
		if reflect.DeepEqual(*ofk, *nfk) {
			continue
		}
		ops = append(ops,
			DiffOp{Kind: OpDropForeignKey, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
				ForeignKey: ofk, Paired: true, Detail: fmt.Sprintf("drop foreign key %q: definition changed", ofk.Name)},
			DiffOp{Kind: OpAddForeignKey, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
				ForeignKey: nfk, Detail: fmt.Sprintf("add foreign key %q: definition changed", nfk.Name)},
		)
	}

	for _, ofk := range ofks {
		if matchedOld[ofk] {
			continue
		}
		ops = append(ops, DiffOp{Kind: OpDropForeignKey, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
			ForeignKey: ofk, Detail: fmt.Sprintf("drop foreign key %q", ofk.Name)})
	}

	return ops
}

func diffChecks(tableName core.QualifiedName, old, new *core.Table, ochks, nchks []*core.CheckConstraint) []DiffOp {
	var ops []DiffOp
	matchedOld := make(map[*core.CheckConstraint]bool, len(ochks))

	for _, nc := range nchks {
		var oc *core.CheckConstraint
		if nc.Name != "" {
			for _, c := range ochks {
				if !matchedOld[c] && sameName(c.Name, nc.Name) {
					oc = c
					break
				}
			}
		} else {
			for _, c := range ochks {
				if !matchedOld[c] && c.Name == "" {
					oc = c
					break
				}
			}
		}

		if oc == nil {
			ops = append(ops, DiffOp{Kind: OpAddCheck, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
				Check: nc, Detail: fmt.Sprintf("add check %q", nc.Name)})
			continue
		}
		matchedOld[oc] = true
		if reflect.DeepEqual(*oc, *nc) {
			continue
		}
		ops = append(ops,
			DiffOp{Kind: OpDropCheck, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
				Check: oc, Paired: true, Detail: fmt.Sprintf("drop check %q: definition changed", oc.Name)},
			DiffOp{Kind: OpAddCheck, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
				Check: nc, Detail: fmt.Sprintf("add check %q: definition changed", nc.Name)},
		)
	}

	for _, oc := range ochks {
		if matchedOld[oc] {
			continue
		}
		ops = append(ops, DiffOp{Kind: OpDropCheck, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
			Check: oc, Detail: fmt.Sprintf("drop check %q", oc.Name)})
	}

	return ops
}

func diffExclusions(tableName core.QualifiedName, old, new *core.Table, oexs, nexs []*core.ExclusionConstraint) []DiffOp {
	var ops []DiffOp
	matchedOld := make(map[*core.ExclusionConstraint]bool, len(oexs))

	for _, ne := range nexs {
		var oe *core.ExclusionConstraint
		if ne.Name != "" {
			for _, c := range oexs {
				if !matchedOld[c] && sameName(c.Name, ne.Name) {
					oe = c
					break
				}
			}
		} else {
			for _, c := range oexs {
				if !matchedOld[c] && c.Name == "" {
					oe = c
					break
				}
			}
		}

		if oe == nil {
			ops = append(ops, DiffOp{Kind: OpAddExclusion, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
				Exclusion: ne, Detail: fmt.Sprintf("add exclusion %q", ne.Name)})
			continue
		}
		matchedOld[oe] = true
		if reflect.DeepEqual(*oe, *ne) {
			continue
		}
		ops = append(ops,
			DiffOp{Kind: OpDropExclusion, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
				Exclusion: oe, Paired: true, Detail: fmt.Sprintf("drop exclusion %q: definition changed", oe.Name)},
			DiffOp{Kind: OpAddExclusion, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
				Exclusion: ne, Detail: fmt.Sprintf("add exclusion %q: definition changed", ne.Name)},
		)
	}

	for _, oe := range oexs {
		if matchedOld[oe] {
			continue
		}
		ops = append(ops, DiffOp{Kind: OpDropExclusion, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
			Exclusion: oe, Detail: fmt.Sprintf("drop exclusion %q", oe.Name)})
	}

	return ops
}

// diffPartitions compares partition specs by their named partition list
// only; a change to Strategy or KeyExpression alone produces no op.
func diffPartitions(tableName core.QualifiedName, old, new *core.Table, op, np *core.PartitionSpec) []DiffOp {
	var ops []DiffOp

	var oparts, nparts []core.Partition
	if op != nil {
		oparts = op.Partitions
	}
	if np != nil {
		nparts = np.Partitions
	}

	matchedOld := make(map[int]bool, len(oparts))
	for _, npart := range nparts {
		foundIdx := -1
		for i, opart := range oparts {
			if matchedOld[i] {
				continue
			}
			if opart.Name == npart.Name {
				foundIdx = i
				break
			}
		}
		if foundIdx == -1 {
			p := npart
			ops = append(ops, DiffOp{Kind: OpAddPartition, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
				Partition: &p, Detail: fmt.Sprintf("add partition %q", npart.Name)})
			continue
		}
		matchedOld[foundIdx] = true
		if oparts[foundIdx] != npart {
			oldPart, newPart := oparts[foundIdx], npart
			ops = append(ops,
				DiffOp{Kind: OpDropPartition, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
					Partition: &oldPart, Paired: true, Detail: fmt.Sprintf("drop partition %q: definition changed", oldPart.Name)},
				DiffOp{Kind: OpAddPartition, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
					Partition: &newPart, Detail: fmt.Sprintf("add partition %q: definition changed", newPart.Name)},
			)
		}
	}

	for i, opart := range oparts {
		if matchedOld[i] {
			continue
		}
		p := opart
		ops = append(ops, DiffOp{Kind: OpDropPartition, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
			Partition: &p, Detail: fmt.Sprintf("drop partition %q", opart.Name)})
	}

	return ops
}

// diffTableOptions covers everything a table carries outside
// columns/constraints/partition: Options, Comment, and Attributes. MySQL's
// ENGINE/CHARSET/COLLATE and a table COMMENT are the usual case; this is
// never suppressed as a drop since it has no drop-like meaning.
func diffTableOptions(tableName core.QualifiedName, old, new *core.Table) []DiffOp {
	if old.Options == new.Options && old.Comment == new.Comment && reflect.DeepEqual(old.Attributes, new.Attributes) {
		return nil
	}
	return []DiffOp{{Kind: OpAlterTableOptions, ObjectKind: core.KindTable, Name: tableName, Old: old, New: new,
		Detail: "table options changed"}}
}
