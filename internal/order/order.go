// Package order assigns each diff.DiffOp a position in the execution
// sequence. Ops are grouped into numbered priority bands 1-27 -- a drop
// phase followed by a create/alter phase -- with view/materialized view
// and table creation/drop further resolved by dependency topology so a
// view is never built before what it selects from (nor dropped before
// whatever still depends on it), and a table is never created before a
// table its foreign keys reference (nor dropped before a table that still
// references it).
package order

import (
	"sort"

	"github.com/shuymn/stateql/internal/core"
	"github.com/shuymn/stateql/internal/diff"
)

// Band numbers. The drop phase (1-13) always executes before the
// create/alter phase (15-27); nothing outside this package should assume
// the numbers are contiguous or stable across versions, only that lower
// runs before higher.
const (
	bandDropPrivilege  = 1
	bandDropPolicy     = 2
	bandDropTrigger    = 3
	bandDropMatView    = 4
	bandDropView       = 5
	bandDropForeignKey = 6
	bandDropIndex      = 7
	bandDropTable      = 8
	bandDropSequence   = 9
	bandDropTypeDomain = 10
	bandDropFunction   = 11
	bandDropSchemaExt  = 12
	bandDropComment    = 13

	bandCreateSchemaExt  = 15
	bandCreateTypeDomain = 16
	bandCreateSequence   = 17
	bandTable            = 18 // create, rename, and every table-scoped modification share this band; sub-priority orders within it
	bandAddForeignKey    = 19
	bandIndex            = 20
	bandView             = 21
	bandMatView          = 22
	bandTrigger          = 23
	bandFunction         = 24
	bandPolicy           = 25
	bandPrivilegeGrant   = 26
	bandOther            = 27
)

// Intra-table sub-priorities (spec.md §4.3): everything that touches one
// table shares bandTable, ordered by what kind of change it is rather than
// by the table's name.
const (
	subRenameTable    = 1
	subRenameColumn   = 2
	subAlterColumn    = 3
	subAddColumn      = 4
	subDropColumn     = 5
	subPrimaryKey     = 6
	subCheckExclusion = 7
	subPartition      = 8
	subTableOptions   = 9
	subCreateTable    = 10
	subAlterTable     = 11
)

// Ordered pairs a DiffOp with the band/sub-priority it was assigned, kept
// around mainly so tests and the renderer can explain why a statement
// landed where it did.
type Ordered struct {
	Op   diff.DiffOp
	Band int
	Sub  int
}

// Order returns ops arranged into a safe execution sequence.
func Order(ops []diff.DiffOp) []Ordered {
	ordered := make([]Ordered, len(ops))
	for i, op := range ops {
		band, sub := bandFor(op)
		ordered[i] = Ordered{Op: op, Band: band, Sub: sub}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Band != ordered[j].Band {
			return ordered[i].Band < ordered[j].Band
		}
		if ordered[i].Sub != ordered[j].Sub {
			return ordered[i].Sub < ordered[j].Sub
		}
		return ordered[i].Op.Name.String() < ordered[j].Op.Name.String()
	})

	reorderViewBand(ordered, bandMatView, false)
	reorderViewBand(ordered, bandView, false)
	reorderViewBand(ordered, bandDropView, true)
	reorderViewBand(ordered, bandDropMatView, true)

	// reorderTableCreateBand may grow the slice (a broken FK cycle defers
	// new AddForeignKey ops), so it returns the slice; reorderTableDropBand
	// never grows it and can reorder in place.
	ordered = reorderTableCreateBand(ordered)
	reorderTableDropBand(ordered)

	// A final Band-only stable pass: the two calls above can append
	// deferred ops at the tail with their true Band already set. A stable
	// sort on Band alone slots them into place without disturbing any
	// ordering already established within a band (view topology, FK
	// topology, or plain name order).
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Band < ordered[j].Band
	})

	return ordered
}

func bandFor(op diff.DiffOp) (band, sub int) {
	switch op.Kind {
	case diff.OpRevoke:
		return bandDropPrivilege, 0
	case diff.OpGrant:
		return bandPrivilegeGrant, 0
	case diff.OpRenameTable:
		return bandTable, subRenameTable
	case diff.OpRenameColumn:
		return bandTable, subRenameColumn
	case diff.OpAlterColumn:
		return bandTable, subAlterColumn
	case diff.OpAddColumn:
		return bandTable, subAddColumn
	case diff.OpDropColumn:
		return bandTable, subDropColumn
	case diff.OpAddPrimaryKey, diff.OpDropPrimaryKey:
		return bandTable, subPrimaryKey
	case diff.OpAddCheck, diff.OpDropCheck, diff.OpAddExclusion, diff.OpDropExclusion:
		return bandTable, subCheckExclusion
	case diff.OpAddPartition, diff.OpDropPartition:
		return bandTable, subPartition
	case diff.OpAlterTableOptions:
		return bandTable, subTableOptions
	case diff.OpAddForeignKey:
		return bandAddForeignKey, 0
	case diff.OpDropForeignKey:
		return bandDropForeignKey, 0
	case diff.OpDrop:
		return dropBand(op.ObjectKind), 0
	case diff.OpCreate:
		return createBand(op.ObjectKind)
	case diff.OpAlter:
		return alterBand(op.ObjectKind)
	default:
		return bandOther, 0
	}
}

func dropBand(kind core.ObjectKind) int {
	switch kind {
	case core.KindPrivilege:
		return bandDropPrivilege
	case core.KindPolicy:
		return bandDropPolicy
	case core.KindTrigger:
		return bandDropTrigger
	case core.KindMaterializedView:
		return bandDropMatView
	case core.KindView:
		return bandDropView
	case core.KindIndex:
		return bandDropIndex
	case core.KindTable:
		return bandDropTable
	case core.KindSequence:
		return bandDropSequence
	case core.KindType, core.KindDomain:
		return bandDropTypeDomain
	case core.KindFunction:
		return bandDropFunction
	case core.KindSchema, core.KindExtension:
		return bandDropSchemaExt
	default:
		return bandDropComment
	}
}

func createBand(kind core.ObjectKind) (int, int) {
	switch kind {
	case core.KindSchema, core.KindExtension:
		return bandCreateSchemaExt, 0
	case core.KindType, core.KindDomain:
		return bandCreateTypeDomain, 0
	case core.KindSequence:
		return bandCreateSequence, 0
	case core.KindTable:
		return bandTable, subCreateTable
	case core.KindIndex:
		return bandIndex, 0
	case core.KindView:
		return bandView, 0
	case core.KindMaterializedView:
		return bandMatView, 0
	case core.KindTrigger:
		return bandTrigger, 0
	case core.KindFunction:
		return bandFunction, 0
	case core.KindPolicy:
		return bandPolicy, 0
	default:
		return bandOther, 0
	}
}

func alterBand(kind core.ObjectKind) (int, int) {
	switch kind {
	case core.KindTable:
		return bandTable, subAlterTable
	case core.KindIndex:
		return bandIndex, 0
	case core.KindView:
		return bandView, 0
	case core.KindMaterializedView:
		return bandMatView, 0
	case core.KindTrigger:
		return bandTrigger, 0
	case core.KindFunction:
		return bandFunction, 0
	case core.KindPolicy:
		return bandPolicy, 0
	case core.KindPrivilege:
		return bandPrivilegeGrant, 0
	default:
		return bandOther, 0
	}
}
