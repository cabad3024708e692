// Package plan holds the dialect-rendered statement sequence a Plan
// represents, after internal/order has decided execution order and
// before internal/executor or internal/render consume it. Nothing in
// this package is dialect-aware; statement text is opaque to it.
package plan

import (
	"github.com/shuymn/stateql/internal/core"
	"github.com/shuymn/stateql/internal/diff"
)

// Item is either a Statement or a BatchBoundary. It is a closed family:
// the unexported marker seals it the same way core.SchemaObject is
// sealed, so a new Item kind can't be introduced without updating every
// switch that walks a Plan.
type Item interface {
	planItemMarker()
}

// Statement is one executable unit of SQL, tagged with the DiffOp it
// came from so the executor and renderer can report failures and
// diagnostics against the original change rather than bare SQL text.
type Statement struct {
	SQL  string
	Op   diff.DiffOp
	Band int

	// Transactional is false for statements a target database forbids
	// inside a transaction (e.g. MySQL's implicit commit on DDL, or an
	// explicit CREATE INDEX CONCURRENTLY in PostgreSQL). The executor
	// must not wrap such a statement in the surrounding transaction group.
	Transactional bool
}

func (Statement) planItemMarker() {}

// BatchBoundary is a synchronization marker, not a transaction boundary:
// Reason carries the dialect's batch separator (SQL Server's GO, for
// instance), which the renderer prints; the executor skips the item and
// never commits at it. Build places one after every statement when the
// dialect has a separator; a dialect without one never gets any.
type BatchBoundary struct {
	Reason string
}

func (BatchBoundary) planItemMarker() {}

// SuppressedDiagnostic documents an op that enable_drop suppressed. It is
// not an Item (it produces no SQL) but travels alongside a Plan so the
// renderer can surface it as a `-- Skipped: ...` comment.
type SuppressedDiagnostic struct {
	Op     diff.DiffOp
	Reason string
}

// Plan is the fully ordered, fully rendered output of one diff: the exact
// sequence of statements and batch boundaries to run, plus whatever ops
// were suppressed along the way.
type Plan struct {
	Items       []Item
	Suppressed  []SuppressedDiagnostic
	Transactional bool
}

// Statements returns only the Statement items, in order.
func (p *Plan) Statements() []Statement {
	var out []Statement
	for _, item := range p.Items {
		if s, ok := item.(Statement); ok {
			out = append(out, s)
		}
	}
	return out
}

// IsEmpty reports whether the plan has no executable content at all
// (statements or suppressed-op diagnostics).
func (p *Plan) IsEmpty() bool {
	return len(p.Statements()) == 0 && len(p.Suppressed) == 0
}

// ObjectsTouched returns the distinct object kinds any statement in the
// plan targets, for summary reporting.
func (p *Plan) ObjectsTouched() []core.ObjectKind {
	seen := make(map[core.ObjectKind]bool)
	var out []core.ObjectKind
	for _, s := range p.Statements() {
		if !seen[s.Op.ObjectKind] {
			seen[s.Op.ObjectKind] = true
			out = append(out, s.Op.ObjectKind)
		}
	}
	return out
}
