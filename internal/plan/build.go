package plan

import (
	"fmt"

	"github.com/shuymn/stateql/internal/dialect"
	"github.com/shuymn/stateql/internal/order"
)

// Build renders an ordered op sequence into a Plan using gen. A
// suppressed op never reaches the generator: it becomes a
// SuppressedDiagnostic instead, so a disabled dialect-specific code path
// can never accidentally render SQL for something the caller asked to be
// left alone.
func Build(ordered []order.Ordered, gen dialect.Generator) (*Plan, error) {
	p := &Plan{Transactional: true}
	sep := gen.BatchSeparator()

	for _, o := range ordered {
		if o.Op.Suppressed {
			p.Suppressed = append(p.Suppressed, SuppressedDiagnostic{Op: o.Op, Reason: o.Op.SuppressReason})
			continue
		}

		stmts, err := gen.GenerateDDL(o.Op)
		if err != nil {
			return nil, fmt.Errorf("plan: rendering %s %s %q: %w", o.Op.Kind, o.Op.ObjectKind, o.Op.Name.String(), err)
		}

		for _, s := range stmts {
			p.Items = append(p.Items, Statement{SQL: s.SQL, Op: o.Op, Band: o.Band, Transactional: s.Transactional})
			if !s.Transactional {
				p.Transactional = false
			}
			if sep != "" {
				p.Items = append(p.Items, BatchBoundary{Reason: sep})
			}
		}
	}

	return p, nil
}
