// Package render turns a plan.Plan into the textual SQL script dry-run
// and export flows show the user: suppressed-op diagnostics first, then
// every statement in order, with each BatchBoundary item (plan.Build puts
// one after every statement when the dialect has a batch separator)
// printed as a `-- <separator>` comment line.
package render

import (
	"fmt"
	"strings"

	"github.com/shuymn/stateql/internal/plan"
)

// Options controls rendering.
type Options struct {
	// IncludeSuppressed, when true, prepends a `-- Skipped: ...` comment
	// for every op enable_drop suppressed.
	IncludeSuppressed bool
}

// DefaultOptions renders suppressed-op diagnostics by default: a dry run
// is exactly the place a user needs to see what was left alone and why.
func DefaultOptions() Options {
	return Options{IncludeSuppressed: true}
}

// Render produces the textual script for p.
func Render(p *plan.Plan, opts Options) string {
	var b strings.Builder

	if opts.IncludeSuppressed {
		for _, s := range p.Suppressed {
			fmt.Fprintf(&b, "-- Skipped: %s\n", s.Reason)
		}
		if len(p.Suppressed) > 0 {
			b.WriteByte('\n')
		}
	}

	for _, item := range p.Items {
		switch v := item.(type) {
		case plan.Statement:
			b.WriteString(v.SQL)
			if !strings.HasSuffix(strings.TrimSpace(v.SQL), ";") {
				b.WriteByte(';')
			}
			b.WriteByte('\n')
		case plan.BatchBoundary:
			fmt.Fprintf(&b, "-- %s\n", defaultBatchMarker(v.Reason))
		}
	}

	return b.String()
}

// defaultBatchMarker renders a BatchBoundary when the dialect itself
// didn't supply separator text (render doesn't know dialect specifics;
// dialect.Generator.BatchSeparator is what plan.Build actually uses when
// assembling BatchBoundary.Reason for a real dialect).
func defaultBatchMarker(reason string) string {
	if reason == "" {
		return "(batch boundary)"
	}
	return reason
}
