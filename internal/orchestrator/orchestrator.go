// Package orchestrator wires the pipeline stages together into the three
// entry points callers invoke: Compute (parse, diff, order and build a
// Plan, with no database connection), Render (the textual script of a
// computed Outcome, used for dry runs and export), and Apply (compute,
// then execute against a live database). It is the only package that
// calls every pipeline stage in sequence.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shuymn/stateql/internal/annotate"
	"github.com/shuymn/stateql/internal/core"
	"github.com/shuymn/stateql/internal/dialect"
	"github.com/shuymn/stateql/internal/diff"
	"github.com/shuymn/stateql/internal/executor"
	"github.com/shuymn/stateql/internal/normalize"
	"github.com/shuymn/stateql/internal/order"
	"github.com/shuymn/stateql/internal/plan"
	"github.com/shuymn/stateql/internal/render"
)

// Options configures a pipeline run.
type Options struct {
	Dialect     string
	EnableDrop  bool
	Equivalence diff.EquivalencePolicy
	Log         *logrus.Logger

	// IgnoreRenameAnnotations disables @renamed handling for the desired
	// schema: every rename then shows up as a drop-and-create pair
	// instead. There is no heuristic fallback to fall back to.
	IgnoreRenameAnnotations bool
}

func (o Options) logger() *logrus.Logger {
	if o.Log != nil {
		return o.Log
	}
	return logrus.StandardLogger()
}

// Outcome is the product of computing a plan: the rendered ops, any
// deprecated-annotation/match warnings worth surfacing, and the final
// Plan ready for execution or rendering.
type Outcome struct {
	Plan       *plan.Plan
	Warnings   []string
	Deprecated []annotate.Annotation
}

// Compute runs every stage up to and including plan.Build: parse the
// current and desired SQL sources, assemble the desired side's @renamed
// annotations, diff, order, and render into dialect-specific statements.
// currentSQL may be empty, meaning "an empty schema" (a first deploy).
func Compute(ctx context.Context, currentSQL, desiredSQL string, opts Options) (*Outcome, error) {
	log := opts.logger()

	d, err := dialect.Get(opts.Dialect)
	if err != nil {
		return nil, err
	}

	currentSet, err := parseToObjectSet(d, currentSQL)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parsing current schema: %w", err)
	}

	cleanedDesired, annotations, err := annotate.Extract(desiredSQL)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: extracting annotations: %w", err)
	}

	tables, others, err := d.Parser().Parse(cleanedDesired)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parsing desired schema: %w", err)
	}

	if opts.IgnoreRenameAnnotations {
		annotations = nil
	}
	assembled, err := normalize.Assemble(tables, others, annotations)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: assembling desired schema: %w", err)
	}

	log.WithFields(logrus.Fields{
		"dialect":       opts.Dialect,
		"current_objs":  len(currentSet.Objects),
		"desired_objs":  len(assembled.Objects.Objects),
		"annotations":   len(annotations),
	}).Debug("parsed current and desired schemas")

	diffOpts := diff.Options{EnableDrop: opts.EnableDrop, Equivalence: opts.Equivalence}
	if diffOpts.Equivalence == nil {
		diffOpts.Equivalence = d.Generator().Equivalence()
	}

	diffResult, err := diff.Diff(currentSet, assembled.Objects, diffOpts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: diffing schemas: %w", err)
	}

	ordered := order.Order(diffResult.Ops)

	builtPlan, err := plan.Build(ordered, d.Generator())
	if err != nil {
		return nil, fmt.Errorf("orchestrator: building plan: %w", err)
	}

	log.WithField("statements", len(builtPlan.Statements())).Info("plan computed")

	warnings := append([]string{}, diffResult.Warnings...)
	return &Outcome{Plan: builtPlan, Warnings: warnings, Deprecated: assembled.Deprecated}, nil
}

// parseToObjectSet parses source SQL (the "current" side) into an
// ObjectSet. Empty source is a valid "nothing exists yet" schema.
func parseToObjectSet(d dialect.Dialect, source string) (*core.ObjectSet, error) {
	if source == "" {
		return &core.ObjectSet{}, nil
	}
	cleaned, _, err := annotate.Extract(source)
	if err != nil {
		return nil, err
	}
	tables, others, err := d.Parser().Parse(cleaned)
	if err != nil {
		return nil, err
	}
	res, err := normalize.Assemble(tables, others, nil)
	if err != nil {
		return nil, err
	}
	return res.Objects, nil
}

// Render renders a computed Outcome into a textual script for dry-run or
// export.
func Render(o *Outcome) string {
	return render.Render(o.Plan, render.DefaultOptions())
}

// Apply computes the plan and executes it against a live database
// reached through dsn.
func Apply(ctx context.Context, currentSQL, desiredSQL, dsn string, opts Options) (*Outcome, error) {
	log := opts.logger()

	outcome, err := Compute(ctx, currentSQL, desiredSQL, opts)
	if err != nil {
		return nil, err
	}

	d, err := dialect.Get(opts.Dialect)
	if err != nil {
		return nil, err
	}

	conn, err := d.Adapter().Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: connecting to database: %w", err)
	}
	defer conn.Close()

	err = executor.Run(ctx, conn, outcome.Plan, func(ev executor.Event) {
		fields := logrus.Fields{"index": ev.Index, "total": ev.Total, "elapsed_ms": ev.Elapsed.Milliseconds(), "correlation_id": ev.CorrelationID}
		if ev.Err != nil {
			log.WithFields(fields).WithError(ev.Err).Error("statement failed")
			return
		}
		log.WithFields(fields).Info("statement applied")
	})
	if err != nil {
		return outcome, fmt.Errorf("orchestrator: applying plan: %w", err)
	}

	return outcome, nil
}
