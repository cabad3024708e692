// Package executor runs a rendered plan.Plan against a live connection.
// Consecutive transactional statements are grouped and run under a
// single RAII-style transaction handle that rolls back automatically
// unless explicitly committed; a non-transactional statement closes out
// whatever group is open and starts fresh. BatchBoundary items are not
// run at all: they never close a group and never commit.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/shuymn/stateql/internal/dialect"
	"github.com/shuymn/stateql/internal/plan"
)

// ExecutionError reports exactly where, against what, and after how much
// prior progress a plan run failed.
type ExecutionError struct {
	StatementIndex int
	SQL            string
	Location       string // the object the failing statement's op targeted
	Context        string // which phase ("transaction", "non-transactional") it failed in
	SuccessCount   int
	CorrelationID  uuid.UUID
	Cause          error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("executor[%s]: statement %d (%s) against %s failed after %d prior success(es): %v",
		e.CorrelationID, e.StatementIndex, e.Context, e.Location, e.SuccessCount, e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// Event is emitted once per executed statement, for structured logging.
type Event struct {
	Index         int
	Total         int
	SQL           string
	Elapsed       time.Duration
	Err           error
	CorrelationID uuid.UUID
}

// Observer receives one Event per attempted statement. A nil Observer is
// valid and simply means nobody is watching.
type Observer func(Event)

// Run executes p's statements against conn in order. txHandle (txn.go)
// provides the RAII rollback-unless-committed guarantee for each
// contiguous transactional group; a failure anywhere rolls back only the
// group in progress; statements already committed in earlier groups stay
// committed, per spec.md's §4.5 design (no cross-group rollback).
func Run(ctx context.Context, conn dialect.Conn, p *plan.Plan, observe Observer) error {
	correlationID := uuid.New()
	statements := p.Statements()

	successCount := 0
	i := 0
	for i < len(statements) {
		stmt := statements[i]
		if !stmt.Transactional {
			if err := execOne(ctx, conn, stmt.SQL, observe, i, len(statements), correlationID); err != nil {
				return &ExecutionError{
					StatementIndex: i, SQL: stmt.SQL, Location: stmt.Op.Name.String(),
					Context: "non-transactional", SuccessCount: successCount,
					CorrelationID: correlationID, Cause: err,
				}
			}
			successCount++
			i++
			continue
		}

		groupEnd := i
		for groupEnd < len(statements) && statements[groupEnd].Transactional {
			groupEnd++
		}

		n, err := runTransactionalGroup(ctx, conn, statements[i:groupEnd], observe, i, len(statements), correlationID)
		successCount += n
		if err != nil {
			failed := i + n
			if failed == groupEnd { // every statement ran; the commit itself failed
				failed = groupEnd - 1
			}
			return &ExecutionError{
				StatementIndex: failed, SQL: statements[failed].SQL, Location: statements[failed].Op.Name.String(),
				Context: "transaction", SuccessCount: successCount,
				CorrelationID: correlationID, Cause: err,
			}
		}
		i = groupEnd
	}

	return nil
}

// runTransactionalGroup executes stmts as one transaction. It returns how
// many statements executed without error before the first failure
// (len(stmts) when all of them did, including when only the commit
// failed) and that error, if any. On any error the whole group is rolled
// back, so none of the counted statements stay applied.
func runTransactionalGroup(ctx context.Context, conn dialect.Conn, stmts []plan.Statement, observe Observer, baseIndex, total int, correlationID uuid.UUID) (int, error) {
	handle, err := begin(ctx, conn)
	if err != nil {
		return 0, errors.Wrap(err, "begin transaction")
	}
	defer handle.Close() // no-op once committed

	for n, stmt := range stmts {
		if err := execOne(ctx, txConn{handle}, stmt.SQL, observe, baseIndex+n, total, correlationID); err != nil {
			if rbErr := handle.Rollback(); rbErr != nil {
				return n, errors.Wrapf(err, "rollback also failed: %v", rbErr)
			}
			return n, err
		}
	}

	if err := handle.Commit(); err != nil {
		return len(stmts), errors.Wrap(err, "commit transaction")
	}
	return len(stmts), nil
}

func execOne(ctx context.Context, execer interface {
	Exec(ctx context.Context, sql string) error
}, sql string, observe Observer, index, total int, correlationID uuid.UUID) error {
	start := time.Now()
	err := execer.Exec(ctx, sql)
	if observe != nil {
		observe(Event{Index: index, Total: total, SQL: sql, Elapsed: time.Since(start), Err: err, CorrelationID: correlationID})
	}
	return err
}

// txConn adapts a *handle to the tiny Exec-only interface execOne wants,
// so the same helper serves both transactional and bare statements.
type txConn struct{ h *handle }

func (t txConn) Exec(ctx context.Context, sql string) error { return t.h.Exec(ctx, sql) }
