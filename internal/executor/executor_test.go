package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/shuymn/stateql/internal/core"
	"github.com/shuymn/stateql/internal/dialect"
	"github.com/shuymn/stateql/internal/diff"
	"github.com/shuymn/stateql/internal/plan"
)

// fakeTx and fakeConn provide a minimal in-memory dialect.Conn so the
// executor's grouping and rollback behavior can be tested without a real
// database.
type fakeTx struct {
	conn       *fakeConn
	executed   []string
	committed  bool
	rolledBack bool
	failOn     string
}

func (t *fakeTx) Exec(_ context.Context, sql string) error {
	if sql == t.failOn {
		return errors.New("boom")
	}
	t.executed = append(t.executed, sql)
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	t.conn.committedSQL = append(t.conn.committedSQL, t.executed...)
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeConn struct {
	directSQL    []string
	committedSQL []string
	failOn       string
}

func (c *fakeConn) Exec(_ context.Context, sql string) error {
	if sql == c.failOn {
		return errors.New("boom")
	}
	c.directSQL = append(c.directSQL, sql)
	return nil
}

func (c *fakeConn) BeginTx(context.Context) (dialect.Tx, error) {
	return &fakeTx{conn: c, failOn: c.failOn}, nil
}

func (c *fakeConn) Close() error { return nil }

func stmt(sql string, transactional bool) plan.Statement {
	return plan.Statement{SQL: sql, Op: diff.DiffOp{Name: core.NewUnqualifiedName("t")}, Transactional: transactional}
}

func TestRunCommitsTransactionalGroup(t *testing.T) {
	conn := &fakeConn{}
	p := &plan.Plan{Items: []plan.Item{stmt("A", true), stmt("B", true)}}

	if err := Run(context.Background(), conn, p, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conn.committedSQL) != 2 {
		t.Fatalf("expected 2 committed statements, got %v", conn.committedSQL)
	}
}

func TestRunRollsBackOnFailureWithinGroup(t *testing.T) {
	conn := &fakeConn{failOn: "B"}
	p := &plan.Plan{Items: []plan.Item{stmt("A", true), stmt("B", true), stmt("C", true)}}

	err := Run(context.Background(), conn, p, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected *ExecutionError, got %T", err)
	}
	if execErr.StatementIndex != 1 {
		t.Fatalf("expected failure at index 1, got %d", execErr.StatementIndex)
	}
	if len(conn.committedSQL) != 0 {
		t.Fatalf("expected nothing committed after a mid-group failure, got %v", conn.committedSQL)
	}
}

func TestRunNonTransactionalStatementsCommitIndependently(t *testing.T) {
	conn := &fakeConn{failOn: "C"}
	p := &plan.Plan{Items: []plan.Item{
		stmt("A", false),
		stmt("B", true),
		stmt("C", false),
	}}

	err := Run(context.Background(), conn, p, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(conn.directSQL) != 1 || conn.directSQL[0] != "A" {
		t.Fatalf("expected A to have run directly before the failure, got %v", conn.directSQL)
	}
	if len(conn.committedSQL) != 1 || conn.committedSQL[0] != "B" {
		t.Fatalf("expected B's transactional group to have committed before C failed, got %v", conn.committedSQL)
	}
}
