package executor

import (
	"context"
	"sync"

	"github.com/shuymn/stateql/internal/dialect"
)

// handle wraps a dialect.Tx with RAII semantics: once begin() returns one,
// calling Close unconditionally rolls back unless Commit already ran.
// Callers are expected to `defer handle.Close()` immediately after begin
// succeeds, the same way a Go file handle or mutex unlock is deferred
// right next to acquisition.
type handle struct {
	tx   dialect.Tx
	mu   sync.Mutex
	done bool
}

func begin(ctx context.Context, conn dialect.Conn) (*handle, error) {
	tx, err := conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &handle{tx: tx}, nil
}

func (h *handle) Exec(ctx context.Context, sql string) error {
	return h.tx.Exec(ctx, sql)
}

func (h *handle) Commit() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return nil
	}
	h.done = true
	return h.tx.Commit()
}

func (h *handle) Rollback() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return nil
	}
	h.done = true
	return h.tx.Rollback()
}

// Close implements the RAII guarantee: if neither Commit nor Rollback ran
// yet, it rolls back. It is safe to call after a successful Commit.
func (h *handle) Close() error {
	h.mu.Lock()
	done := h.done
	h.mu.Unlock()
	if done {
		return nil
	}
	return h.Rollback()
}
