package mysql

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/pkg/errors"

	"github.com/shuymn/stateql/internal/dialect"
)

// Adapter implements dialect.DatabaseAdapter over database/sql with the
// go-sql-driver/mysql driver.
type Adapter struct{}

func (a *Adapter) Connect(ctx context.Context, dsn string) (dialect.Conn, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "mysql: opening connection")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "mysql: connecting")
	}
	return &conn{db: db}, nil
}

type conn struct {
	db *sql.DB
}

func (c *conn) Exec(ctx context.Context, sqlText string) error {
	_, err := c.db.ExecContext(ctx, sqlText)
	if err != nil {
		return errors.Wrap(err, "mysql: executing statement")
	}
	return nil
}

func (c *conn) BeginTx(ctx context.Context) (dialect.Tx, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "mysql: beginning transaction")
	}
	return &sqlTx{tx: tx}, nil
}

func (c *conn) Close() error {
	return c.db.Close()
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Exec(ctx context.Context, sqlText string) error {
	_, err := t.tx.ExecContext(ctx, sqlText)
	if err != nil {
		return errors.Wrap(err, "mysql: executing statement in transaction")
	}
	return nil
}

func (t *sqlTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return errors.Wrap(err, "mysql: committing transaction")
	}
	return nil
}

func (t *sqlTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !stderrors.Is(err, sql.ErrTxDone) {
		return errors.Wrap(err, "mysql: rolling back transaction")
	}
	return nil
}
