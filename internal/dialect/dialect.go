// Package dialect defines the pluggable front end every supported
// database implements: parsing source SQL into the canonical IR,
// generating dialect-specific DDL from a diff op, and connecting to a
// live database to execute a plan. internal/core, internal/diff,
// internal/order, and internal/plan know nothing about any concrete
// dialect; this package is the only seam between them and SQL text.
package dialect

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shuymn/stateql/internal/core"
	"github.com/shuymn/stateql/internal/diff"
	"github.com/shuymn/stateql/internal/normalize"
)

// Parser turns raw SQL source into the tables and other objects the
// normalized-object assembler (internal/normalize) needs, along with the
// line spans required to attach @renamed annotations.
type Parser interface {
	Parse(sql string) (tables []normalize.ParsedTable, others []normalize.ParsedObject, err error)
}

// GeneratedStatement is one piece of SQL a Generator produced for a
// single DiffOp, together with whether it may run inside the
// surrounding transaction.
type GeneratedStatement struct {
	SQL           string
	Transactional bool
}

// Generator renders DiffOps into executable SQL for one dialect.
type Generator interface {
	// GenerateDDL renders the statements needed to apply op. Most ops
	// produce exactly one statement; a few (e.g. a table rename that
	// also needs an index rebuilt) may produce more than one.
	GenerateDDL(op diff.DiffOp) ([]GeneratedStatement, error)

	// QuoteIdent quotes an identifier per the dialect's own rules. Call
	// sites never hand-write a quote character.
	QuoteIdent(id core.Identifier) string

	// BatchSeparator returns the dialect's batch separator (e.g. "GO"
	// for SQL Server) or "" if the dialect has no notion of batches.
	BatchSeparator() string

	// Equivalence returns the dialect's EquivalencePolicy, letting a
	// dialect override the engine's default structural-equality rule
	// (e.g. to treat two functionally identical type spellings as equal).
	Equivalence() diff.EquivalencePolicy
}

// Tx is an in-progress transaction on a Conn.
type Tx interface {
	Exec(ctx context.Context, sql string) error
	Commit() error
	Rollback() error
}

// Conn is a live connection capable of executing rendered SQL, either
// directly or grouped into a transaction.
type Conn interface {
	Exec(ctx context.Context, sql string) error
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// DatabaseAdapter connects to a live database of this dialect.
type DatabaseAdapter interface {
	Connect(ctx context.Context, dsn string) (Conn, error)
}

// Dialect bundles a parser, generator, and adapter for one database
// engine. A dialect registers itself in an init() func via
// RegisterDialect, as the MySQL front end (internal/dialect/mysql), the
// only one in this module, does.
type Dialect interface {
	Name() string
	Parser() Parser
	Generator() Generator
	Adapter() DatabaseAdapter
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Dialect{}
)

// RegisterDialect makes a dialect available under name. It is meant to be
// called from a dialect package's init().
func RegisterDialect(name string, factory func() Dialect) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get constructs the registered dialect for name.
func Get(name string) (Dialect, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("dialect: unknown dialect %q (registered: %v)", name, RegisteredNames())
	}
	return factory(), nil
}

// RegisteredNames lists every dialect name currently registered, sorted
// for deterministic error messages and CLI help text.
func RegisteredNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
