// Package mysql provides the MySQL/TiDB dialect front end: parsing schema
// source with TiDB's parser, rendering DiffOps into MySQL DDL, and
// connecting to a live database through go-sql-driver/mysql.
package mysql

import (
	"github.com/shuymn/stateql/internal/dialect"
	mysqlparser "github.com/shuymn/stateql/internal/dialect/mysql/parser"
)

const Name = "mysql"

func init() {
	dialect.RegisterDialect(Name, New)
}

// Dialect bundles the MySQL parser, generator, and database adapter.
type Dialect struct {
	parser    *mysqlparser.Parser
	generator *Generator
	adapter   *Adapter
}

// New constructs a MySQL Dialect. It is registered under Name and normally
// reached via dialect.Get("mysql"), not called directly.
func New() dialect.Dialect {
	return &Dialect{
		parser:    mysqlparser.NewParser(),
		generator: &Generator{},
		adapter:   &Adapter{},
	}
}

func (d *Dialect) Name() string                     { return Name }
func (d *Dialect) Parser() dialect.Parser           { return d.parser }
func (d *Dialect) Generator() dialect.Generator     { return d.generator }
func (d *Dialect) Adapter() dialect.DatabaseAdapter { return d.adapter }
