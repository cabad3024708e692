// Package mysql (parser) parses MySQL/TiDB schema source into the
// canonical IR via TiDB's own parser, so we inherit its grammar support
// for MySQL syntax and TiDB-specific extensions alike.
package mysql

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"github.com/shuymn/stateql/internal/core"
	"github.com/shuymn/stateql/internal/normalize"
)

// Parser implements dialect.Parser for MySQL/TiDB source.
type Parser struct {
	p *parser.Parser
}

// NewParser builds a ready-to-use Parser.
func NewParser() *Parser {
	return &Parser{p: parser.New()}
}

// Parse implements dialect.Parser. Only CREATE TABLE and CREATE INDEX are
// understood; every other statement kind is ignored rather than rejected,
// since a desired-schema file built incrementally may still contain
// statements (CREATE VIEW, CREATE TRIGGER, ...) this dialect front end
// doesn't yet normalize into the IR.
func (p *Parser) Parse(sql string) ([]normalize.ParsedTable, []normalize.ParsedObject, error) {
	stmtNodes, _, err := p.p.Parse(sql, "", "")
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: parse error: %w", err)
	}

	cursor := 0
	var tables []normalize.ParsedTable
	var others []normalize.ParsedObject

	for _, stmt := range stmtNodes {
		span, next := spanOf(sql, cursor, stmt.Text())
		cursor = next

		switch s := stmt.(type) {
		case *ast.CreateTableStmt:
			table, colLines, indexes, err := p.convertCreateTable(s, span.Start)
			if err != nil {
				return nil, nil, err
			}
			tables = append(tables, normalize.ParsedTable{Table: table, Span: span, ColumnLines: colLines})
			for _, idx := range indexes {
				others = append(others, normalize.ParsedObject{Object: idx, Span: span})
			}
		case *ast.CreateIndexStmt:
			idx := p.convertCreateIndex(s)
			others = append(others, normalize.ParsedObject{Object: idx, Span: span})
		}
	}

	return tables, others, nil
}

// spanOf locates stmtText within sql starting at cursor and returns its
// inclusive 1-based line span, plus the offset to resume searching from
// (so repeated identical statements each match their own occurrence).
func spanOf(sql string, cursor int, stmtText string) (core.LineSpan, int) {
	stmtText = strings.TrimSpace(stmtText)
	if stmtText == "" {
		return core.LineSpan{Start: 1, End: 1}, cursor
	}

	idx := strings.Index(sql[cursor:], stmtText)
	if idx < 0 {
		// TiDB's restored text doesn't always match the source verbatim
		// (whitespace/backtick normalization); fall back to a span that
		// starts on the cursor's line and covers as many lines as stmtText
		// has, without advancing the cursor, rather than failing the parse.
		start := 1 + strings.Count(sql[:cursor], "\n")
		return core.LineSpan{Start: start, End: start + strings.Count(stmtText, "\n")}, cursor
	}

	absStart := cursor + idx
	absEnd := absStart + len(stmtText)
	startLine := 1 + strings.Count(sql[:absStart], "\n")
	endLine := startLine + strings.Count(sql[absStart:absEnd], "\n")
	return core.LineSpan{Start: startLine, End: endLine}, absEnd
}

func (p *Parser) convertCreateTable(stmt *ast.CreateTableStmt, baseLine int) (*core.Table, map[string]int, []*core.Index, error) {
	name := qualifiedTableName(stmt.Table)
	table := &core.Table{Name: name}

	colLines, colIndexes := p.parseColumns(stmt.Cols, table, baseLine)
	indexes := p.parseConstraints(stmt.Constraints, table, name)
	indexes = append(indexes, colIndexes...)
	p.parseTableOptions(stmt.Options, table)

	return table, colLines, indexes, nil
}

func qualifiedTableName(tbl *ast.TableName) core.QualifiedName {
	if tbl.Schema.O != "" {
		return core.NewQualifiedName(tbl.Schema.O, tbl.Name.O)
	}
	return core.NewUnqualifiedName(tbl.Name.O)
}

func (p *Parser) convertCreateIndex(stmt *ast.CreateIndexStmt) *core.Index {
	cols := make([]core.IndexColumn, 0, len(stmt.IndexPartSpecifications))
	for _, spec := range stmt.IndexPartSpecifications {
		if spec.Column == nil {
			continue
		}
		cols = append(cols, core.IndexColumn{Name: spec.Column.Name.O, Length: spec.Length, Order: sortOrder(spec.Desc)})
	}

	owner := core.IndexOwner{Kind: core.IndexOwnerTable, Name: qualifiedTableName(stmt.Table)}
	method := core.IndexBTree
	switch stmt.KeyType {
	case ast.IndexKeyTypeUnique:
	case ast.IndexKeyTypeFullText:
		method = core.IndexFullText
	case ast.IndexKeyTypeSpatial:
		method = core.IndexSpatial
	}

	return &core.Index{
		Name:    core.NewQualifiedName(owner.Name.Schema.Name, stmt.IndexName),
		Owner:   owner,
		Columns: cols,
		Unique:  stmt.KeyType == ast.IndexKeyTypeUnique,
		Method:  method,
	}
}

func sortOrder(desc bool) core.SortOrder {
	if desc {
		return core.SortDesc
	}
	return core.SortAsc
}

func (p *Parser) exprToString(expr ast.ExprNode) string {
	if expr == nil {
		return ""
	}
	var sb strings.Builder
	restoreCtx := astFormatRestoreCtx(&sb)
	if err := expr.Restore(restoreCtx); err != nil {
		return ""
	}
	return strings.TrimSpace(sb.String())
}
