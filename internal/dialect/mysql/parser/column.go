package mysql

import (
	"strings"

	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"
	"github.com/pingcap/tidb/pkg/parser/mysql"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"github.com/shuymn/stateql/internal/core"
)

func astFormatRestoreCtx(sb *strings.Builder) *format.RestoreCtx {
	return format.NewRestoreCtx(format.DefaultRestoreFlags, sb)
}

// parseColumns converts TiDB's column defs into core.Columns, appending to
// table and returning the 1-based source line each column was declared on
// (relative to baseLine, the table statement's own start line) for
// @renamed attachment.
func (p *Parser) parseColumns(cols []*ast.ColumnDef, table *core.Table, baseLine int) (map[string]int, []*core.Index) {
	colLines := make(map[string]int, len(cols))
	var indexes []*core.Index

	for _, colDef := range cols {
		col := &core.Column{
			Name: core.NewIdentifier(colDef.Name.Name.O),
			Type: dataTypeOf(colDef.Tp),
		}

		var isPrimaryKey bool
		for _, opt := range colDef.Options {
			switch opt.Tp {
			case ast.ColumnOptionNotNull:
				col.NotNull = true
			case ast.ColumnOptionNull:
				col.NotNull = false
			case ast.ColumnOptionPrimaryKey:
				isPrimaryKey = true
				col.NotNull = true
			case ast.ColumnOptionAutoIncrement:
				col.Identity = &core.IdentitySpec{Generation: core.IdentityByDefault}
			case ast.ColumnOptionDefaultValue:
				expr := core.RawExpr(p.exprToString(opt.Expr))
				col.Default = &expr
			case ast.ColumnOptionUniqKey:
				indexes = append(indexes, &core.Index{
					Name:    indexName(table.Name, "", []string{col.Name.Name}),
					Owner:   core.IndexOwner{Kind: core.IndexOwnerTable, Name: table.Name},
					Columns: []core.IndexColumn{{Name: col.Name.Name}},
					Unique:  true,
					Method:  core.IndexBTree,
				})
			case ast.ColumnOptionComment:
				col.Comment = p.exprToString(opt.Expr)
			case ast.ColumnOptionCollate:
				if opt.StrValue != "" {
					col.Collation = opt.StrValue
				} else {
					col.Collation = p.exprToString(opt.Expr)
				}
			case ast.ColumnOptionGenerated:
				storage := core.GenerationVirtual
				if opt.Stored {
					storage = core.GenerationStored
				}
				col.Generated = &core.GeneratedSpec{Expression: core.RawExpr(p.exprToString(opt.Expr)), Storage: storage}
			}
		}

		table.Columns = append(table.Columns, col)
		colLines[col.Name.Name] = baseLine

		if isPrimaryKey {
			ensurePrimaryKeyColumn(table, col.Name.Name)
		}
	}

	return colLines, indexes
}

func ensurePrimaryKeyColumn(table *core.Table, colName string) {
	colName = strings.TrimSpace(colName)
	if colName == "" {
		return
	}
	if table.PrimaryKey == nil {
		table.PrimaryKey = &core.PrimaryKey{Name: "PRIMARY"}
	}
	for _, existing := range table.PrimaryKey.Columns {
		if strings.EqualFold(existing, colName) {
			return
		}
	}
	table.PrimaryKey.Columns = append(table.PrimaryKey.Columns, colName)
}

// parseConstraints converts table-level constraints and indexes. Indexes
// are returned separately: in the canonical IR they are independent
// SchemaObjects, not table sub-fields.
func (p *Parser) parseConstraints(constraints []*ast.Constraint, table *core.Table, tableName core.QualifiedName) []*core.Index {
	var indexes []*core.Index

	for _, constraint := range constraints {
		columns := make([]string, 0, len(constraint.Keys))
		indexCols := make([]core.IndexColumn, 0, len(constraint.Keys))
		for _, key := range constraint.Keys {
			if key.Column == nil {
				continue
			}
			columns = append(columns, key.Column.Name.O)
			indexCols = append(indexCols, core.IndexColumn{Name: key.Column.Name.O, Length: key.Length, Order: sortOrder(key.Desc)})
		}

		owner := core.IndexOwner{Kind: core.IndexOwnerTable, Name: tableName}

		switch constraint.Tp {
		case ast.ConstraintPrimaryKey:
			for _, name := range columns {
				ensurePrimaryKeyColumn(table, name)
			}
			table.PrimaryKey.Name = "PRIMARY"
			table.PrimaryKey.Columns = columns

		case ast.ConstraintUniq, ast.ConstraintUniqKey, ast.ConstraintUniqIndex:
			indexes = append(indexes, &core.Index{
				Name:    indexName(tableName, constraint.Name, columns),
				Owner:   owner,
				Columns: indexCols,
				Unique:  true,
				Method:  core.IndexBTree,
			})

		case ast.ConstraintForeignKey:
			fk := &core.ForeignKey{
				Name:            constraint.Name,
				Columns:         columns,
				ReferencedTable: qualifiedTableName(constraint.Refer.Table),
			}
			for _, spec := range constraint.Refer.IndexPartSpecifications {
				if spec.Column != nil {
					fk.ReferencedColumns = append(fk.ReferencedColumns, spec.Column.Name.O)
				}
			}
			if constraint.Refer.OnDelete != nil {
				fk.OnDelete = referentialAction(constraint.Refer.OnDelete.ReferOpt)
			}
			if constraint.Refer.OnUpdate != nil {
				fk.OnUpdate = referentialAction(constraint.Refer.OnUpdate.ReferOpt)
			}
			table.ForeignKeys = append(table.ForeignKeys, fk)

		case ast.ConstraintIndex, ast.ConstraintKey:
			indexes = append(indexes, &core.Index{
				Name:    indexName(tableName, constraint.Name, columns),
				Owner:   owner,
				Columns: indexCols,
				Unique:  false,
				Method:  core.IndexBTree,
			})

		case ast.ConstraintFulltext:
			indexes = append(indexes, &core.Index{
				Name:    indexName(tableName, constraint.Name, columns),
				Owner:   owner,
				Columns: indexCols,
				Unique:  false,
				Method:  core.IndexFullText,
			})

		case ast.ConstraintCheck:
			check := &core.CheckConstraint{Name: constraint.Name, Enforced: constraint.Enforced}
			if constraint.Expr != nil {
				check.Expression = core.RawExpr(p.exprToString(constraint.Expr))
			}
			table.Checks = append(table.Checks, check)
		}
	}

	return indexes
}

func indexName(table core.QualifiedName, name string, columns []string) core.QualifiedName {
	if name == "" {
		name = strings.Join(columns, "_") + "_idx"
	}
	return core.QualifiedName{Schema: table.Schema, Name: core.NewIdentifier(name)}
}

func referentialAction(opt ast.ReferOptionType) core.ReferentialAction {
	switch opt {
	case ast.ReferOptionCascade:
		return core.RefActionCascade
	case ast.ReferOptionSetNull:
		return core.RefActionSetNull
	case ast.ReferOptionRestrict:
		return core.RefActionRestrict
	case ast.ReferOptionNoAction:
		return core.RefActionNoAction
	case ast.ReferOptionSetDefault:
		return core.RefActionSetDefault
	default:
		return core.RefActionNone
	}
}

// parseTableOptions maps the cross-dialect-relevant subset of MySQL table
// options onto core.TableOptions/Table.Comment. ROW_FORMAT and
// AUTO_INCREMENT, which this IR has no dedicated field for, are kept under
// Table.Attributes with the "mysql." key prefix; every other table option
// (KEY_BLOCK_SIZE and the like) is dropped.
func (p *Parser) parseTableOptions(opts []*ast.TableOption, table *core.Table) {
	for _, opt := range opts {
		switch opt.Tp {
		case ast.TableOptionComment:
			table.Comment = opt.StrValue
		case ast.TableOptionCharset:
			table.Options.Charset = opt.StrValue
		case ast.TableOptionCollate:
			table.Options.Collation = opt.StrValue
		case ast.TableOptionEngine:
			table.Options.Engine = opt.StrValue
		case ast.TableOptionTablespace:
			table.Options.Tablespace = opt.StrValue
		case ast.TableOptionRowFormat:
			setAttribute(table, AttrRowFormat, core.StringValue(rowFormatToString(opt.UintValue)))
		case ast.TableOptionAutoIncrement:
			setAttribute(table, AttrAutoIncrement, core.IntValue(int64(opt.UintValue)))
		}
	}
}

func setAttribute(table *core.Table, key string, v core.Value) {
	if table.Attributes == nil {
		table.Attributes = core.AttributeMap{}
	}
	table.Attributes[key] = v
}

func rowFormatToString(v uint64) string {
	switch v {
	case mysql.RowFormatDefault:
		return "DEFAULT"
	case mysql.RowFormatDynamic:
		return "DYNAMIC"
	case mysql.RowFormatFixed:
		return "FIXED"
	case mysql.RowFormatCompressed:
		return "COMPRESSED"
	case mysql.RowFormatRedundant:
		return "REDUNDANT"
	case mysql.RowFormatCompact:
		return "COMPACT"
	default:
		return ""
	}
}
