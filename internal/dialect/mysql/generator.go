package mysql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shuymn/stateql/internal/core"
	"github.com/shuymn/stateql/internal/dialect"
	"github.com/shuymn/stateql/internal/diff"
)

// Generator renders diff.DiffOps into MySQL DDL. MySQL DDL runs outside
// transactions in practice (implicit commit on most statements), so every
// GeneratedStatement it produces is non-transactional; BatchSeparator
// returns "" because MySQL has no notion of the GO-style batch boundary
// SQL Server does.
type Generator struct{}

func (g *Generator) BatchSeparator() string { return "" }

func (g *Generator) Equivalence() diff.EquivalencePolicy { return diff.StructuralEquivalence{} }

func (g *Generator) QuoteIdent(id core.Identifier) string {
	return "`" + strings.ReplaceAll(id.Name, "`", "``") + "`"
}

func (g *Generator) quoteQualified(name core.QualifiedName) string {
	if name.IsQualified() {
		return g.QuoteIdent(name.Schema) + "." + g.QuoteIdent(name.Name)
	}
	return g.QuoteIdent(name.Name)
}

func stmt(sql string) []dialect.GeneratedStatement {
	return []dialect.GeneratedStatement{{SQL: sql, Transactional: false}}
}

// GenerateDDL implements dialect.Generator.
func (g *Generator) GenerateDDL(op diff.DiffOp) ([]dialect.GeneratedStatement, error) {
	switch op.ObjectKind {
	case core.KindTable:
		return g.generateTableDDL(op)
	case core.KindIndex:
		return g.generateIndexDDL(op)
	case core.KindPrivilege:
		return g.generatePrivilegeDDL(op)
	default:
		return nil, fmt.Errorf("mysql: %s has no %s support (MySQL has no native notion of it)", op.ObjectKind, op.Kind)
	}
}

func (g *Generator) generateTableDDL(op diff.DiffOp) ([]dialect.GeneratedStatement, error) {
	switch op.Kind {
	case diff.OpCreate:
		tbl, ok := op.New.(*core.Table)
		if !ok {
			return nil, fmt.Errorf("mysql: create table op missing *core.Table payload")
		}
		return stmt(g.createTableSQL(tbl)), nil

	case diff.OpDrop:
		return stmt(fmt.Sprintf("DROP TABLE %s", g.quoteQualified(op.Name))), nil

	case diff.OpRenameTable:
		old := op.Old.(*core.Table)
		return stmt(fmt.Sprintf("RENAME TABLE %s TO %s", g.quoteQualified(old.Name), g.quoteQualified(op.Name))), nil

	case diff.OpRenameColumn:
		newTbl, ok := op.New.(*core.Table)
		if !ok {
			return nil, fmt.Errorf("mysql: rename column op missing *core.Table payload")
		}
		col := newTbl.FindColumn(core.NewIdentifier(op.RenamedColumn))
		if col == nil {
			return nil, fmt.Errorf("mysql: rename column %q: column not found in new definition", op.RenamedColumn)
		}
		sql := fmt.Sprintf("ALTER TABLE %s CHANGE COLUMN %s %s %s",
			g.quoteQualified(op.Name), g.QuoteIdent(core.NewIdentifier(op.OldColumnName)), g.QuoteIdent(col.Name), g.columnDefSQL(col))
		return stmt(sql), nil

	case diff.OpAlter:
		newTbl, ok := op.New.(*core.Table)
		if !ok {
			return nil, fmt.Errorf("mysql: alter table op missing *core.Table payload")
		}
		oldTbl, _ := op.Old.(*core.Table)
		return stmt(g.alterTableSQL(oldTbl, newTbl)), nil

	case diff.OpAddColumn:
		if op.Column == nil {
			return nil, fmt.Errorf("mysql: add column op missing Column payload")
		}
		return stmt(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
			g.quoteQualified(op.Name), g.QuoteIdent(op.Column.Name), g.columnDefSQL(op.Column))), nil

	case diff.OpDropColumn:
		if op.Column == nil {
			return nil, fmt.Errorf("mysql: drop column op missing Column payload")
		}
		return stmt(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", g.quoteQualified(op.Name), g.QuoteIdent(op.Column.Name))), nil

	case diff.OpAlterColumn:
		if op.Column == nil {
			return nil, fmt.Errorf("mysql: alter column op missing Column payload")
		}
		return stmt(fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s %s",
			g.quoteQualified(op.Name), g.QuoteIdent(op.Column.Name), g.columnDefSQL(op.Column))), nil

	case diff.OpAddPrimaryKey:
		if op.PrimaryKey == nil {
			return nil, fmt.Errorf("mysql: add primary key op missing PrimaryKey payload")
		}
		return stmt(fmt.Sprintf("ALTER TABLE %s ADD PRIMARY KEY %s",
			g.quoteQualified(op.Name), g.columnListSQL(op.PrimaryKey.Columns))), nil

	case diff.OpDropPrimaryKey:
		return stmt(fmt.Sprintf("ALTER TABLE %s DROP PRIMARY KEY", g.quoteQualified(op.Name))), nil

	case diff.OpAddForeignKey:
		if op.ForeignKey == nil {
			return nil, fmt.Errorf("mysql: add foreign key op missing ForeignKey payload")
		}
		fk := op.ForeignKey
		sql := fmt.Sprintf("ALTER TABLE %s ADD", g.quoteQualified(op.Name))
		if fk.Name != "" {
			sql += " CONSTRAINT " + g.QuoteIdent(core.NewIdentifier(fk.Name))
		}
		sql += fmt.Sprintf(" FOREIGN KEY %s REFERENCES %s %s",
			g.columnListSQL(fk.Columns), g.quoteQualified(fk.ReferencedTable), g.columnListSQL(fk.ReferencedColumns))
		if fk.OnDelete != core.RefActionNone {
			sql += " ON DELETE " + string(fk.OnDelete)
		}
		if fk.OnUpdate != core.RefActionNone {
			sql += " ON UPDATE " + string(fk.OnUpdate)
		}
		return stmt(sql), nil

	case diff.OpDropForeignKey:
		if op.ForeignKey == nil {
			return nil, fmt.Errorf("mysql: drop foreign key op missing ForeignKey payload")
		}
		return stmt(fmt.Sprintf("ALTER TABLE %s DROP FOREIGN KEY %s",
			g.quoteQualified(op.Name), g.QuoteIdent(core.NewIdentifier(op.ForeignKey.Name)))), nil

	case diff.OpAddCheck:
		if op.Check == nil {
			return nil, fmt.Errorf("mysql: add check op missing Check payload")
		}
		return stmt(fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)",
			g.quoteQualified(op.Name), g.QuoteIdent(core.NewIdentifier(op.Check.Name)), exprText(op.Check.Expression))), nil

	case diff.OpDropCheck:
		if op.Check == nil {
			return nil, fmt.Errorf("mysql: drop check op missing Check payload")
		}
		return stmt(fmt.Sprintf("ALTER TABLE %s DROP CHECK %s",
			g.quoteQualified(op.Name), g.QuoteIdent(core.NewIdentifier(op.Check.Name)))), nil

	case diff.OpAddExclusion, diff.OpDropExclusion:
		return nil, fmt.Errorf("mysql: %s has no EXCLUDE constraint support", op.Kind)

	case diff.OpAddPartition:
		if op.Partition == nil {
			return nil, fmt.Errorf("mysql: add partition op missing Partition payload")
		}
		return stmt(fmt.Sprintf("ALTER TABLE %s ADD PARTITION (PARTITION %s VALUES %s)",
			g.quoteQualified(op.Name), g.QuoteIdent(core.NewIdentifier(op.Partition.Name)), op.Partition.Expression)), nil

	case diff.OpDropPartition:
		if op.Partition == nil {
			return nil, fmt.Errorf("mysql: drop partition op missing Partition payload")
		}
		return stmt(fmt.Sprintf("ALTER TABLE %s DROP PARTITION %s",
			g.quoteQualified(op.Name), g.QuoteIdent(core.NewIdentifier(op.Partition.Name)))), nil

	case diff.OpAlterTableOptions:
		newTbl, ok := op.New.(*core.Table)
		if !ok {
			return nil, fmt.Errorf("mysql: alter table options op missing *core.Table payload")
		}
		var clauses []string
		if newTbl.Options.Engine != "" {
			clauses = append(clauses, "ENGINE="+newTbl.Options.Engine)
		}
		if newTbl.Options.Charset != "" {
			clauses = append(clauses, "DEFAULT CHARSET="+newTbl.Options.Charset)
		}
		if newTbl.Options.Collation != "" {
			clauses = append(clauses, "COLLATE="+newTbl.Options.Collation)
		}
		if newTbl.Comment != "" {
			clauses = append(clauses, "COMMENT="+g.quoteString(newTbl.Comment))
		}
		if len(clauses) == 0 {
			return nil, fmt.Errorf("mysql: alter table options op carries no renderable option change")
		}
		return stmt(fmt.Sprintf("ALTER TABLE %s %s", g.quoteQualified(op.Name), strings.Join(clauses, " "))), nil

	default:
		return nil, fmt.Errorf("mysql: table op kind %s not supported", op.Kind)
	}
}

func (g *Generator) createTableSQL(t *core.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", g.quoteQualified(t.Name))

	var lines []string
	for _, col := range t.Columns {
		lines = append(lines, "  "+g.QuoteIdent(col.Name)+" "+g.columnDefSQL(col))
	}
	if t.PrimaryKey != nil && len(t.PrimaryKey.Columns) > 0 {
		lines = append(lines, "  PRIMARY KEY "+g.columnListSQL(t.PrimaryKey.Columns))
	}
	for _, fk := range t.ForeignKeys {
		line := fmt.Sprintf("  FOREIGN KEY %s REFERENCES %s %s",
			g.columnListSQL(fk.Columns), g.quoteQualified(fk.ReferencedTable), g.columnListSQL(fk.ReferencedColumns))
		if fk.OnDelete != core.RefActionNone {
			line += " ON DELETE " + string(fk.OnDelete)
		}
		if fk.OnUpdate != core.RefActionNone {
			line += " ON UPDATE " + string(fk.OnUpdate)
		}
		lines = append(lines, line)
	}
	for _, chk := range t.Checks {
		lines = append(lines, fmt.Sprintf("  CONSTRAINT %s CHECK (%s)", g.QuoteIdent(core.NewIdentifier(chk.Name)), exprText(chk.Expression)))
	}

	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")

	if t.Options.Engine != "" {
		fmt.Fprintf(&b, " ENGINE=%s", t.Options.Engine)
	}
	if t.Options.Charset != "" {
		fmt.Fprintf(&b, " DEFAULT CHARSET=%s", t.Options.Charset)
	}
	if t.Options.Collation != "" {
		fmt.Fprintf(&b, " COLLATE=%s", t.Options.Collation)
	}
	if t.Comment != "" {
		fmt.Fprintf(&b, " COMMENT=%s", g.quoteString(t.Comment))
	}
	return b.String()
}

func (g *Generator) columnDefSQL(col *core.Column) string {
	var parts []string
	parts = append(parts, mysqlTypeSQL(col.Type))
	if col.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if col.Identity != nil {
		parts = append(parts, "AUTO_INCREMENT")
	}
	if col.Default != nil {
		parts = append(parts, "DEFAULT "+exprText(*col.Default))
	}
	if col.Generated != nil {
		storage := "VIRTUAL"
		if col.Generated.Storage == core.GenerationStored {
			storage = "STORED"
		}
		parts = append(parts, fmt.Sprintf("GENERATED ALWAYS AS (%s) %s", exprText(col.Generated.Expression), storage))
	}
	if col.Comment != "" {
		parts = append(parts, "COMMENT "+g.quoteString(col.Comment))
	}
	return strings.Join(parts, " ")
}

func (g *Generator) columnListSQL(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = g.QuoteIdent(core.NewIdentifier(n))
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

func (g *Generator) alterTableSQL(old, newTbl *core.Table) string {
	var clauses []string

	oldCols := map[string]*core.Column{}
	if old != nil {
		for _, c := range old.Columns {
			oldCols[strings.ToLower(c.Name.Name)] = c
		}
	}
	for _, c := range newTbl.Columns {
		if _, existed := oldCols[strings.ToLower(c.Name.Name)]; !existed {
			clauses = append(clauses, "ADD COLUMN "+g.QuoteIdent(c.Name)+" "+g.columnDefSQL(c))
		} else {
			clauses = append(clauses, "MODIFY COLUMN "+g.QuoteIdent(c.Name)+" "+g.columnDefSQL(c))
		}
	}
	if old != nil {
		newCols := map[string]bool{}
		for _, c := range newTbl.Columns {
			newCols[strings.ToLower(c.Name.Name)] = true
		}
		for _, c := range old.Columns {
			if !newCols[strings.ToLower(c.Name.Name)] {
				clauses = append(clauses, "DROP COLUMN "+g.QuoteIdent(c.Name))
			}
		}
	}

	if len(clauses) == 0 {
		clauses = []string{"ENGINE=" + newTbl.Options.Engine}
	}
	return fmt.Sprintf("ALTER TABLE %s %s", g.quoteQualified(newTbl.Name), strings.Join(clauses, ", "))
}

func (g *Generator) generateIndexDDL(op diff.DiffOp) ([]dialect.GeneratedStatement, error) {
	switch op.Kind {
	case diff.OpCreate:
		idx, ok := op.New.(*core.Index)
		if !ok {
			return nil, fmt.Errorf("mysql: create index op missing *core.Index payload")
		}
		return stmt(g.createIndexSQL(idx)), nil
	case diff.OpDrop:
		idx, ok := op.Old.(*core.Index)
		if !ok {
			return nil, fmt.Errorf("mysql: drop index op missing *core.Index payload")
		}
		return stmt(fmt.Sprintf("DROP INDEX %s ON %s", g.QuoteIdent(op.Name.Name), g.quoteQualified(idx.Owner.Name))), nil
	case diff.OpAlter:
		idx, ok := op.New.(*core.Index)
		if !ok {
			return nil, fmt.Errorf("mysql: alter index op missing *core.Index payload")
		}
		oldIdx, _ := op.Old.(*core.Index)
		var drop string
		if oldIdx != nil {
			drop = fmt.Sprintf("DROP INDEX %s ON %s;\n", g.QuoteIdent(op.Name.Name), g.quoteQualified(oldIdx.Owner.Name))
		}
		return stmt(drop + g.createIndexSQL(idx)), nil
	default:
		return nil, fmt.Errorf("mysql: index op kind %s not supported", op.Kind)
	}
}

func (g *Generator) createIndexSQL(idx *core.Index) string {
	kw := "INDEX"
	if idx.Unique {
		kw = "UNIQUE INDEX"
	}
	if idx.Method == core.IndexFullText {
		kw = "FULLTEXT INDEX"
	}
	cols := make([]string, len(idx.Columns))
	for i, c := range idx.Columns {
		col := g.QuoteIdent(core.NewIdentifier(c.Name))
		if c.Length > 0 {
			col = fmt.Sprintf("%s(%d)", col, c.Length)
		}
		cols[i] = col
	}
	return fmt.Sprintf("CREATE %s %s ON %s (%s)", kw, g.QuoteIdent(idx.Name.Name), g.quoteQualified(idx.Owner.Name), strings.Join(cols, ", "))
}

func (g *Generator) generatePrivilegeDDL(op diff.DiffOp) ([]dialect.GeneratedStatement, error) {
	oldPriv, _ := op.Old.(*core.Privilege)
	newPriv, _ := op.New.(*core.Privilege)

	// A grant renders the desired operations the current side lacks; a
	// revoke renders the current operations the desired side lacks.
	priv, other := newPriv, oldPriv
	if (op.Kind == diff.OpRevoke && oldPriv != nil) || priv == nil {
		priv, other = oldPriv, newPriv
	}
	if priv == nil {
		return nil, fmt.Errorf("mysql: privilege op missing *core.Privilege payload")
	}

	ops := make([]string, 0, len(priv.Operations))
	for privOp, on := range priv.Operations {
		if on && (other == nil || !other.Operations[privOp]) {
			ops = append(ops, string(privOp))
		}
	}
	sort.Strings(ops)

	switch op.Kind {
	case diff.OpGrant:
		return stmt(fmt.Sprintf("GRANT %s ON %s TO %s", strings.Join(ops, ", "), g.quoteQualified(priv.Object), priv.Grantee)), nil
	case diff.OpRevoke:
		return stmt(fmt.Sprintf("REVOKE %s ON %s FROM %s", strings.Join(ops, ", "), g.quoteQualified(priv.Object), priv.Grantee)), nil
	default:
		return nil, fmt.Errorf("mysql: privilege op kind %s not supported", op.Kind)
	}
}

func (g *Generator) quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString(`\\`)
		case '\x00':
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\x1A':
			b.WriteString(`\Z`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func exprText(e core.Expression) string {
	if e.Kind == core.ExprRaw {
		return e.Raw
	}
	return ""
}

func mysqlTypeSQL(t core.DataType) string {
	switch t.Kind {
	case core.TypeInteger:
		name := map[core.IntegerWidth]string{
			core.IntTiny: "TINYINT", core.IntSmall: "SMALLINT", core.IntMedium: "MEDIUMINT",
			core.IntNormal: "INT", core.IntBig: "BIGINT",
		}[t.IntWidth]
		if t.Unsigned {
			name += " UNSIGNED"
		}
		return name
	case core.TypeDecimal:
		if t.HasScale {
			return fmt.Sprintf("DECIMAL(%d,%d)", t.Precision, t.Scale)
		}
		return "DOUBLE"
	case core.TypeText:
		if t.FixedLength {
			return fmt.Sprintf("CHAR(%d)", t.Length)
		}
		if t.HasLength {
			return fmt.Sprintf("VARCHAR(%d)", t.Length)
		}
		return "TEXT"
	case core.TypeBlob:
		if t.HasLength {
			return fmt.Sprintf("VARBINARY(%d)", t.Length)
		}
		return "BLOB"
	case core.TypeBoolean:
		return "TINYINT(1)"
	case core.TypeDate:
		return "DATE"
	case core.TypeTime:
		return "TIME"
	case core.TypeTimestamp:
		if t.WithTZ {
			return "TIMESTAMP"
		}
		return "DATETIME"
	case core.TypeJSON:
		return "JSON"
	case core.TypeCustom:
		return t.Custom
	default:
		return "TEXT"
	}
}
