package mysql

import (
	"testing"

	"github.com/shuymn/stateql/internal/core"
)

func parseSingleTable(t *testing.T, sql string) *core.Table {
	t.Helper()
	p := NewParser()
	tables, _, err := p.Parse(sql)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	return tables[0].Table
}

func TestParseTableOptionsStandard(t *testing.T) {
	sql := `CREATE TABLE t (id INT)
		ENGINE=InnoDB
		DEFAULT CHARSET=utf8mb4
		COLLATE=utf8mb4_bin
		AUTO_INCREMENT=100
		ROW_FORMAT=DYNAMIC
		COMMENT='note';`

	table := parseSingleTable(t, sql)
	if table.Options.Engine != "InnoDB" {
		t.Errorf("Engine = %q", table.Options.Engine)
	}
	if table.Options.Charset != "utf8mb4" {
		t.Errorf("Charset = %q", table.Options.Charset)
	}
	if table.Options.Collation != "utf8mb4_bin" {
		t.Errorf("Collation = %q", table.Options.Collation)
	}
	if table.Comment != "note" {
		t.Errorf("Comment = %q", table.Comment)
	}
	if got := table.Attributes[AttrAutoIncrement]; got.Int != 100 {
		t.Errorf("AutoIncrement attribute = %+v", got)
	}
	if got := table.Attributes[AttrRowFormat]; got.Str != "DYNAMIC" {
		t.Errorf("RowFormat attribute = %+v", got)
	}
}

func TestParsePrimaryKeyFromColumnOption(t *testing.T) {
	table := parseSingleTable(t, `CREATE TABLE t (id INT PRIMARY KEY, name VARCHAR(64));`)
	if table.PrimaryKey == nil || len(table.PrimaryKey.Columns) != 1 || table.PrimaryKey.Columns[0] != "id" {
		t.Fatalf("expected primary key on id, got %+v", table.PrimaryKey)
	}
	if !table.Columns[0].NotNull {
		t.Error("primary key column should be implicitly NOT NULL")
	}
}

func TestParseTableLevelPrimaryKey(t *testing.T) {
	table := parseSingleTable(t, `CREATE TABLE t (a INT, b INT, PRIMARY KEY (a, b));`)
	if table.PrimaryKey == nil || len(table.PrimaryKey.Columns) != 2 {
		t.Fatalf("expected composite primary key, got %+v", table.PrimaryKey)
	}
}

func TestParseForeignKey(t *testing.T) {
	table := parseSingleTable(t, `CREATE TABLE orders (
		id INT PRIMARY KEY,
		customer_id INT,
		FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
	);`)
	if len(table.ForeignKeys) != 1 {
		t.Fatalf("expected 1 foreign key, got %d", len(table.ForeignKeys))
	}
	fk := table.ForeignKeys[0]
	if fk.ReferencedTable.Name.Name != "customers" || fk.OnDelete != core.RefActionCascade {
		t.Errorf("unexpected foreign key: %+v", fk)
	}
}

func TestParseCreateTableIndexesAreSeparateObjects(t *testing.T) {
	p := NewParser()
	_, others, err := p.Parse(`CREATE TABLE t (id INT, email VARCHAR(255), UNIQUE KEY uq_email (email));`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(others) != 1 {
		t.Fatalf("expected 1 index object, got %d", len(others))
	}
	idx, ok := others[0].Object.(*core.Index)
	if !ok || !idx.Unique {
		t.Fatalf("expected a unique index, got %+v", others[0].Object)
	}
}

func TestParseColumnNullability(t *testing.T) {
	table := parseSingleTable(t, `CREATE TABLE t (a INT NOT NULL, b INT NULL, c INT);`)
	if !table.Columns[0].NotNull {
		t.Error("a should be NOT NULL")
	}
	if table.Columns[1].NotNull || table.Columns[2].NotNull {
		t.Error("b and c should be nullable")
	}
}
