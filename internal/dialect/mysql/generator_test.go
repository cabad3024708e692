package mysql

import (
	"strings"
	"testing"

	"github.com/shuymn/stateql/internal/core"
	"github.com/shuymn/stateql/internal/diff"
)

func TestQuoteIdentEscapesBackticks(t *testing.T) {
	g := &Generator{}
	got := g.QuoteIdent(core.NewIdentifier("weird`name"))
	want := "`weird``name`"
	if got != want {
		t.Errorf("QuoteIdent = %q, want %q", got, want)
	}
}

func TestQuoteStringEscapesControlCharacters(t *testing.T) {
	g := &Generator{}
	got := g.quoteString("a'b\\c\nd")
	if !strings.Contains(got, `\\`) || !strings.Contains(got, "''") || !strings.Contains(got, `\n`) {
		t.Errorf("quoteString = %q, missing expected escapes", got)
	}
}

func TestGenerateDDLCreateTable(t *testing.T) {
	g := &Generator{}
	tbl := &core.Table{
		Name:       core.NewUnqualifiedName("widgets"),
		Columns:    []*core.Column{{Name: core.NewIdentifier("id"), Type: core.DataType{Kind: core.TypeInteger, IntWidth: core.IntNormal}, NotNull: true}},
		PrimaryKey: &core.PrimaryKey{Columns: []string{"id"}},
		Options:    core.TableOptions{Engine: "InnoDB"},
	}
	stmts, err := g.GenerateDDL(diff.DiffOp{Kind: diff.OpCreate, ObjectKind: core.KindTable, Name: tbl.Name, New: tbl})
	if err != nil {
		t.Fatalf("GenerateDDL: %v", err)
	}
	if len(stmts) != 1 || !strings.Contains(stmts[0].SQL, "CREATE TABLE `widgets`") {
		t.Fatalf("unexpected statements: %+v", stmts)
	}
	if stmts[0].Transactional {
		t.Error("MySQL DDL must be marked non-transactional")
	}
}

func TestGenerateDDLDropTable(t *testing.T) {
	g := &Generator{}
	stmts, err := g.GenerateDDL(diff.DiffOp{Kind: diff.OpDrop, ObjectKind: core.KindTable, Name: core.NewUnqualifiedName("widgets")})
	if err != nil {
		t.Fatalf("GenerateDDL: %v", err)
	}
	if stmts[0].SQL != "DROP TABLE `widgets`" {
		t.Errorf("got %q", stmts[0].SQL)
	}
}

func TestGenerateDDLRenameTable(t *testing.T) {
	g := &Generator{}
	old := &core.Table{Name: core.NewUnqualifiedName("widgets_old")}
	stmts, err := g.GenerateDDL(diff.DiffOp{Kind: diff.OpRenameTable, ObjectKind: core.KindTable, Name: core.NewUnqualifiedName("widgets"), Old: old})
	if err != nil {
		t.Fatalf("GenerateDDL: %v", err)
	}
	if stmts[0].SQL != "RENAME TABLE `widgets_old` TO `widgets`" {
		t.Errorf("got %q", stmts[0].SQL)
	}
}

func TestGenerateDDLUnsupportedObjectKindErrors(t *testing.T) {
	g := &Generator{}
	_, err := g.GenerateDDL(diff.DiffOp{Kind: diff.OpCreate, ObjectKind: core.KindSequence, Name: core.NewUnqualifiedName("s")})
	if err == nil {
		t.Fatal("expected an error for a MySQL-unsupported object kind")
	}
}

func TestGenerateDDLCreateIndex(t *testing.T) {
	g := &Generator{}
	idx := &core.Index{
		Name:    core.NewUnqualifiedName("idx_email"),
		Owner:   core.IndexOwner{Kind: core.IndexOwnerTable, Name: core.NewUnqualifiedName("users")},
		Columns: []core.IndexColumn{{Name: "email"}},
		Unique:  true,
	}
	stmts, err := g.GenerateDDL(diff.DiffOp{Kind: diff.OpCreate, ObjectKind: core.KindIndex, Name: idx.Name, New: idx})
	if err != nil {
		t.Fatalf("GenerateDDL: %v", err)
	}
	want := "CREATE UNIQUE INDEX `idx_email` ON `users` (`email`)"
	if stmts[0].SQL != want {
		t.Errorf("got %q, want %q", stmts[0].SQL, want)
	}
}

func TestGenerateDDLGrantProducesIncrementalGrant(t *testing.T) {
	g := &Generator{}
	priv := &core.Privilege{
		Object:     core.NewUnqualifiedName("users"),
		Grantee:    "app_user",
		Operations: map[core.PrivilegeOp]bool{core.PrivSelect: true},
	}
	stmts, err := g.GenerateDDL(diff.DiffOp{Kind: diff.OpGrant, ObjectKind: core.KindPrivilege, New: priv})
	if err != nil {
		t.Fatalf("GenerateDDL: %v", err)
	}
	if !strings.HasPrefix(stmts[0].SQL, "GRANT SELECT ON `users` TO app_user") {
		t.Errorf("got %q", stmts[0].SQL)
	}
}
