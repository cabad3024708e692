package annotate

import (
	"strings"
	"testing"
)

func TestExtractSimpleUnquoted(t *testing.T) {
	sql := "ALTER TABLE users RENAME COLUMN login TO username; -- @renamed from=login\n"
	cleaned, anns, err := Extract(sql)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anns) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(anns))
	}
	if anns[0].OldName.Name != "login" || anns[0].OldName.Quoted {
		t.Errorf("unexpected old name: %+v", anns[0].OldName)
	}
	if anns[0].Line != 1 {
		t.Errorf("expected line 1, got %d", anns[0].Line)
	}
	if strings.Contains(cleaned, "@renamed") {
		t.Errorf("cleaned SQL still contains directive: %q", cleaned)
	}
}

func TestExtractQuotedName(t *testing.T) {
	sql := `-- @renamed from="Old Name"` + "\n"
	_, anns, err := Extract(sql)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anns) != 1 || anns[0].OldName.Name != "Old Name" || !anns[0].OldName.Quoted {
		t.Fatalf("unexpected annotations: %+v", anns)
	}
}

func TestExtractDeprecatedAlias(t *testing.T) {
	sql := "-- @rename from=login\n"
	_, anns, err := Extract(sql)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anns) != 1 || !anns[0].Deprecated {
		t.Fatalf("expected a deprecated annotation, got %+v", anns)
	}
}

func TestExtractIgnoresMarkerInStringLiteral(t *testing.T) {
	sql := "INSERT INTO notes(body) VALUES ('see -- @renamed from=x for details');\n"
	cleaned, anns, err := Extract(sql)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anns) != 0 {
		t.Fatalf("expected no annotations from inside a string literal, got %+v", anns)
	}
	if cleaned != sql {
		t.Errorf("SQL containing only a literal marker should be unchanged:\ngot:  %q\nwant: %q", cleaned, sql)
	}
}

func TestExtractBlockComment(t *testing.T) {
	sql := "/* @renamed from=login */\nALTER TABLE users ...;\n"
	_, anns, err := Extract(sql)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anns) != 1 || anns[0].Line != 1 {
		t.Fatalf("unexpected annotations: %+v", anns)
	}
}

func TestExtractMalformedMissingFromFails(t *testing.T) {
	sql := "-- @renamed\n"
	_, _, err := Extract(sql)
	if err == nil {
		t.Fatal("expected an error for a directive missing its from= clause")
	}
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if perr.Line != 1 {
		t.Errorf("expected line 1, got %d", perr.Line)
	}
}

func TestExtractMalformedUnterminatedQuoteFails(t *testing.T) {
	sql := `-- @renamed from="Old Name` + "\n"
	_, _, err := Extract(sql)
	if err == nil {
		t.Fatal("expected an error for an unterminated quote")
	}
}

func TestExtractPreservesLineNumbersAcrossMultipleAnnotations(t *testing.T) {
	sql := "CREATE TABLE t(id int);\n-- @renamed from=old_t\nALTER TABLE t2 ...; -- @renamed from=old_t2\n"
	_, anns, err := Extract(sql)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anns) != 2 {
		t.Fatalf("expected 2 annotations, got %d", len(anns))
	}
	if anns[0].Line != 2 || anns[1].Line != 3 {
		t.Fatalf("unexpected line numbers: %+v", anns)
	}
}
