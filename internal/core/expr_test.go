package core

import "testing"

func TestExpressionEqualLiteral(t *testing.T) {
	a := Literal(IntValue(5))
	b := Literal(IntValue(5))
	c := Literal(IntValue(6))
	if !a.Equal(b) {
		t.Error("identical literals should be equal")
	}
	if a.Equal(c) {
		t.Error("different literals should not be equal")
	}
}

func TestExpressionEqualBinary(t *testing.T) {
	left := Ident(NewIdentifier("price"))
	right := Literal(IntValue(0))
	a := Expression{Kind: ExprBinary, Op: ">", Left: &left, Right: &right}
	b := Expression{Kind: ExprBinary, Op: ">", Left: &left, Right: &right}
	if !a.Equal(b) {
		t.Error("structurally identical binary expressions should be equal")
	}

	other := Expression{Kind: ExprBinary, Op: "<", Left: &left, Right: &right}
	if a.Equal(other) {
		t.Error("different operators must not be equal")
	}
}

func TestExpressionEqualRawRequiresExactText(t *testing.T) {
	a := RawExpr("price > 0")
	b := RawExpr("PRICE > 0")
	if a.Equal(b) {
		t.Error("raw expressions compare verbatim; canonicalization is the dialect's job, not Equal's")
	}
}

func TestExpressionEqualCase(t *testing.T) {
	cond := Expression{Kind: ExprBinary, Op: "=", Left: ptr(Ident(NewIdentifier("status"))), Right: ptr(Literal(StringValue("active")))}
	then := Literal(IntValue(1))
	a := Expression{Kind: ExprCaseSearch, Branches: []CaseBranch{{When: cond, Then: then}}}
	b := Expression{Kind: ExprCaseSearch, Branches: []CaseBranch{{When: cond, Then: then}}}
	if !a.Equal(b) {
		t.Error("identical CASE expressions should be equal")
	}
}

func ptr(e Expression) *Expression { return &e }
