package core

// ExprKind tags the variant held by an Expression node.
type ExprKind string

const (
	ExprLiteral     ExprKind = "literal"
	ExprIdent       ExprKind = "ident"       // bare or qualified column/name reference
	ExprNull        ExprKind = "null"
	ExprBinary      ExprKind = "binary"      // Left OP Right
	ExprUnary       ExprKind = "unary"       // OP Operand
	ExprComparison  ExprKind = "comparison"  // Left OP [ANY|ALL] Right
	ExprAnd         ExprKind = "and"
	ExprOr          ExprKind = "or"
	ExprNot         ExprKind = "not"
	ExprIsTest      ExprKind = "is_test"     // x IS [NOT] NULL / TRUE / FALSE
	ExprBetween     ExprKind = "between"
	ExprIn          ExprKind = "in"
	ExprParen       ExprKind = "paren"
	ExprTuple       ExprKind = "tuple"
	ExprFuncCall    ExprKind = "func_call"
	ExprCast        ExprKind = "cast"
	ExprCollate     ExprKind = "collate"
	ExprCaseSearch  ExprKind = "case_searched" // CASE WHEN cond THEN v ... END
	ExprCaseSimple  ExprKind = "case_simple"   // CASE x WHEN v THEN r ... END
	ExprArray       ExprKind = "array"
	ExprExists      ExprKind = "exists"
	ExprRaw         ExprKind = "raw" // escape hatch; must be the DB's own canonical text
)

// SetQuantifier distinguishes ANY/ALL/none for comparison expressions.
type SetQuantifier string

const (
	QuantifierNone SetQuantifier = ""
	QuantifierAny  SetQuantifier = "ANY"
	QuantifierAll  SetQuantifier = "ALL"
)

// WindowSpec is an (intentionally minimal) OVER(...) clause attached to a
// function call. The diff engine compares it structurally like any other
// expression field; it does not interpret frame semantics.
type WindowSpec struct {
	PartitionBy []Expression
	OrderBy     []OrderItem
}

// OrderItem is a single ORDER BY entry inside a window spec.
type OrderItem struct {
	Expr Expression
	Desc bool
}

// CaseBranch is one WHEN/THEN arm of a CASE expression.
type CaseBranch struct {
	When Expression
	Then Expression
}

// Expression is the structured AST for SQL value expressions that appear in
// defaults, generated-column expressions, check constraints, index
// predicates, and view bodies' residual fragments. It is rich enough to
// canonicalize what real parsers actually produce; anything it cannot
// structure falls back to Raw, which must hold text already in the
// database's own canonical form (never user-typed SQL), per spec.md §3.
type Expression struct {
	Kind ExprKind

	// ExprLiteral
	Literal Value

	// ExprIdent
	IdentQualifier Identifier // zero value: bare identifier
	IdentName      Identifier

	// ExprBinary / ExprComparison
	Op         string
	Left       *Expression
	Right      *Expression
	Quantifier SetQuantifier

	// ExprUnary / ExprNot / ExprParen / ExprCollate / ExprExists
	Operand *Expression

	// ExprIsTest
	IsNegated bool
	IsTarget  string // "NULL", "TRUE", "FALSE"

	// ExprBetween
	Low  *Expression
	High *Expression

	// ExprIn
	InList     []Expression
	InNegated  bool

	// ExprTuple / ExprArray / function-call arguments
	Elements []Expression

	// ExprFuncCall
	FuncName string
	Args     []Expression
	Distinct bool
	Window   *WindowSpec

	// ExprCast
	TargetType DataType

	// ExprCollate
	Collation string

	// ExprCaseSearch / ExprCaseSimple
	CaseSubject *Expression // only for ExprCaseSimple
	Branches    []CaseBranch
	ElseBranch  *Expression

	// ExprRaw
	Raw string
}

// Literal builds a literal-value expression node.
func Literal(v Value) Expression { return Expression{Kind: ExprLiteral, Literal: v} }

// Ident builds a bare-identifier expression node.
func Ident(name Identifier) Expression { return Expression{Kind: ExprIdent, IdentName: name} }

// QualifiedIdent builds a qualified-identifier expression node (e.g. t.col).
func QualifiedIdent(qualifier, name Identifier) Expression {
	return Expression{Kind: ExprIdent, IdentQualifier: qualifier, IdentName: name}
}

// RawExpr wraps already-canonical database-exported text.
func RawExpr(text string) Expression { return Expression{Kind: ExprRaw, Raw: text} }

// Equal reports structural equality between two expression trees. This is
// the strict-equality half of the diff engine's two-step expression
// comparison (§4.2); the equivalence-policy fallback is applied by the
// caller when Equal returns false.
func (e Expression) Equal(o Expression) bool {
	if e.Kind != o.Kind {
		return false
	}
	switch e.Kind {
	case ExprLiteral:
		return e.Literal.Equal(o.Literal)
	case ExprIdent:
		return e.IdentQualifier.Equal(o.IdentQualifier) && e.IdentName.Equal(o.IdentName)
	case ExprNull:
		return true
	case ExprBinary, ExprComparison:
		return e.Op == o.Op && e.Quantifier == o.Quantifier &&
			exprPtrEqual(e.Left, o.Left) && exprPtrEqual(e.Right, o.Right)
	case ExprUnary:
		return e.Op == o.Op && exprPtrEqual(e.Operand, o.Operand)
	case ExprAnd, ExprOr:
		return exprPtrEqual(e.Left, o.Left) && exprPtrEqual(e.Right, o.Right)
	case ExprNot, ExprParen:
		return exprPtrEqual(e.Operand, o.Operand)
	case ExprIsTest:
		return e.IsNegated == o.IsNegated && e.IsTarget == o.IsTarget && exprPtrEqual(e.Operand, o.Operand)
	case ExprBetween:
		return exprPtrEqual(e.Operand, o.Operand) && exprPtrEqual(e.Low, o.Low) && exprPtrEqual(e.High, o.High)
	case ExprIn:
		return e.InNegated == o.InNegated && exprPtrEqual(e.Operand, o.Operand) && exprSliceEqual(e.InList, o.InList)
	case ExprTuple, ExprArray:
		return exprSliceEqual(e.Elements, o.Elements)
	case ExprFuncCall:
		return e.FuncName == o.FuncName && e.Distinct == o.Distinct &&
			exprSliceEqual(e.Args, o.Args) && windowEqual(e.Window, o.Window)
	case ExprCast:
		return e.TargetType.Equal(o.TargetType) && exprPtrEqual(e.Operand, o.Operand)
	case ExprCollate:
		return e.Collation == o.Collation && exprPtrEqual(e.Operand, o.Operand)
	case ExprCaseSearch:
		return branchesEqual(e.Branches, o.Branches) && exprPtrEqual(e.ElseBranch, o.ElseBranch)
	case ExprCaseSimple:
		return exprPtrEqual(e.CaseSubject, o.CaseSubject) &&
			branchesEqual(e.Branches, o.Branches) && exprPtrEqual(e.ElseBranch, o.ElseBranch)
	case ExprExists:
		return exprPtrEqual(e.Operand, o.Operand)
	case ExprRaw:
		return e.Raw == o.Raw
	default:
		return false
	}
}

func exprPtrEqual(a, b *Expression) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func exprSliceEqual(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func branchesEqual(a, b []CaseBranch) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].When.Equal(b[i].When) || !a[i].Then.Equal(b[i].Then) {
			return false
		}
	}
	return true
}

func windowEqual(a, b *WindowSpec) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !exprSliceEqual(a.PartitionBy, b.PartitionBy) || len(a.OrderBy) != len(b.OrderBy) {
		return false
	}
	for i := range a.OrderBy {
		if a.OrderBy[i].Desc != b.OrderBy[i].Desc || !a.OrderBy[i].Expr.Equal(b.OrderBy[i].Expr) {
			return false
		}
	}
	return true
}
