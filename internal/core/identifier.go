// Package core contains the canonical, dialect-agnostic schema intermediate
// representation shared by the diff engine, the orderer, and the plan model.
// Values here are produced once by a dialect's parser/normalizer and are
// treated as immutable inputs by every later pipeline stage.
package core

import "strings"

// Identifier is a single SQL identifier (table name, column name, ...)
// together with whether the source text quoted it. The quote character
// itself is never carried here: that is a rendering detail owned by the
// dialect, not a comparison detail owned by the IR.
type Identifier struct {
	Name   string
	Quoted bool
}

// NewIdentifier builds an unquoted identifier.
func NewIdentifier(name string) Identifier {
	return Identifier{Name: name}
}

// NewQuotedIdentifier builds an identifier that was quoted in source.
func NewQuotedIdentifier(name string) Identifier {
	return Identifier{Name: name, Quoted: true}
}

// Equal compares two identifiers per the §3 rule: if either side is quoted,
// comparison is verbatim (case-sensitive); otherwise it is case-insensitive.
func (id Identifier) Equal(other Identifier) bool {
	if id.Quoted || other.Quoted {
		return id.Name == other.Name
	}
	return strings.EqualFold(id.Name, other.Name)
}

// IsZero reports whether the identifier carries no name at all.
func (id Identifier) IsZero() bool {
	return id.Name == ""
}

// String renders the bare identifier text without quoting; dialect
// renderers are responsible for adding quote characters.
func (id Identifier) String() string {
	return id.Name
}

// QualifiedName is an optional schema identifier plus a required name
// identifier, e.g. `public.orders` or bare `orders`.
type QualifiedName struct {
	Schema Identifier // Zero value means "unqualified".
	Name   Identifier
}

// NewQualifiedName builds a schema-qualified name.
func NewQualifiedName(schema, name string) QualifiedName {
	return QualifiedName{Schema: NewIdentifier(schema), Name: NewIdentifier(name)}
}

// NewUnqualifiedName builds a bare name with no schema.
func NewUnqualifiedName(name string) QualifiedName {
	return QualifiedName{Name: NewIdentifier(name)}
}

// IsQualified reports whether a schema identifier is present.
func (q QualifiedName) IsQualified() bool {
	return !q.Schema.IsZero()
}

// Equal compares two qualified names. An unqualified name matches a
// qualified one only on the Name component, so callers resolving against
// a search path can fall back to bare-name matching (spec.md §4.2).
func (q QualifiedName) Equal(other QualifiedName) bool {
	if q.IsQualified() && other.IsQualified() {
		return q.Schema.Equal(other.Schema) && q.Name.Equal(other.Name)
	}
	return q.Name.Equal(other.Name)
}

// String renders "schema.name" or just "name" when unqualified.
func (q QualifiedName) String() string {
	if q.IsQualified() {
		return q.Schema.String() + "." + q.Name.String()
	}
	return q.Name.String()
}
