package core

// TypeKind enumerates the user-defined type varieties this spec tracks.
type TypeKind string

const (
	TypeKindEnum      TypeKind = "enum"
	TypeKindComposite TypeKind = "composite"
	TypeKindRange     TypeKind = "range"
)

// CompositeField is one attribute of a composite type.
type CompositeField struct {
	Name string
	Type DataType
}

// Type is a CREATE TYPE (enum, composite, or range). Domains are a
// distinct object kind (see Domain) because their diff semantics diverge
// (a domain has a base type and constraints, not members/fields).
type Type struct {
	Name     QualifiedName
	TypeKind TypeKind

	// TypeKindEnum
	EnumValues []string

	// TypeKindComposite
	Fields []CompositeField

	// TypeKindRange
	RangeSubtype *DataType

	Comment string
}

func (t *Type) ObjectName() QualifiedName { return t.Name }

// Domain is a CREATE DOMAIN: a base type plus optional constraints.
type Domain struct {
	Name     QualifiedName
	BaseType DataType
	NotNull  bool
	Default  *Expression
	Checks   []CheckConstraint
	Comment  string
}

func (d *Domain) ObjectName() QualifiedName { return d.Name }

// Extension is a CREATE EXTENSION (PostgreSQL).
type Extension struct {
	Name    Identifier
	Schema  Identifier
	Version string
}

func (e *Extension) ObjectName() QualifiedName {
	return QualifiedName{Schema: e.Schema, Name: e.Name}
}

// Schema is a CREATE SCHEMA (namespace), not to be confused with the
// SchemaObject interface that seals the whole object family.
type Schema struct {
	Name  Identifier
	Owner string
}

func (s *Schema) ObjectName() QualifiedName { return QualifiedName{Name: s.Name} }
