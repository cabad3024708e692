package core

// Table is the canonical representation of a CREATE TABLE. All fields are
// dialect-agnostic except the AttributeMap on Table/Column, which carries
// dialect-specific knobs keyed by "<dialect>.<attribute>" constants that
// each dialect package declares for itself (spec.md §6).
type Table struct {
	Name QualifiedName

	Columns []*Column

	PrimaryKey *PrimaryKey
	ForeignKeys []*ForeignKey
	Checks      []*CheckConstraint
	Exclusions  []*ExclusionConstraint

	Options   TableOptions
	Partition *PartitionSpec

	Comment string

	// RenamedFrom is populated exclusively by the normalized-object
	// assembler from an @renamed annotation (§4.1, §4.3). It is never
	// inferred heuristically.
	RenamedFrom *QualifiedName

	Attributes AttributeMap
}

func (t *Table) ObjectName() QualifiedName { return t.Name }

// FindColumn looks up a column by name within the table.
func (t *Table) FindColumn(name Identifier) *Column {
	for _, c := range t.Columns {
		if c.Name.Equal(name) {
			return c
		}
	}
	return nil
}

// IdentityGeneration controls the GENERATED clause for identity columns.
type IdentityGeneration string

const (
	IdentityAlways    IdentityGeneration = "ALWAYS"
	IdentityByDefault IdentityGeneration = "BY DEFAULT"
)

// IdentitySpec describes an IDENTITY/auto-increment column.
type IdentitySpec struct {
	Generation IdentityGeneration
	Seed       int64
	Increment  int64
}

// GenerationStorage controls whether a generated column is computed
// on-the-fly or materialized.
type GenerationStorage string

const (
	GenerationVirtual GenerationStorage = "VIRTUAL"
	GenerationStored  GenerationStorage = "STORED"
)

// GeneratedSpec describes a computed column.
type GeneratedSpec struct {
	Expression Expression
	Storage    GenerationStorage
}

// Column is a single column definition inside a Table.
type Column struct {
	Name Identifier
	Type DataType

	NotNull bool

	// Default is nil when the column has no DEFAULT clause.
	Default *Expression

	Identity   *IdentitySpec
	Generated  *GeneratedSpec

	Comment   string
	Collation string

	// RenamedFrom is populated exclusively from an @renamed annotation.
	RenamedFrom *Identifier

	Attributes AttributeMap
}

// PrimaryKey is a table's (at most one) primary key constraint.
type PrimaryKey struct {
	Name    string
	Columns []string
}

// ForeignKey is a table-level foreign key constraint.
type ForeignKey struct {
	Name              string
	Columns           []string
	ReferencedTable   QualifiedName
	ReferencedColumns []string
	OnDelete          ReferentialAction
	OnUpdate          ReferentialAction
}

// ReferentialAction is the action taken on referenced-row delete/update.
type ReferentialAction string

const (
	RefActionNone       ReferentialAction = ""
	RefActionCascade    ReferentialAction = "CASCADE"
	RefActionRestrict   ReferentialAction = "RESTRICT"
	RefActionSetNull    ReferentialAction = "SET NULL"
	RefActionSetDefault ReferentialAction = "SET DEFAULT"
	RefActionNoAction   ReferentialAction = "NO ACTION"
)

// CheckConstraint is a table-level CHECK constraint.
type CheckConstraint struct {
	Name       string
	Expression Expression
	Enforced   bool
}

// ExclusionConstraint is a table-level EXCLUDE constraint (PostgreSQL).
type ExclusionConstraint struct {
	Name       string
	Using      string
	Elements   []ExclusionElement
	Predicate  *Expression
}

// ExclusionElement pairs an expression with the operator used to exclude
// overlapping values.
type ExclusionElement struct {
	Expression Expression
	Operator   string
}

// PartitionSpec describes table partitioning.
type PartitionSpec struct {
	Strategy PartitionStrategy
	// Columns or expressions the partition key is built from, rendered as
	// raw text by the dialect (partitioning DDL varies too widely across
	// dialects to structure further here).
	KeyExpression string
	Partitions    []Partition
}

// PartitionStrategy enumerates supported partitioning strategies.
type PartitionStrategy string

const (
	PartitionRange PartitionStrategy = "RANGE"
	PartitionList  PartitionStrategy = "LIST"
	PartitionHash  PartitionStrategy = "HASH"
	PartitionKey   PartitionStrategy = "KEY"
)

// Partition is a single named partition within a PartitionSpec.
type Partition struct {
	Name       string
	Expression string
}

// TableOptions holds cross-dialect table options. Only fields meaningful
// across multiple dialects live here; dialect-specific knobs belong in
// Table.Attributes under that dialect's own key constants.
type TableOptions struct {
	Tablespace string
	Engine     string
	Charset    string
	Collation  string
}
