package core

// IndexOwnerKind distinguishes what kind of object an Index is attached to.
type IndexOwnerKind string

const (
	IndexOwnerTable             IndexOwnerKind = "table"
	IndexOwnerView              IndexOwnerKind = "view"
	IndexOwnerMaterializedView  IndexOwnerKind = "materialized_view"
)

// IndexOwner explicitly identifies the object an Index belongs to. Every
// Index's owner must refer to an object present in the same ObjectSet,
// else diff fails with an orphan-owner error (spec.md §3 invariants).
type IndexOwner struct {
	Kind IndexOwnerKind
	Name QualifiedName
}

// SortOrder is the sort direction of an index column.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// IndexColumn describes one column (or expression) participating in an
// index, with its prefix length and sort order.
type IndexColumn struct {
	Name   string
	Length int // 0 means full column; prefix-index support
	Order  SortOrder
}

// IndexMethod is the index algorithm/kind.
type IndexMethod string

const (
	IndexBTree    IndexMethod = "BTREE"
	IndexHash     IndexMethod = "HASH"
	IndexFullText IndexMethod = "FULLTEXT"
	IndexSpatial  IndexMethod = "SPATIAL"
	IndexGIN      IndexMethod = "GIN"
	IndexGiST     IndexMethod = "GiST"
)

// Index is a CREATE INDEX.
type Index struct {
	Name    QualifiedName
	Owner   IndexOwner
	Columns []IndexColumn
	Unique  bool
	Method  IndexMethod

	// Where is the partial-index predicate; nil when none.
	Where *Expression

	Concurrent bool
	Comment    string
}

func (i *Index) ObjectName() QualifiedName { return i.Name }

// ColumnNames returns the bare column names participating in the index, in
// order, ignoring prefix length/sort direction.
func (i *Index) ColumnNames() []string {
	names := make([]string, len(i.Columns))
	for idx, c := range i.Columns {
		names[idx] = c.Name
	}
	return names
}
