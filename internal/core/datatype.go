package core

// DataTypeKind enumerates the closed set of canonical data types. A
// dialect normalizer is the sole authority responsible for mapping its own
// raw type syntax onto one of these; the diff engine only ever compares
// already-canonical DataType values.
type DataTypeKind string

const (
	TypeBoolean   DataTypeKind = "boolean"
	TypeInteger   DataTypeKind = "integer" // family: tinyint/smallint/int/bigint distinguished by Width
	TypeDecimal   DataTypeKind = "decimal" // optional Precision/Scale
	TypeText      DataTypeKind = "text"    // text/varchar/char distinguished by Length/FixedLength
	TypeBlob      DataTypeKind = "blob"
	TypeDate      DataTypeKind = "date"
	TypeTime      DataTypeKind = "time"      // optional WithTZ
	TypeTimestamp DataTypeKind = "timestamp" // optional WithTZ
	TypeJSON      DataTypeKind = "json"
	TypeJSONB     DataTypeKind = "jsonb"
	TypeUUID      DataTypeKind = "uuid"
	TypeArray     DataTypeKind = "array" // wraps Elem
	TypeCustom    DataTypeKind = "custom"
)

// IntegerWidth distinguishes members of the integer family.
type IntegerWidth string

const (
	IntTiny   IntegerWidth = "tiny"
	IntSmall  IntegerWidth = "small"
	IntMedium IntegerWidth = "medium"
	IntNormal IntegerWidth = "normal"
	IntBig    IntegerWidth = "big"
)

// DataType is the canonical representation of a column's SQL type. Only
// the fields relevant to Kind are meaningful; comparison (Equal) only
// inspects them for that Kind so that, e.g., two TypeText values with
// differing unused Precision fields still compare equal.
type DataType struct {
	Kind DataTypeKind

	// TypeInteger
	IntWidth IntegerWidth
	Unsigned bool

	// TypeDecimal
	Precision int
	Scale     int
	HasScale  bool

	// TypeText / TypeBlob
	Length      int
	HasLength   bool
	FixedLength bool // CHAR vs VARCHAR

	// TypeTime / TypeTimestamp
	WithTZ bool

	// TypeArray
	Elem *DataType

	// TypeCustom
	Custom string
}

// Equal reports whether two canonical data types are identical. Custom
// types compare by their raw text (case-sensitive: the normalizer is
// responsible for canonicalizing case before this point).
func (d DataType) Equal(o DataType) bool {
	if d.Kind != o.Kind {
		return false
	}
	switch d.Kind {
	case TypeInteger:
		return d.IntWidth == o.IntWidth && d.Unsigned == o.Unsigned
	case TypeDecimal:
		return d.Precision == o.Precision && d.Scale == o.Scale && d.HasScale == o.HasScale
	case TypeText, TypeBlob:
		return d.Length == o.Length && d.HasLength == o.HasLength && d.FixedLength == o.FixedLength
	case TypeTime, TypeTimestamp:
		return d.WithTZ == o.WithTZ
	case TypeArray:
		if d.Elem == nil || o.Elem == nil {
			return d.Elem == o.Elem
		}
		return d.Elem.Equal(*o.Elem)
	case TypeCustom:
		return d.Custom == o.Custom
	default:
		return true
	}
}

// NewCustomType wraps a dialect-specific type string that has no portable
// representation (e.g. PostgreSQL's "tsvector").
func NewCustomType(raw string) DataType {
	return DataType{Kind: TypeCustom, Custom: raw}
}
