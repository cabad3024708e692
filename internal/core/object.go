package core

// ObjectKind enumerates the closed family of schema objects the diff
// engine must handle exhaustively. Adding a new kind means adding a new
// constant here, a new struct implementing SchemaObject, and a new arm in
// every exhaustive switch in internal/diff -- the switches are the safety
// net that stops a new kind from silently bypassing comparison and
// becoming an unintended DROP.
type ObjectKind string

const (
	KindTable            ObjectKind = "table"
	KindView             ObjectKind = "view"
	KindMaterializedView ObjectKind = "materialized_view"
	KindIndex            ObjectKind = "index"
	KindSequence         ObjectKind = "sequence"
	KindTrigger          ObjectKind = "trigger"
	KindFunction         ObjectKind = "function"
	KindType             ObjectKind = "type"
	KindDomain           ObjectKind = "domain"
	KindExtension        ObjectKind = "extension"
	KindSchema           ObjectKind = "schema"
	KindComment          ObjectKind = "comment"
	KindPrivilege        ObjectKind = "privilege"
	KindPolicy           ObjectKind = "policy"
)

// AllObjectKinds lists every member of the closed family, in the order new
// kinds were added. Tests iterate this slice to assert that every pipeline
// stage's switch has a matching arm.
func AllObjectKinds() []ObjectKind {
	return []ObjectKind{
		KindTable, KindView, KindMaterializedView, KindIndex, KindSequence,
		KindTrigger, KindFunction, KindType, KindDomain, KindExtension,
		KindSchema, KindComment, KindPrivilege, KindPolicy,
	}
}

// SchemaObject is implemented by every member of the closed schema-object
// family. The unexported marker method seals the interface: only this
// package can produce new implementations, so a reviewer auditing
// internal/diff's type switches can trust that the 14 kinds above are the
// complete set.
type SchemaObject interface {
	Kind() ObjectKind
	// ObjectName returns the qualified name used for matching (§4.2). For
	// kinds without an intrinsic qualified name (Privilege, Comment) this
	// returns a synthetic identity used only for diagnostics.
	ObjectName() QualifiedName
	schemaObjectMarker()
}

func (*Table) Kind() ObjectKind             { return KindTable }
func (*View) Kind() ObjectKind              { return KindView }
func (*MaterializedView) Kind() ObjectKind  { return KindMaterializedView }
func (*Index) Kind() ObjectKind             { return KindIndex }
func (*Sequence) Kind() ObjectKind          { return KindSequence }
func (*Trigger) Kind() ObjectKind           { return KindTrigger }
func (*Function) Kind() ObjectKind          { return KindFunction }
func (*Type) Kind() ObjectKind              { return KindType }
func (*Domain) Kind() ObjectKind            { return KindDomain }
func (*Extension) Kind() ObjectKind         { return KindExtension }
func (*Schema) Kind() ObjectKind            { return KindSchema }
func (*Comment) Kind() ObjectKind           { return KindComment }
func (*Privilege) Kind() ObjectKind         { return KindPrivilege }
func (*Policy) Kind() ObjectKind            { return KindPolicy }

func (*Table) schemaObjectMarker()             {}
func (*View) schemaObjectMarker()              {}
func (*MaterializedView) schemaObjectMarker()  {}
func (*Index) schemaObjectMarker()             {}
func (*Sequence) schemaObjectMarker()          {}
func (*Trigger) schemaObjectMarker()           {}
func (*Function) schemaObjectMarker()          {}
func (*Type) schemaObjectMarker()              {}
func (*Domain) schemaObjectMarker()            {}
func (*Extension) schemaObjectMarker()         {}
func (*Schema) schemaObjectMarker()            {}
func (*Comment) schemaObjectMarker()           {}
func (*Privilege) schemaObjectMarker()         {}
func (*Policy) schemaObjectMarker()            {}

// ObjectSet is an unordered collection of parsed/normalized schema objects,
// the shape the diff engine accepts for both "desired" and "current".
type ObjectSet struct {
	Objects []SchemaObject
}

// ByKind groups the set's members by ObjectKind for callers that process
// one kind at a time (e.g. the sequence-duplication invariant check).
func (s *ObjectSet) ByKind(kind ObjectKind) []SchemaObject {
	var out []SchemaObject
	for _, o := range s.Objects {
		if o.Kind() == kind {
			out = append(out, o)
		}
	}
	return out
}

// Tables returns the set's Table objects, already type-asserted.
func (s *ObjectSet) Tables() []*Table {
	var out []*Table
	for _, o := range s.Objects {
		if t, ok := o.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}

// Views returns the set's View objects.
func (s *ObjectSet) Views() []*View {
	var out []*View
	for _, o := range s.Objects {
		if v, ok := o.(*View); ok {
			out = append(out, v)
		}
	}
	return out
}

// Indexes returns the set's Index objects.
func (s *ObjectSet) Indexes() []*Index {
	var out []*Index
	for _, o := range s.Objects {
		if i, ok := o.(*Index); ok {
			out = append(out, i)
		}
	}
	return out
}
