package core

// View is a CREATE VIEW. The diff engine never emits AlterView: a changed
// view always produces DropView+CreateView (spec.md §4.2).
type View struct {
	Name       QualifiedName
	Definition Expression // usually ExprRaw holding the SELECT body verbatim
	Comment    string

	// DependsOn lists the views/tables this view's body references, used
	// to compute the view-rebuild transitive closure (§4.2, §4.3).
	DependsOn []QualifiedName
}

func (v *View) ObjectName() QualifiedName { return v.Name }

// MaterializedView is a CREATE MATERIALIZED VIEW.
type MaterializedView struct {
	Name       QualifiedName
	Definition Expression
	Comment    string
	DependsOn  []QualifiedName
	Indexes    []*Index
}

func (m *MaterializedView) ObjectName() QualifiedName { return m.Name }
