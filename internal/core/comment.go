package core

// CommentTargetKind identifies what kind of object a Comment is attached
// to (COMMENT ON TABLE, COMMENT ON COLUMN, ...).
type CommentTargetKind string

const (
	CommentOnTable  CommentTargetKind = "table"
	CommentOnColumn CommentTargetKind = "column"
	CommentOnIndex  CommentTargetKind = "index"
	CommentOnView   CommentTargetKind = "view"
)

// Comment is a standalone COMMENT ON statement, used by dialects that
// model comments as side-channel metadata statements rather than inline
// clauses (e.g. PostgreSQL). Dialects that render comments inline (MySQL)
// instead set Table.Comment/Column.Comment directly and never produce
// this object kind.
type Comment struct {
	Target     CommentTargetKind
	TargetName QualifiedName
	ColumnName string // only meaningful when Target == CommentOnColumn
	Text       string
}

// ObjectName returns a synthetic identity: comments have no name of their
// own, only a target, so matching keys off the target (and column, when
// present) instead.
func (c *Comment) ObjectName() QualifiedName {
	if c.Target == CommentOnColumn {
		return QualifiedName{Schema: c.TargetName.Schema, Name: NewIdentifier(c.TargetName.Name.Name + "." + c.ColumnName)}
	}
	return c.TargetName
}
