// Package annotate extracts @renamed rename directives from SQL comments.
// This is the only rename-detection mechanism the system trusts; no
// heuristic (name similarity, column-signature matching) is permitted,
// since implicit rename inference is the classic source of silent data
// loss (spec.md §9).
package annotate

import (
	"fmt"
	"strings"

	"github.com/shuymn/stateql/internal/core"
)

// Annotation records one @renamed directive found inside a SQL comment.
type Annotation struct {
	// Line is the 1-based line number the directive appeared on.
	Line int
	// OldName is the identifier the object used to be known by.
	OldName core.Identifier
	// Deprecated is true when the directive used the legacy "@rename"
	// spelling instead of "@renamed".
	Deprecated bool
}

// Error is a parse-stage failure carrying the offending line number, per
// spec.md §4.1's "Failure" clause.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("annotate: line %d: %s", e.Line, e.Message)
}

// Extract scans raw SQL, strips recognized @renamed/@rename directives
// from their comments (preserving line numbering so downstream error
// locations stay meaningful), and returns both the cleaned SQL and the
// list of annotations found. A directive is only recognized while the
// scanner is inside a SQL comment (-- ... or /* ... */); an "@renamed"
// substring inside a string literal is ignored entirely. A comment that
// contains the "@renamed"/"@rename" marker but fails to parse a valid
// `from=` clause after it is a hard error, not a silent skip.
func Extract(sql string) (cleaned string, annotations []Annotation, err error) {
	var out strings.Builder
	out.Grow(len(sql))

	line := 1
	i := 0
	n := len(sql)

	for i < n {
		c := sql[i]
		switch {
		case c == '\n':
			out.WriteByte(c)
			line++
			i++

		case c == '\'' || c == '"':
			start := i
			i = skipQuoted(sql, i, &line)
			out.WriteString(sql[start:i])

		case c == '-' && i+1 < n && sql[i+1] == '-':
			end := strings.IndexByte(sql[i:], '\n')
			var commentText string
			if end < 0 {
				commentText = sql[i:]
				i = n
			} else {
				commentText = sql[i : i+end]
				i += end
			}
			ann, cleanedComment, perr := extractDirective(commentText, line)
			if perr != nil {
				return "", nil, perr
			}
			if ann != nil {
				annotations = append(annotations, *ann)
			}
			out.WriteString(cleanedComment)

		case c == '/' && i+1 < n && sql[i+1] == '*':
			startLine := line
			closeIdx := strings.Index(sql[i:], "*/")
			var commentText string
			if closeIdx < 0 {
				commentText = sql[i:]
				line += strings.Count(commentText, "\n")
				i = n
			} else {
				commentText = sql[i : i+closeIdx+2]
				line += strings.Count(commentText, "\n")
				i += closeIdx + 2
			}
			ann, cleanedComment, perr := extractDirective(commentText, startLine)
			if perr != nil {
				return "", nil, perr
			}
			if ann != nil {
				annotations = append(annotations, *ann)
			}
			out.WriteString(cleanedComment)

		default:
			out.WriteByte(c)
			i++
		}
	}

	return out.String(), annotations, nil
}

// skipQuoted advances past a quoted string literal starting at sql[from]
// (which must be a quote character), updating *line for any embedded
// newlines, and returns the index just past the closing quote.
func skipQuoted(sql string, from int, line *int) int {
	quote := sql[from]
	i := from + 1
	n := len(sql)
	for i < n {
		switch sql[i] {
		case '\n':
			*line++
			i++
		case quote:
			// SQL escapes a quote by doubling it; a doubled quote stays
			// inside the literal rather than closing it.
			if i+1 < n && sql[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		default:
			i++
		}
	}
	return n
}

// extractDirective looks for an @renamed/@rename directive within comment
// text and, if found, parses its from= clause. It returns the parsed
// Annotation plus the comment text with the directive stripped, or an
// error if the marker is present but the from= clause is malformed.
func extractDirective(commentText string, line int) (*Annotation, string, *Error) {
	idx := strings.Index(commentText, "@renamed")
	deprecated := false
	directiveLen := len("@renamed")
	if idx < 0 {
		if j := strings.Index(commentText, "@rename"); j >= 0 {
			idx = j
			directiveLen = len("@rename")
			deprecated = true
		}
	}
	if idx < 0 {
		return nil, commentText, nil
	}

	rest := commentText[idx+directiveLen:]
	oldName, consumed, ok := parseFromClause(rest)
	if !ok {
		return nil, "", &Error{Line: line, Message: "malformed @renamed directive: expected from=name or from=\"quoted name\""}
	}

	cleaned := commentText[:idx] + rest[consumed:]
	return &Annotation{Line: line, OldName: oldName, Deprecated: deprecated}, cleaned, nil
}

// parseFromClause parses `  from=old_name` or `  from="Quoted Name"` from
// the start of s, returning the identifier, how many bytes were consumed,
// and whether parsing succeeded.
func parseFromClause(s string) (core.Identifier, int, bool) {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	const kw = "from="
	if !strings.HasPrefix(s[i:], kw) {
		return core.Identifier{}, 0, false
	}
	i += len(kw)

	if i < len(s) && s[i] == '"' {
		j := i + 1
		for j < len(s) && s[j] != '"' {
			j++
		}
		if j >= len(s) {
			return core.Identifier{}, 0, false // unterminated quote
		}
		return core.NewQuotedIdentifier(s[i+1 : j]), j + 1, true
	}

	j := i
	for j < len(s) && isIdentByte(s[j]) {
		j++
	}
	if j == i {
		return core.Identifier{}, 0, false
	}
	return core.NewIdentifier(s[i:j]), j, true
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
