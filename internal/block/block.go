// Package block defines the typed content units that make up a page.
package block

import "slices"

// Kind discriminates the block variants. The set is closed.
type Kind string

// Block kinds.
const (
	KindText     Kind = "text"
	KindCode     Kind = "code"
	KindTable    Kind = "table"
	KindCheckbox Kind = "checkbox"
	KindFile     Kind = "file"
)

// Block is one content unit within a page. Implementations are the five
// variant types in this package; blocks carry no identity of their own,
// position within the page is the identity.
type Block interface {
	Kind() Kind
	// Equal reports whether the other block has the same kind and payload.
	Equal(Block) bool
	// Clone returns a deep copy that shares no mutable state.
	Clone() Block
}

// Text is a line of raw markdown-ish text. Emphasis, links, and headings
// inside it are not parsed structurally.
type Text struct {
	Text string
}

// Kind implements Block.
func (Text) Kind() Kind { return KindText }

// Equal implements Block.
func (t Text) Equal(o Block) bool {
	v, ok := o.(Text)
	return ok && v == t
}

// Clone implements Block.
func (t Text) Clone() Block { return t }

// Code is a fenced code block. Lang is a free-form tag and may be empty.
type Code struct {
	Lang   string
	Source string
}

// Kind implements Block.
func (Code) Kind() Kind { return KindCode }

// Equal implements Block.
func (c Code) Equal(o Block) bool {
	v, ok := o.(Code)
	return ok && v == c
}

// Clone implements Block.
func (c Code) Clone() Block { return c }

// Table is an ordered sequence of rows. Rows may have differing cell
// counts; rectangularity is not enforced.
type Table struct {
	Rows [][]string
}

// Kind implements Block.
func (Table) Kind() Kind { return KindTable }

// Equal implements Block.
func (t Table) Equal(o Block) bool {
	v, ok := o.(Table)
	if !ok || len(v.Rows) != len(t.Rows) {
		return false
	}
	for i := range t.Rows {
		if !slices.Equal(t.Rows[i], v.Rows[i]) {
			return false
		}
	}
	return true
}

// Clone implements Block.
func (t Table) Clone() Block {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = slices.Clone(r)
	}
	return Table{Rows: rows}
}

// Checkbox is a single-line to-do item.
type Checkbox struct {
	Checked bool
	Label   string
}

// Kind implements Block.
func (Checkbox) Kind() Kind { return KindCheckbox }

// Equal implements Block.
func (c Checkbox) Equal(o Block) bool {
	v, ok := o.(Checkbox)
	return ok && v == c
}

// Clone implements Block.
func (c Checkbox) Clone() Block { return c }

// File references an external resource by absolute URI.
type File struct {
	URL string
}

// Kind implements Block.
func (File) Kind() Kind { return KindFile }

// Equal implements Block.
func (f File) Equal(o Block) bool {
	v, ok := o.(File)
	return ok && v == f
}

// Clone implements Block.
func (f File) Clone() Block { return f }
