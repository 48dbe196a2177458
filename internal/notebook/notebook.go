// Package notebook defines the document aggregates: a Page is an ordered
// sequence of blocks with a title, a Notebook is an ordered sequence of
// pages. Mutation on an absent index or identity is a silent no-op; the
// editing surface treats absence as an expected case, not an error.
package notebook

import (
	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/block"
)

// Page is one document: an identity, a mutable title, and an ordered
// block sequence. The identity is assigned at creation and never changes.
type Page struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Blocks block.List `json:"blocks"`
}

// NewPage creates an empty page with a fresh identity.
func NewPage(title string) Page {
	return Page{ID: uuid.NewString(), Title: title, Blocks: block.List{}}
}

// Clone returns a deep copy sharing no mutable state with the original.
func (p Page) Clone() Page {
	cp := p
	cp.Blocks = p.Blocks.Clone()
	return cp
}

// Rename sets the page title.
func (p *Page) Rename(title string) {
	p.Title = title
}

// InsertBlock inserts b at index i, shifting later blocks right. An index
// past the end appends; a negative index is a no-op.
func (p *Page) InsertBlock(i int, b block.Block) {
	if i < 0 {
		return
	}
	if i > len(p.Blocks) {
		i = len(p.Blocks)
	}
	p.Blocks = append(p.Blocks, nil)
	copy(p.Blocks[i+1:], p.Blocks[i:])
	p.Blocks[i] = b
}

// MoveBlock moves the block at from to position to, keeping the relative
// order of all other blocks. Out-of-range indices are a no-op.
func (p *Page) MoveBlock(from, to int) {
	if from < 0 || from >= len(p.Blocks) || to < 0 || to >= len(p.Blocks) || from == to {
		return
	}
	b := p.Blocks[from]
	if from < to {
		copy(p.Blocks[from:], p.Blocks[from+1:to+1])
	} else {
		copy(p.Blocks[to+1:], p.Blocks[to:from])
	}
	p.Blocks[to] = b
}

// ReplaceBlock replaces the block at index i. Out of range is a no-op.
func (p *Page) ReplaceBlock(i int, b block.Block) {
	if i < 0 || i >= len(p.Blocks) {
		return
	}
	p.Blocks[i] = b
}

// DeleteBlock removes the block at index i. Out of range is a no-op.
func (p *Page) DeleteBlock(i int) {
	if i < 0 || i >= len(p.Blocks) {
		return
	}
	p.Blocks = append(p.Blocks[:i], p.Blocks[i+1:]...)
}

// DeleteBlocks removes every block for which drop returns true.
func (p *Page) DeleteBlocks(drop func(block.Block) bool) {
	kept := p.Blocks[:0]
	for _, b := range p.Blocks {
		if !drop(b) {
			kept = append(kept, b)
		}
	}
	p.Blocks = kept
}

// Notebook is an ordered collection of pages with its own identity and
// title. Page order is meaningful and preserved.
type Notebook struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Pages []Page `json:"pages"`
}

// New creates an empty notebook with a fresh identity.
func New(title string) Notebook {
	return Notebook{ID: uuid.NewString(), Title: title, Pages: []Page{}}
}

// Clone returns a deep copy of the notebook and all its pages.
func (n Notebook) Clone() Notebook {
	cp := n
	cp.Pages = make([]Page, len(n.Pages))
	for i, p := range n.Pages {
		cp.Pages[i] = p.Clone()
	}
	return cp
}

// Rename sets the notebook title.
func (n *Notebook) Rename(title string) {
	n.Title = title
}

// Page returns a deep copy of the page with the given id.
func (n Notebook) Page(id string) (Page, bool) {
	for _, p := range n.Pages {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return Page{}, false
}

// AddPage appends a page.
func (n *Notebook) AddPage(p Page) {
	n.Pages = append(n.Pages, p)
}

// InsertPage inserts a page at index i; an index past the end appends and
// a negative index is a no-op, mirroring block insertion.
func (n *Notebook) InsertPage(i int, p Page) {
	if i < 0 {
		return
	}
	if i > len(n.Pages) {
		i = len(n.Pages)
	}
	n.Pages = append(n.Pages, Page{})
	copy(n.Pages[i+1:], n.Pages[i:])
	n.Pages[i] = p
}

// ReplacePage replaces the page whose identity matches p.ID wholesale.
// No-op when the identity is absent.
func (n *Notebook) ReplacePage(p Page) {
	for i := range n.Pages {
		if n.Pages[i].ID == p.ID {
			n.Pages[i] = p
			return
		}
	}
}

// DeletePage removes the page with the given id. Absent id is a no-op;
// removing the last page leaves the notebook present and empty.
func (n *Notebook) DeletePage(id string) {
	for i := range n.Pages {
		if n.Pages[i].ID == id {
			n.Pages = append(n.Pages[:i], n.Pages[i+1:]...)
			return
		}
	}
}
