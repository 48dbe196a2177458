package notebook

import (
	"github.com/starford/ansuz/internal/block"
	"github.com/starford/ansuz/internal/markdown"
)

// Session is an editing buffer over one page. It works on a deep copy, so
// an abandoned session never leaves a half-applied edit behind; the
// original page is only replaced when the caller commits the result.
type Session struct {
	page Page
}

// Edit opens a session on a copy of p.
func Edit(p Page) *Session {
	return &Session{page: p.Clone()}
}

// Page returns a copy of the current buffer state.
func (s *Session) Page() Page {
	return s.page.Clone()
}

// Rename sets the buffered page title.
func (s *Session) Rename(title string) {
	s.page.Rename(title)
}

// InsertBlock inserts into the buffer.
func (s *Session) InsertBlock(i int, b block.Block) {
	s.page.InsertBlock(i, b)
}

// MoveBlock reorders within the buffer.
func (s *Session) MoveBlock(from, to int) {
	s.page.MoveBlock(from, to)
}

// ReplaceBlock replaces within the buffer.
func (s *Session) ReplaceBlock(i int, b block.Block) {
	s.page.ReplaceBlock(i, b)
}

// DeleteBlock deletes from the buffer.
func (s *Session) DeleteBlock(i int) {
	s.page.DeleteBlock(i)
}

// SetBlocks replaces the buffered block list wholesale.
func (s *Session) SetBlocks(blocks block.List) {
	s.page.Blocks = blocks.Clone()
}

// Text renders the buffered blocks to markdown, for the raw-text editing
// surface.
func (s *Session) Text() string {
	return markdown.Render(s.page.Blocks)
}

// SetText replaces the buffered blocks with the parse of text. Switching
// between block mode and text mode round-trips through this pair.
func (s *Session) SetText(text string) {
	s.page.Blocks = markdown.Parse(text)
}

// Commit returns the buffered page, to be written back into the owning
// notebook by the caller.
func (s *Session) Commit() Page {
	return s.page.Clone()
}
