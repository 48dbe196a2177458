package notebook

import (
	"testing"

	"github.com/starford/ansuz/internal/block"
)

func pageWith(titles ...string) Page {
	p := NewPage("test")
	for _, s := range titles {
		p.Blocks = append(p.Blocks, block.Text{Text: s})
	}
	return p
}

func texts(p Page) []string {
	out := make([]string, len(p.Blocks))
	for i, b := range p.Blocks {
		out[i] = b.(block.Text).Text
	}
	return out
}

func assertOrder(t *testing.T, p Page, want ...string) {
	t.Helper()
	got := texts(p)
	if len(got) != len(want) {
		t.Fatalf("blocks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("blocks = %v, want %v", got, want)
		}
	}
}

func TestNewPage_FreshIdentity(t *testing.T) {
	a, b := NewPage("a"), NewPage("b")
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids must be unique and non-empty: %q %q", a.ID, b.ID)
	}
}

func TestInsertBlock(t *testing.T) {
	p := pageWith("a", "c")
	p.InsertBlock(1, block.Text{Text: "b"})
	assertOrder(t, p, "a", "b", "c")

	p.InsertBlock(99, block.Text{Text: "z"})
	assertOrder(t, p, "a", "b", "c", "z")

	p.InsertBlock(-1, block.Text{Text: "nope"})
	assertOrder(t, p, "a", "b", "c", "z")
}

func TestMoveBlock(t *testing.T) {
	p := pageWith("a", "b", "c", "d")
	p.MoveBlock(0, 2)
	assertOrder(t, p, "b", "c", "a", "d")

	p.MoveBlock(3, 0)
	assertOrder(t, p, "d", "b", "c", "a")

	// Out-of-range moves are silent no-ops.
	p.MoveBlock(-1, 2)
	p.MoveBlock(1, 99)
	assertOrder(t, p, "d", "b", "c", "a")
}

func TestReplaceBlock(t *testing.T) {
	p := pageWith("a", "b")
	p.ReplaceBlock(1, block.Checkbox{Label: "x"})
	if _, ok := p.Blocks[1].(block.Checkbox); !ok {
		t.Errorf("block 1 = %T, want Checkbox", p.Blocks[1])
	}
	p.ReplaceBlock(5, block.Text{Text: "nope"})
	if len(p.Blocks) != 2 {
		t.Errorf("out-of-range replace changed length")
	}
}

func TestDeleteBlock(t *testing.T) {
	p := pageWith("a", "b", "c")
	p.DeleteBlock(1)
	assertOrder(t, p, "a", "c")
	p.DeleteBlock(10)
	assertOrder(t, p, "a", "c")
}

func TestDeleteBlocks_Predicate(t *testing.T) {
	p := NewPage("t")
	p.Blocks = block.List{
		block.Text{Text: "keep"},
		block.Checkbox{Checked: true, Label: "drop"},
		block.Text{Text: "keep too"},
	}
	p.DeleteBlocks(func(b block.Block) bool { return b.Kind() == block.KindCheckbox })
	if len(p.Blocks) != 2 {
		t.Fatalf("len = %d, want 2", len(p.Blocks))
	}
}

func TestClone_IsDeep(t *testing.T) {
	p := pageWith("a")
	cp := p.Clone()
	cp.ReplaceBlock(0, block.Text{Text: "mutated"})
	assertOrder(t, p, "a")
}

func TestNotebook_PageReturnsCopy(t *testing.T) {
	nb := New("nb")
	nb.AddPage(pageWith("a"))
	id := nb.Pages[0].ID

	got, ok := nb.Page(id)
	if !ok {
		t.Fatal("page not found")
	}
	got.ReplaceBlock(0, block.Text{Text: "mutated"})
	assertOrder(t, nb.Pages[0], "a")
}

func TestNotebook_ReplacePageByIdentity(t *testing.T) {
	nb := New("nb")
	nb.AddPage(pageWith("old"))
	updated := nb.Pages[0].Clone()
	updated.ReplaceBlock(0, block.Text{Text: "new"})

	nb.ReplacePage(updated)
	assertOrder(t, nb.Pages[0], "new")

	// Absent identity is a no-op.
	stranger := NewPage("stranger")
	nb.ReplacePage(stranger)
	if len(nb.Pages) != 1 {
		t.Errorf("len = %d, want 1", len(nb.Pages))
	}
}

func TestNotebook_DeleteAllPagesKeepsNotebook(t *testing.T) {
	nb := New("nb")
	nb.AddPage(NewPage("one"))
	nb.AddPage(NewPage("two"))
	for _, p := range append([]Page(nil), nb.Pages...) {
		nb.DeletePage(p.ID)
	}
	if len(nb.Pages) != 0 {
		t.Errorf("len = %d, want 0", len(nb.Pages))
	}
	// Deleting from the now-empty notebook is still a no-op.
	nb.DeletePage("missing")
}

func TestSession_AbandonLeavesOriginalIntact(t *testing.T) {
	p := pageWith("a", "b")
	s := Edit(p)
	s.DeleteBlock(0)
	s.InsertBlock(0, block.Text{Text: "z"})
	// Session dropped without commit.
	assertOrder(t, p, "a", "b")
}

func TestSession_CommitProducesEditedPage(t *testing.T) {
	p := pageWith("a", "b")
	s := Edit(p)
	s.MoveBlock(0, 1)
	s.Rename("renamed")

	out := s.Commit()
	if out.ID != p.ID {
		t.Errorf("commit changed identity: %q -> %q", p.ID, out.ID)
	}
	if out.Title != "renamed" {
		t.Errorf("title = %q", out.Title)
	}
	assertOrder(t, out, "b", "a")
}

func TestSession_TextModeRoundTrip(t *testing.T) {
	p := NewPage("t")
	p.Blocks = block.List{
		block.Text{Text: "hello"},
		block.Checkbox{Checked: false, Label: "task"},
	}
	s := Edit(p)

	text := s.Text()
	s.SetText(text + "- [x] added in text mode\n")

	out := s.Commit()
	if len(out.Blocks) != 3 {
		t.Fatalf("len = %d, want 3", len(out.Blocks))
	}
	cb, ok := out.Blocks[2].(block.Checkbox)
	if !ok || !cb.Checked || cb.Label != "added in text mode" {
		t.Errorf("block 2 = %#v", out.Blocks[2])
	}
}
