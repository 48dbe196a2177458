package markdown

import (
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/block"
)

func TestRender_Text(t *testing.T) {
	got := Render(block.List{block.Text{Text: "hello"}})
	if got != "hello\n" {
		t.Errorf("got %q", got)
	}
}

func TestRender_Code(t *testing.T) {
	got := Render(block.List{block.Code{Lang: "go", Source: "fmt.Println(1)"}})
	want := "```go\nfmt.Println(1)\n```\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_Table(t *testing.T) {
	got := Render(block.List{block.Table{Rows: [][]string{{"a", "b"}, {"c", "d"}}}})
	want := "| a | b |\n| c | d |\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_Checkbox(t *testing.T) {
	got := Render(block.List{
		block.Checkbox{Checked: true, Label: "Buy milk"},
		block.Checkbox{Checked: false, Label: "Call mom"},
	})
	want := "- [x] Buy milk\n\n- [ ] Call mom\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_FileUsesLastPathSegment(t *testing.T) {
	got := Render(block.List{block.File{URL: "https://example.com/docs/report.pdf"}})
	want := "[report.pdf](https://example.com/docs/report.pdf)\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_EmptySequence(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		uri, want string
	}{
		{"https://example.com/docs/report.pdf", "report.pdf"},
		{"file:///tmp/notes.txt", "notes.txt"},
		{"https://example.com", "https://example.com"},
		{"https://example.com/", "https://example.com/"},
	}
	for _, c := range cases {
		if got := DisplayName(c.uri); got != c.want {
			t.Errorf("DisplayName(%q) = %q, want %q", c.uri, got, c.want)
		}
	}
}

func TestRoundTrip_CanonicalBlocks(t *testing.T) {
	in := block.List{
		block.Text{Text: "intro paragraph"},
		block.Code{Lang: "go", Source: "a := 1\nb := 2"},
		block.Table{Rows: [][]string{{"h1", "h2"}, {"v1", "v2"}, {"odd"}}},
		block.Checkbox{Checked: true, Label: "done thing"},
		block.Checkbox{Checked: false, Label: "open thing"},
		block.File{URL: "https://example.com/report.pdf"},
		block.Text{Text: "closing remark"},
	}
	got := Parse(Render(in))
	if !got.Equal(in) {
		t.Errorf("round trip mismatch:\n in  %#v\n out %#v", in, got)
	}
}

func TestRoundTrip_CodeWithBlankAndSpecialLines(t *testing.T) {
	in := block.List{block.Code{Lang: "", Source: "line one\n\n| pipe | line |\n- [ ] fake"}}
	got := Parse(Render(in))
	if !got.Equal(in) {
		t.Errorf("round trip mismatch:\n in  %#v\n out %#v", in, got)
	}
}

func TestRoundTrip_ParagraphDegradesToLineBlocks(t *testing.T) {
	// Multi-line plain text is split into one Text block per line; a
	// second pass is then stable.
	first := Parse("line one\nline two\n\nline three")
	second := Parse(Render(first))
	if !second.Equal(first) {
		t.Errorf("second parse diverged:\n first  %#v\n second %#v", first, second)
	}
	if len(first) != 3 {
		t.Errorf("len = %d, want 3 standalone text blocks", len(first))
	}
}

func TestRender_IsTotal(t *testing.T) {
	// Render must not panic on any variant, including zero values.
	_ = Render(block.List{
		block.Text{}, block.Code{}, block.Table{}, block.Checkbox{}, block.File{},
	})
}

func TestRender_BlocksSeparatedByOneBlankLine(t *testing.T) {
	got := Render(block.List{block.Text{Text: "a"}, block.Text{Text: "b"}})
	if got != "a\n\nb\n" {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("unexpected double separation: %q", got)
	}
}
