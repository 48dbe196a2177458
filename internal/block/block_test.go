package block

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEqual_SameKindSamePayload(t *testing.T) {
	cases := []struct {
		a, b Block
	}{
		{Text{Text: "hello"}, Text{Text: "hello"}},
		{Code{Lang: "go", Source: "x := 1"}, Code{Lang: "go", Source: "x := 1"}},
		{Table{Rows: [][]string{{"a", "b"}}}, Table{Rows: [][]string{{"a", "b"}}}},
		{Checkbox{Checked: true, Label: "do"}, Checkbox{Checked: true, Label: "do"}},
		{File{URL: "https://example.com/a.pdf"}, File{URL: "https://example.com/a.pdf"}},
	}
	for _, c := range cases {
		if !c.a.Equal(c.b) {
			t.Errorf("%v should equal %v", c.a, c.b)
		}
	}
}

func TestEqual_DifferentKind(t *testing.T) {
	if (Text{Text: "x"}).Equal(Code{Source: "x"}) {
		t.Error("text should not equal code")
	}
	if (Checkbox{Label: "x"}).Equal(Text{Text: "x"}) {
		t.Error("checkbox should not equal text")
	}
}

func TestEqual_TableRagged(t *testing.T) {
	a := Table{Rows: [][]string{{"a", "b"}, {"c"}}}
	b := Table{Rows: [][]string{{"a", "b"}, {"c"}}}
	if !a.Equal(b) {
		t.Error("ragged tables with same rows should be equal")
	}
	c := Table{Rows: [][]string{{"a", "b"}}}
	if a.Equal(c) {
		t.Error("tables with different row counts should differ")
	}
}

func TestClone_TableIsDeep(t *testing.T) {
	orig := Table{Rows: [][]string{{"a", "b"}}}
	cp := orig.Clone().(Table)
	cp.Rows[0][0] = "mutated"
	if orig.Rows[0][0] != "a" {
		t.Error("clone shares row storage with original")
	}
}

func TestListJSON_RoundTrip(t *testing.T) {
	in := List{
		Text{Text: "hello *world*"},
		Code{Lang: "go", Source: "fmt.Println(1)"},
		Table{Rows: [][]string{{"a", "b"}, {"c", "d"}}},
		Checkbox{Checked: true, Label: "Buy milk"},
		File{URL: "https://example.com/report.pdf"},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out List
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !in.Equal(out) {
		t.Errorf("round trip mismatch:\n in  %#v\n out %#v", in, out)
	}
}

func TestListJSON_WireShape(t *testing.T) {
	data, err := json.Marshal(List{Checkbox{Checked: false, Label: "Call mom"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	// The checked field must be present even when false.
	for _, want := range []string{`"type":"checkbox"`, `"checked":false`, `"label":"Call mom"`} {
		if !strings.Contains(s, want) {
			t.Errorf("encoded %s missing %s", s, want)
		}
	}
}

func TestListJSON_InvalidFileURIDegradesToText(t *testing.T) {
	var out List
	err := json.Unmarshal([]byte(`[{"type":"file","url":"not a uri"}]`), &out)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	txt, ok := out[0].(Text)
	if !ok {
		t.Fatalf("got %T, want Text", out[0])
	}
	if !strings.Contains(txt.Text, "not a uri") {
		t.Errorf("degraded text should describe the bad URI, got %q", txt.Text)
	}
}

func TestListJSON_UnknownTypeDegradesToText(t *testing.T) {
	var out List
	err := json.Unmarshal([]byte(`[{"type":"video","src":"x"},{"type":"text","text":"ok"}]`), &out)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if _, ok := out[0].(Text); !ok {
		t.Errorf("unknown type should decode as Text, got %T", out[0])
	}
	if !out[1].Equal(Text{Text: "ok"}) {
		t.Errorf("following block should decode normally, got %#v", out[1])
	}
}

func TestValidURI(t *testing.T) {
	valid := []string{"https://example.com/report.pdf", "file:///tmp/a.txt", "http://host"}
	for _, u := range valid {
		if !ValidURI(u) {
			t.Errorf("ValidURI(%q) = false, want true", u)
		}
	}
	invalid := []string{"not a uri", "", "just-words"}
	for _, u := range invalid {
		if ValidURI(u) {
			t.Errorf("ValidURI(%q) = true, want false", u)
		}
	}
}
