package block

import (
	"encoding/json"
	"fmt"

	"github.com/asaskevich/govalidator"
)

// List is an ordered block sequence with a tagged-union JSON encoding.
// Each element is a record carrying an explicit "type" discriminant:
//
//	{"type":"text",     "text":"..."}
//	{"type":"code",     "lang":"go", "code":"..."}
//	{"type":"table",    "rows":[["a","b"]]}
//	{"type":"checkbox", "checked":true, "label":"..."}
//	{"type":"file",     "url":"https://..."}
type List []Block

type textRecord struct {
	Type Kind   `json:"type"`
	Text string `json:"text"`
}

type codeRecord struct {
	Type Kind   `json:"type"`
	Lang string `json:"lang"`
	Code string `json:"code"`
}

type tableRecord struct {
	Type Kind       `json:"type"`
	Rows [][]string `json:"rows"`
}

type checkboxRecord struct {
	Type    Kind   `json:"type"`
	Checked bool   `json:"checked"`
	Label   string `json:"label"`
}

type fileRecord struct {
	Type Kind   `json:"type"`
	URL  string `json:"url"`
}

// MarshalJSON implements json.Marshaler.
func (l List) MarshalJSON() ([]byte, error) {
	out := make([]any, len(l))
	for i, b := range l {
		switch v := b.(type) {
		case Text:
			out[i] = textRecord{Type: KindText, Text: v.Text}
		case Code:
			out[i] = codeRecord{Type: KindCode, Lang: v.Lang, Code: v.Source}
		case Table:
			out[i] = tableRecord{Type: KindTable, Rows: v.Rows}
		case Checkbox:
			out[i] = checkboxRecord{Type: KindCheckbox, Checked: v.Checked, Label: v.Label}
		case File:
			out[i] = fileRecord{Type: KindFile, URL: v.URL}
		default:
			return nil, fmt.Errorf("block: cannot encode kind %q", b.Kind())
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. Decoding is lenient: a file
// record with an invalid URI and a record with an unknown type tag both
// degrade to a Text block describing the problem, so one bad record never
// aborts loading the surrounding document.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("block: decode list: %w", err)
	}
	out := make(List, 0, len(raw))
	for _, r := range raw {
		b, err := decodeRecord(r)
		if err != nil {
			return err
		}
		out = append(out, b)
	}
	*l = out
	return nil
}

func decodeRecord(raw json.RawMessage) (Block, error) {
	var tag struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("block: decode type tag: %w", err)
	}

	switch tag.Type {
	case KindText:
		var rec textRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("block: decode text: %w", err)
		}
		return Text{Text: rec.Text}, nil
	case KindCode:
		var rec codeRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("block: decode code: %w", err)
		}
		return Code{Lang: rec.Lang, Source: rec.Code}, nil
	case KindTable:
		var rec tableRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("block: decode table: %w", err)
		}
		return Table{Rows: rec.Rows}, nil
	case KindCheckbox:
		var rec checkboxRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("block: decode checkbox: %w", err)
		}
		return Checkbox{Checked: rec.Checked, Label: rec.Label}, nil
	case KindFile:
		var rec fileRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("block: decode file: %w", err)
		}
		if !ValidURI(rec.URL) {
			return Text{Text: fmt.Sprintf("invalid file reference: %q", rec.URL)}, nil
		}
		return File{URL: rec.URL}, nil
	default:
		return Text{Text: fmt.Sprintf("unknown block type: %q", tag.Type)}, nil
	}
}

// ValidURI reports whether s is a syntactically valid absolute URI,
// suitable as a File block target.
func ValidURI(s string) bool {
	return govalidator.IsRequestURL(s)
}

// Clone returns a deep copy of the list.
func (l List) Clone() List {
	out := make(List, len(l))
	for i, b := range l {
		out[i] = b.Clone()
	}
	return out
}

// Equal reports whether both lists have the same blocks in the same order.
func (l List) Equal(o List) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if !l[i].Equal(o[i]) {
			return false
		}
	}
	return true
}
