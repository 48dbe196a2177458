package markdown

import (
	"net/url"
	"path"
	"strings"

	"github.com/starford/ansuz/internal/block"
)

// Render serialises blocks to markdown text. It is pure and total: any
// block sequence renders without error. Every block emits its own lines
// followed by one blank separator line; no other separation is added.
func Render(blocks block.List) string {
	var lines []string
	for _, b := range blocks {
		switch v := b.(type) {
		case block.Text:
			lines = append(lines, v.Text, "")
		case block.Code:
			lines = append(lines, fence+v.Lang)
			if v.Source != "" {
				lines = append(lines, strings.Split(v.Source, "\n")...)
			}
			lines = append(lines, fence, "")
		case block.Table:
			for _, row := range v.Rows {
				lines = append(lines, "| "+strings.Join(row, " | ")+" |")
			}
			lines = append(lines, "")
		case block.Checkbox:
			mark := "- [ ] "
			if v.Checked {
				mark = "- [x] "
			}
			lines = append(lines, mark+v.Label, "")
		case block.File:
			lines = append(lines, "["+DisplayName(v.URL)+"]("+v.URL+")", "")
		}
	}
	return strings.Join(lines, "\n")
}

// DisplayName returns the last path segment of an URI, used as the link
// label when rendering a File block. An URI without a usable path falls
// back to the full string.
func DisplayName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	if seg := path.Base(u.Path); seg != "." && seg != "/" && seg != "" {
		return seg
	}
	return uri
}
