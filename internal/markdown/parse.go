// Package markdown converts between block sequences and their flat
// markdown text representation. Parse and Render form a pair: rendering
// a canonical block sequence and parsing the result reconstructs an
// equivalent sequence, though arbitrary input text is normalised rather
// than preserved byte-for-byte.
package markdown

import (
	"strings"

	"github.com/starford/ansuz/internal/block"
)

const fence = "```"

// Parse segments text into typed blocks with a single forward scan over
// lines. Recognition is greedy and first-match-wins per line: code fence,
// table row, checkbox, file link, blank, then plain text. Malformed input
// never fails; each case degrades locally as described on the helpers.
func Parse(text string) block.List {
	// CRLF input is treated as LF input.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var out block.List
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		switch {
		case strings.HasPrefix(line, fence):
			b, next := parseCode(lines, i)
			out = append(out, b)
			i = next

		case strings.HasPrefix(strings.TrimSpace(line), "|"):
			b, next := parseTable(lines, i)
			out = append(out, b)
			i = next

		case strings.HasPrefix(line, "- ["):
			if b, ok := parseCheckbox(line); ok {
				out = append(out, b)
			}

		case strings.HasPrefix(line, "[") && strings.Contains(line, "]("):
			out = append(out, parseFileLink(line))

		case strings.TrimSpace(line) == "":
			// Blank lines separate blocks and carry no structure.

		default:
			out = append(out, block.Text{Text: line})
		}
	}
	return out
}

// parseCode consumes a fenced code block starting at lines[i]. The rest of
// the opening line is the language tag. Lines are consumed verbatim until
// a closing fence or end of input; an unterminated fence swallows the rest
// of the input without error. Returns the block and the index of the last
// consumed line.
func parseCode(lines []string, i int) (block.Block, int) {
	lang := strings.TrimPrefix(lines[i], fence)

	var src []string
	j := i + 1
	for ; j < len(lines); j++ {
		if strings.HasPrefix(lines[j], fence) {
			break
		}
		src = append(src, lines[j])
	}
	return block.Code{Lang: lang, Source: strings.Join(src, "\n")}, j
}

// parseTable consumes the contiguous run of pipe-prefixed lines starting
// at lines[i]. Rows are split on "|" with cells trimmed and empty cells
// dropped, so "| a | b |" and "|a||b|" both yield ["a","b"]. A markdown
// separator row parses as an ordinary row of dash cells.
func parseTable(lines []string, i int) (block.Block, int) {
	var rows [][]string
	j := i
	for ; j < len(lines); j++ {
		if !strings.HasPrefix(strings.TrimSpace(lines[j]), "|") {
			break
		}
		var cells []string
		for _, c := range strings.Split(lines[j], "|") {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		rows = append(rows, cells)
	}
	return block.Table{Rows: rows}, j - 1
}

// parseCheckbox parses a single-line checkbox item. The item is checked
// iff the line contains the literal "[x]". The label is everything after
// the first "]", trimmed. A line with no "]" produces no block at all.
func parseCheckbox(line string) (block.Block, bool) {
	idx := strings.Index(line, "]")
	if idx < 0 {
		return nil, false
	}
	checked := strings.Contains(line, "[x]")
	label := strings.TrimSpace(line[idx+1:])
	return block.Checkbox{Checked: checked, Label: label}, true
}

// parseFileLink parses a "[label](uri)" line into a File block. The label
// sits between the first "[" and the first "]", the URI between the first
// "(" and the last ")". Inconsistent ordering falls back to a Text block
// with the raw line; an invalid URI falls back to a Text block with the
// label only. An empty label would degrade to an empty Text block that a
// later render-parse cycle silently drops, so that case also keeps the
// raw line.
func parseFileLink(line string) block.Block {
	closeBracket := strings.Index(line, "]")
	openParen := strings.Index(line, "(")
	closeParen := strings.LastIndex(line, ")")

	if closeBracket < 0 || openParen < 0 || closeParen < 0 ||
		closeBracket > openParen || openParen > closeParen {
		return block.Text{Text: line}
	}

	label := line[1:closeBracket]
	uri := line[openParen+1 : closeParen]
	if !block.ValidURI(uri) {
		if label == "" {
			return block.Text{Text: line}
		}
		return block.Text{Text: label}
	}
	return block.File{URL: uri}
}
