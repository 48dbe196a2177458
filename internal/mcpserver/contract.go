package mcpserver

// BlockFormatContract describes the canonical markdown block format that
// LLM consumers should follow when creating or updating pages.
const BlockFormatContract = `# Ansuz Block Format Contract

Page content in Ansuz is a sequence of typed blocks. Markdown sent to
create_page or update_page is parsed line by line into blocks, and pages
are rendered back to the same markdown. Follow this structure so the
round trip is lossless.

## Block types

- **Text**: a single line of plain text. Every non-empty line that is
  not one of the forms below becomes its own text block.
- **Code**: a fenced block opened by ` + "```` ``` ````" + ` followed by an
  optional language tag, closed by a bare ` + "```` ``` ````" + ` line. Everything
  between the fences, including blank and special-looking lines, is code.
- **Table**: consecutive lines of pipe-separated cells, for example
  ` + "`" + `| a | b |` + "`" + `.
- **Checkbox**: ` + "`" + `- [ ] label` + "`" + ` or ` + "`" + `- [x] label` + "`" + `.
- **File link**: a whole line of the form ` + "`" + `[name](url)` + "`" + `.

## Rules

1. **One block per line** except fenced code, which runs until the
   closing fence.
2. **Tables** are pipe-separated cells. Empty cells are dropped; rows may
   have different lengths. Separator rows like ` + "`" + `|---|---|` + "`" + ` are not
   special and will be kept as data.
3. **Checkboxes** must start with ` + "`" + `- [ ]` + "`" + ` or ` + "`" + `- [x]` + "`" + `. The rest of the
   line is the label.
4. **File links** are a whole line of the form ` + "`" + `[name](url)` + "`" + `. The url
   must be an absolute http(s) URL; anything else degrades to plain text.
5. **Blank lines** separate blocks and carry no content.
6. **Encoding** is UTF-8 with a trailing newline.

## Assets & Files

- Upload assets via the ` + "`" + `upload_asset` + "`" + ` tool. It returns a ` + "`" + `fileLink` + "`" + `
  field carrying an absolute URL, ready to paste into page content as its
  own line (it satisfies rule 4 as returned; never strip it down to a
  bare path).
- Assets are stored in the shared ` + "`" + `attachments/` + "`" + ` directory (flat, no
  sub-folders).
- Supported formats: png, jpg, jpeg, gif, webp, svg, pdf.

## Example

` + "```" + `markdown
Standup notes for the week.

- [x] review open pull requests
- [ ] update the deployment checklist

| service | owner | status |
| api     | dana  | green  |

[deployment runbook](https://files.example.com/attachments/runbook.pdf)
` + "```" + `
`
