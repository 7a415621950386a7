package documents

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// MarkdownToPlainText parses markdown and returns its plain-text content.
// Headings, list items, and table rows become separate lines; inline markup
// is dropped so it does not leak into embeddings.
func MarkdownToPlainText(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	reader := text.NewReader(content)
	doc := markdownParser.Parser().Parse(reader)

	var b strings.Builder

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			ensureNewline(&b)
			return ast.WalkContinue, nil

		case *ast.Text:
			b.Write(node.Segment.Value(content))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte('\n')
			}
			return ast.WalkContinue, nil

		case *ast.String:
			b.Write(node.Value)
			return ast.WalkContinue, nil

		case *ast.CodeBlock:
			ensureNewline(&b)
			writeLines(&b, node, content)
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			ensureNewline(&b)
			writeLines(&b, node, content)
			return ast.WalkSkipChildren, nil

		default:
			// Table rows from the table extension render one line per row.
			kindName := n.Kind().String()
			if kindName == "TableRow" || kindName == "TableHeader" {
				ensureNewline(&b)
				b.WriteString(tableRowText(n, content))
				b.WriteByte('\n')
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		}
	})

	return strings.TrimSpace(b.String())
}

// ensureNewline appends a newline unless the builder is empty or already
// ends with one.
func ensureNewline(b *strings.Builder) {
	s := b.String()
	if len(s) > 0 && !strings.HasSuffix(s, "\n") {
		b.WriteByte('\n')
	}
}

// writeLines copies the raw source lines of a block node.
func writeLines(b *strings.Builder, n ast.Node, content []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(content))
	}
}

// tableRowText extracts cell text from a table row, cells joined with " | ".
func tableRowText(row ast.Node, content []byte) string {
	var cells []string

	_ = ast.Walk(row, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Kind().String() == "TableCell" {
			cells = append(cells, strings.TrimSpace(nodeText(node, content)))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(cells, " | ")
}

// nodeText collects the text content of a node and its children.
func nodeText(n ast.Node, content []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return b.String()
}
