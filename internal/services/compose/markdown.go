package compose

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var excessBlankLines = regexp.MustCompile(`\n{3,}`)

// PlainText converts the Markdown commonly returned by merge models into
// plain text lines. Headings and paragraphs become their text, list items keep
// a "- " or "1. " marker, emphasis and links keep only their label, and
// top-level blocks are separated by one blank line. Line breaks inside a
// paragraph are preserved.
func PlainText(markdown string) string {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var b strings.Builder
	ensureNewline := func() {
		if s := b.String(); len(s) > 0 && !strings.HasSuffix(s, "\n") {
			b.WriteByte('\n')
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				value := node.Segment.Value(src)
				if _, inCode := node.Parent().(*ast.CodeSpan); !inCode && !node.IsRaw() {
					value = unescape(value)
				}
				b.Write(value)
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				b.Write(node.Label(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(src))
				}
			}
		case *ast.ListItem:
			if entering {
				b.WriteString(listMarker(node))
			}
		}

		if !entering && n.Type() == ast.TypeBlock {
			ensureNewline()
			if n.Parent() != nil && n.Parent().Kind() == ast.KindDocument {
				b.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})

	out := excessBlankLines.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}

// unescape resolves backslash escapes and character references the way an
// HTML renderer would.
func unescape(value []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(value)))
}

func listMarker(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok || !list.IsOrdered() {
		return "- "
	}
	index := 0
	for sib := item.PreviousSibling(); sib != nil; sib = sib.PreviousSibling() {
		index++
	}
	return fmt.Sprintf("%d. ", list.Start+index)
}
