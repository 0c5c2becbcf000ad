// Package render turns a parsed document into protyle style HTML.
//
// Every leaf block carries data-node-id and data-type, list items carry
// data-marker and the output is wrapped in the root NodeDocument element.
// dom.Extract reads this tree back.
package render

import (
	"bytes"
	"fmt"
	"html"
	"slices"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/riverfjs/keyinfo-go/internal/parser"
)

// HTML renders doc.
func HTML(doc *parser.Document) (string, error) {
	md := goldmark.New(slices.Concat(parser.StandardOptions, []goldmark.Option{
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(util.Prioritized(&blockRenderer{}, 100)),
		),
	})...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<div %s="%s" %s="NodeDocument">`,
		parser.AttrNodeID, html.EscapeString(doc.Outline.RootID), parser.AttrType)
	buf.WriteByte('\n')
	if err := md.Renderer().Render(&buf, doc.Source, doc.Root); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	buf.WriteString("</div>\n")
	return buf.String(), nil
}

// blockRenderer wraps tight list paragraphs, which goldmark renders bare,
// so that they keep their block id.
type blockRenderer struct{}

func (r *blockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindTextBlock, r.renderTextBlock)
}

func (r *blockRenderer) renderTextBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	hasID := parser.NodeID(n) != ""
	if entering {
		if hasID {
			_, _ = w.WriteString("<div")
			ghtml.RenderAttributes(w, n, nil)
			_ = w.WriteByte('>')
		}
		return ast.WalkContinue, nil
	}
	if hasID {
		_, _ = w.WriteString("</div>")
	}
	if n.NextSibling() != nil && n.FirstChild() != nil {
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}
