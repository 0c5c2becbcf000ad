// Package dom extracts formatting spans from a rendered document tree.
package dom

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/riverfjs/keyinfo-go/internal/types"
)

const (
	attrNodeID = "data-node-id"
	attrType   = "data-type"
	attrMarker = "data-marker"
)

// inlineTags 没有 data-type 时按标签名识别的行内元素
var inlineTags = map[string]bool{
	"strong": true,
	"b":      true,
	"em":     true,
	"i":      true,
	"mark":   true,
	"sup":    true,
	"sub":    true,
}

var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// Extract 扫描渲染后的 HTML，按文档顺序返回片段
//
// 块是带 data-node-id 的元素。片段归属最近的祖先块，Offset 为片段
// 之前块内文本的 rune 数。外层元素先于其内层元素输出。
func Extract(r io.Reader) ([]types.Span, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}

	x := &extractor{offsets: make(map[*html.Node]int)}
	// 外层块先索引，内层块覆盖其子树的偏移
	doc.Find("[" + attrNodeID + "]").Each(func(_ int, b *goquery.Selection) {
		x.index(b.Nodes[0])
	})
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		x.visit(s)
	})
	return x.spans, nil
}

// ExtractString is Extract over an HTML string.
func ExtractString(s string) ([]types.Span, error) {
	return Extract(strings.NewReader(s))
}

type extractor struct {
	offsets map[*html.Node]int
	spans   []types.Span
}

// index 记录块内每个元素之前的文本长度
func (x *extractor) index(block *html.Node) {
	count := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			count += utf8.RuneCountInString(n.Data)
			return
		case html.ElementNode:
			x.offsets[n] = count
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := block.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
}

func (x *extractor) visit(s *goquery.Selection) {
	if _, ok := s.Attr(attrNodeID); ok {
		if isHeading(s) {
			x.emit(s, s, "heading")
		}
		return
	}
	tag := inlineTag(s)
	if tag == "" || s.Closest("pre").Length() > 0 {
		return
	}
	x.emit(s, s.Closest("["+attrNodeID+"]"), tag)
}

// emit 输出一个片段。行内代码计入偏移，但不进入文本与 Raw：
// 标题去掉其中的 <code>，含 <code> 的行内片段整个丢弃。
func (x *extractor) emit(s, block *goquery.Selection, tag string) {
	text, hasCode := visibleText(s.Nodes[0])
	raw := s
	if hasCode {
		if !isHeading(s) {
			return
		}
		raw = s.Clone()
		raw.Find("code").Remove()
	}
	sp := types.Span{
		Tag:  tag,
		Text: text,
	}
	if outer, err := goquery.OuterHtml(raw); err == nil {
		sp.Raw = outer
	}
	if block.Length() > 0 {
		sp.BlockID = block.AttrOr(attrNodeID, "")
		sp.ListPrefix = listPrefix(block)
		if s.Nodes[0] != block.Nodes[0] {
			sp.Offset = x.offsets[s.Nodes[0]]
		}
	}
	x.spans = append(x.spans, sp)
}

// visibleText 返回 n 的文本内容，跳过 <code> 子树，并报告是否遇到过 <code>
func visibleText(n *html.Node) (string, bool) {
	var sb strings.Builder
	hasCode := false
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.Data == "code" {
				hasCode = true
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String(), hasCode
}

// inlineTag 返回元素的格式标签：非块 data-type 优先，其次是语义标签名
func inlineTag(s *goquery.Selection) string {
	if dt := strings.TrimSpace(s.AttrOr(attrType, "")); dt != "" && !strings.HasPrefix(dt, "Node") {
		return dt
	}
	if name := goquery.NodeName(s); inlineTags[name] {
		return name
	}
	return ""
}

func isHeading(s *goquery.Selection) bool {
	return headingTags[goquery.NodeName(s)] || s.AttrOr(attrType, "") == "NodeHeading"
}

// listPrefix 块是列表项的第一个子块时返回列表标记
func listPrefix(block *goquery.Selection) string {
	item := block.Parent()
	if goquery.NodeName(item) != "li" && item.AttrOr(attrType, "") != "NodeListItem" {
		return ""
	}
	first := item.ChildrenFiltered("[" + attrNodeID + "]").First()
	if first.Length() == 0 || first.Nodes[0] != block.Nodes[0] {
		return ""
	}
	if marker := strings.TrimSpace(item.AttrOr(attrMarker, "")); marker != "" {
		return marker + " "
	}
	list := item.Parent()
	if goquery.NodeName(list) != "ol" {
		return "- "
	}
	start, err := strconv.Atoi(list.AttrOr("start", "1"))
	if err != nil {
		start = 1
	}
	return strconv.Itoa(start+item.PrevAllFiltered("li").Length()) + ". "
}

// Order 按文档顺序为带 data-node-id 的元素编号，从 0 开始
//
// 没有外部块排序索引时，用渲染树本身的顺序代替。
func Order(r io.Reader) (types.BlockOrder, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}
	order := make(types.BlockOrder)
	doc.Find("[" + attrNodeID + "]").Each(func(_ int, s *goquery.Selection) {
		id := s.AttrOr(attrNodeID, "")
		if _, ok := order[id]; !ok && id != "" {
			order[id] = len(order)
		}
	})
	return order, nil
}
