package parser

import (
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/riverfjs/keyinfo-go/internal/types"
)

// AST attributes written by the outline.
const (
	AttrNodeID = "data-node-id"
	AttrType   = "data-type"
	AttrMarker = "data-marker"
)

// Block 大纲中的一个叶子块
type Block struct {
	ID   string
	Type string // protyle 节点类型，如 NodeParagraph
	Line int    // 首行行号（0 起）
}

// Outline 块大纲
type Outline struct {
	RootID string
	Blocks []Block
	// Order 块 ID → 文档顺序，根块为 0
	Order types.BlockOrder
	// Lines 按行号索引；不属于任何块的行为零值
	Lines []types.LineRef
}

// nodeTypes 可承载行内内容的叶子块
var nodeTypes = map[ast.NodeKind]string{
	ast.KindHeading:         "NodeHeading",
	ast.KindParagraph:       "NodeParagraph",
	ast.KindTextBlock:       "NodeParagraph",
	ast.KindFencedCodeBlock: "NodeCodeBlock",
	ast.KindCodeBlock:       "NodeCodeBlock",
	ast.KindHTMLBlock:       "NodeHTMLBlock",
	east.KindTableCell:      "NodeTableCell",
	east.KindDefinitionTerm: "NodeDefinitionTerm",
}

type outlineBuilder struct {
	source     []byte
	lineStarts []int
	used       map[string]bool
	outline    *Outline
}

func buildOutline(source []byte, root ast.Node, rootID string) *Outline {
	b := &outlineBuilder{
		source:     source,
		lineStarts: lineStarts(source),
		used:       map[string]bool{rootID: true},
		outline: &Outline{
			RootID: rootID,
			Order:  types.BlockOrder{rootID: 0},
		},
	}
	b.outline.Lines = make([]types.LineRef, len(b.lineStarts))
	root.SetAttributeString(AttrNodeID, []byte(rootID))
	root.SetAttributeString(AttrType, []byte("NodeDocument"))

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if item, ok := n.(*ast.ListItem); ok {
			item.SetAttributeString(AttrType, []byte("NodeListItem"))
			item.SetAttributeString(AttrMarker, []byte(ListPrefix(item)))
			return ast.WalkContinue, nil
		}
		typ, ok := nodeTypes[n.Kind()]
		if !ok {
			return ast.WalkContinue, nil
		}
		b.addBlock(n, typ)
		// 叶子块内不再有块
		return ast.WalkSkipChildren, nil
	})
	return b.outline
}

func (b *outlineBuilder) addBlock(n ast.Node, typ string) {
	start, ok := startOf(n)
	if !ok {
		return
	}
	line := b.lineOf(start)
	id := b.uniqueID(types.LineBlockID(line))

	n.SetAttributeString(AttrNodeID, []byte(id))
	n.SetAttributeString(AttrType, []byte(typ))
	b.outline.Blocks = append(b.outline.Blocks, Block{ID: id, Type: typ, Line: line})
	b.outline.Order[id] = len(b.outline.Blocks)

	if n.Type() != ast.TypeBlock {
		return
	}
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		l := b.lineOf(lines.At(i).Start)
		if b.outline.Lines[l].BlockID != "" {
			continue
		}
		b.outline.Lines[l] = types.LineRef{
			BlockID: id,
			Base:    utf8.RuneCount(b.source[b.lineStarts[line]:b.lineStarts[l]]),
		}
	}
}

func (b *outlineBuilder) uniqueID(id string) string {
	cand := id
	for k := 2; b.used[cand]; k++ {
		cand = id + "-" + strconv.Itoa(k)
	}
	b.used[cand] = true
	return cand
}

func (b *outlineBuilder) lineOf(pos int) int {
	return sort.Search(len(b.lineStarts), func(i int) bool { return b.lineStarts[i] > pos }) - 1
}

func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, c := range source {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// startOf 返回块内容在源文本中的起始字节
func startOf(n ast.Node) (int, bool) {
	start, found := -1, false
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			start, found = t.Segment.Start, true
			return ast.WalkStop, nil
		case *ast.RawHTML:
			if t.Segments.Len() > 0 {
				start, found = t.Segments.At(0).Start, true
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	if found {
		return start, true
	}
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(0).Start, true
	}
	return 0, false
}

// ListPrefix 返回列表项的标记，如 "- "、"3. "
func ListPrefix(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok {
		return ""
	}
	if !list.IsOrdered() {
		return string(list.Marker) + " "
	}
	n := list.Start
	for c := list.FirstChild(); c != nil && c != ast.Node(item); c = c.NextSibling() {
		n++
	}
	return strconv.Itoa(n) + string(list.Marker) + " "
}

// NodeID 返回节点的 data-node-id 属性
func NodeID(n ast.Node) string {
	return attrString(n, AttrNodeID)
}

// Marker 返回列表项的 data-marker 属性
func Marker(n ast.Node) string {
	return attrString(n, AttrMarker)
}

func attrString(n ast.Node, name string) string {
	v, ok := n.AttributeString(name)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case []byte:
		return string(s)
	case string:
		return s
	}
	return ""
}
