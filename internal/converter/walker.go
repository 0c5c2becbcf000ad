package converter

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/riverfjs/keyinfo-go/internal/buffer"
	"github.com/riverfjs/keyinfo-go/internal/mdext"
	"github.com/riverfjs/keyinfo-go/internal/parser"
	"github.com/riverfjs/keyinfo-go/internal/types"
	"github.com/riverfjs/keyinfo-go/internal/util"
)

// inlineHTMLTags 作为格式片段处理的行内 HTML 标签
var inlineHTMLTags = map[string]bool{
	"mark":   true,
	"sup":    true,
	"sub":    true,
	"b":      true,
	"strong": true,
	"i":      true,
	"em":     true,
}

var htmlTagRe = regexp.MustCompile(`^<(/?)([a-zA-Z][a-zA-Z0-9]*)\b[^>]*?(/?)>$`)

// SpanWalker 遍历 goldmark AST 并生成结构化片段列表
//
// 每个叶子块单独计数，Offset 是片段起点在块纯文本中的 rune 偏移，
// 与渲染后 DOM 的 textContent 一致。行内代码计入偏移，但不进入片段文本：
// 标题去掉其中的代码，含行内代码的行内片段整个丢弃。
type SpanWalker struct {
	buf    *buffer.TextBuffer // 渲染文本，含行内代码
	text   *buffer.TextBuffer // 不含行内代码的文本
	source []byte
	stack  []SpanScope
	spans  []types.Span

	// Block-level state
	block      ast.Node
	blockID    string
	listPrefix string
	code       [][2]int // 块内行内代码的源码范围
}

// NewSpanWalker 创建新的 SpanWalker
func NewSpanWalker(source []byte) *SpanWalker {
	return &SpanWalker{
		buf:    buffer.New(),
		text:   buffer.New(),
		source: source,
		stack:  make([]SpanScope, 0),
		spans:  make([]types.Span, 0),
	}
}

// Walk 遍历解析后的文档，返回其片段列表
func Walk(doc *parser.Document) []types.Span {
	w := NewSpanWalker(doc.Source)
	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		return w.Walk(n, entering)
	})
	return w.Result()
}

// Walk 处理单个 AST 节点
func (w *SpanWalker) Walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := node.(type) {
	// --- Inline elements ---
	case *ast.Text:
		if entering {
			w.onText(n)
		}

	case *ast.String:
		if entering {
			w.write(string(n.Value))
		}

	case *ast.CodeSpan:
		if entering {
			w.onInlineCode(n)
			return ast.WalkSkipChildren, nil
		}

	case *ast.Emphasis:
		tag := "em"
		if n.Level == 2 {
			tag = "strong"
		}
		w.onScope(tag, n, entering)

	case *mdext.Mark:
		w.onScope("mark", n, entering)

	case *mdext.Remark:
		w.onScope("inline-memo", n, entering)

	case *mdext.Tag:
		w.onScope("tag", n, entering)

	case *ast.Image:
		// alt 文本不进入渲染后的正文
		return ast.WalkSkipChildren, nil

	case *ast.AutoLink:
		if entering {
			w.write(string(n.Label(w.source)))
			return ast.WalkSkipChildren, nil
		}

	case *ast.RawHTML:
		if entering {
			w.onInlineHTML(n)
		}

	case *east.TaskCheckBox:
		if entering {
			// 渲染为 <input ...> 后跟一个空格
			w.write(" ")
		}

	// --- Block elements ---
	case *ast.Heading:
		if entering {
			w.onStartBlock(n)
			w.pushScope("heading", -1)
		} else {
			w.onEndBlock()
		}

	case *ast.Paragraph, *ast.TextBlock, *east.TableCell, *east.DefinitionTerm:
		if entering {
			w.onStartBlock(n)
		} else {
			w.onEndBlock()
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

// Result 返回非空片段，外层包裹在内层之前
func (w *SpanWalker) Result() []types.Span {
	out := make([]types.Span, 0, len(w.spans))
	for _, sp := range w.spans {
		if sp.Text != "" {
			out = append(out, sp)
		}
	}
	return out
}

// --- Text handling ---

func (w *SpanWalker) write(s string) {
	w.buf.Write(s)
	w.text.Write(s)
}

func (w *SpanWalker) onText(n *ast.Text) {
	value := string(n.Segment.Value(w.source))
	if !n.IsRaw() {
		value = util.Unescape(value)
	}
	w.write(value)
	if n.SoftLineBreak() || n.HardLineBreak() {
		w.write("\n")
	}
}

func (w *SpanWalker) onInlineCode(n *ast.CodeSpan) {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var value []byte
		switch t := c.(type) {
		case *ast.Text:
			value = t.Segment.Value(w.source)
		case *ast.String:
			value = t.Value
		default:
			continue
		}
		if bytes.HasSuffix(value, []byte("\n")) {
			sb.Write(value[:len(value)-1])
			sb.WriteByte(' ')
		} else {
			sb.Write(value)
		}
	}
	// 只进入偏移缓冲
	w.buf.Write(sb.String())
	if start, stop := srcStart(n, w.source), srcStop(n, w.source); start >= 0 && stop > start {
		w.code = append(w.code, [2]int{start, stop})
	} else {
		w.code = append(w.code, [2]int{-1, -1})
	}
}

func (w *SpanWalker) onInlineHTML(n *ast.RawHTML) {
	raw := strings.TrimSpace(string(n.Segments.Value(w.source)))
	m := htmlTagRe.FindStringSubmatch(raw)
	if m == nil {
		return
	}
	tag := strings.ToLower(m[2])
	if !inlineHTMLTags[tag] || m[3] == "/" {
		return
	}
	if m[1] == "/" {
		w.popScope(tag, n.Segments.At(n.Segments.Len()-1).Stop)
	} else {
		w.pushScope(tag, n.Segments.At(0).Start)
	}
}

// --- Blocks ---

func (w *SpanWalker) onStartBlock(n ast.Node) {
	w.block = n
	w.blockID = parser.NodeID(n)
	w.listPrefix = ""
	if item, ok := n.Parent().(*ast.ListItem); ok && item.FirstChild() == n {
		w.listPrefix = parser.Marker(item)
	}
	w.buf.Reset()
	w.text.Reset()
	w.stack = w.stack[:0]
	w.code = w.code[:0]
}

func (w *SpanWalker) onEndBlock() {
	// 未闭合的行内 HTML 在块结束处闭合，与 HTML 解析器的行为一致
	for len(w.stack) > 0 {
		w.popAny()
	}
	w.code = w.code[:0]
	w.block = nil
	w.blockID = ""
	w.listPrefix = ""
}

// --- Scope helpers ---

func (w *SpanWalker) onScope(tag string, n ast.Node, entering bool) {
	if entering {
		w.pushScope(tag, srcStart(n, w.source))
	} else {
		w.popScope(tag, srcStop(n, w.source))
	}
}

// pushScope 打开片段，src 是其在源码中的起点，未知时为 -1
func (w *SpanWalker) pushScope(tag string, src int) {
	w.stack = append(w.stack, SpanScope{
		Tag:       tag,
		Start:     w.buf.Pos(),
		TextStart: w.text.Pos(),
		Index:     len(w.spans),
		Code:      len(w.code),
		Src:       src,
	})
	w.spans = append(w.spans, types.Span{Tag: tag})
}

func (w *SpanWalker) popScope(tag string, src int) {
	// Find the matching scope (search from top)
	for i := len(w.stack) - 1; i >= 0; i-- {
		if w.stack[i].Tag == tag {
			scope := w.stack[i]
			w.stack = append(w.stack[:i], w.stack[i+1:]...)
			w.finalizeSpan(scope, src)
			return
		}
	}
}

func (w *SpanWalker) popAny() {
	scope := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	w.finalizeSpan(scope, -1)
}

func (w *SpanWalker) finalizeSpan(scope SpanScope, srcEnd int) {
	sp := types.Span{
		Tag:        scope.Tag,
		Text:       w.text.Since(scope.TextStart),
		BlockID:    w.blockID,
		Offset:     scope.Start.Rune,
		ListPrefix: w.listPrefix,
	}
	switch {
	case scope.Tag == "heading":
		sp.Raw = w.headingRaw()
	case len(w.code) > scope.Code:
		// 行内片段不能跨越行内代码，留空由 Result 丢弃
		sp.Text = ""
	case scope.Src >= 0 && srcEnd > scope.Src && srcEnd <= len(w.source):
		sp.Raw = string(w.source[scope.Src:srcEnd])
	}
	w.spans[scope.Index] = sp
}

// headingRaw 返回标题所在的源码行，去掉其中的行内代码
func (w *SpanWalker) headingRaw() string {
	if w.block == nil {
		return ""
	}
	lines := w.block.Lines()
	if lines.Len() == 0 {
		return ""
	}
	start := lineStart(w.source, lines.At(0).Start)
	stop := lineEnd(w.source, lines.At(lines.Len()-1).Stop)

	var sb strings.Builder
	at := start
	for _, r := range w.code {
		if r[0] < at || r[1] > stop {
			continue
		}
		sb.Write(w.source[at:r[0]])
		at = r[1]
	}
	sb.Write(w.source[at:stop])
	return strings.TrimSpace(sb.String())
}
