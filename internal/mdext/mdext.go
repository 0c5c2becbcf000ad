// Package mdext is a goldmark extension for the key-info inline syntax:
// ==highlight==, %%remark%% and #tag.
package mdext

import (
	"bytes"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	kutil "github.com/riverfjs/keyinfo-go/internal/util"
)

var (
	KindMark   = ast.NewNodeKind("Mark")
	KindRemark = ast.NewNodeKind("Remark")
	KindTag    = ast.NewNodeKind("Tag")
)

// Mark ==text==
type Mark struct {
	ast.BaseInline
}

func (n *Mark) Kind() ast.NodeKind { return KindMark }

func (n *Mark) Dump(source []byte, level int) { ast.DumpHelper(n, source, level, nil, nil) }

// Remark %%text%%
type Remark struct {
	ast.BaseInline
}

func (n *Remark) Kind() ast.NodeKind { return KindRemark }

func (n *Remark) Dump(source []byte, level int) { ast.DumpHelper(n, source, level, nil, nil) }

// Tag #text or #text#
type Tag struct {
	ast.BaseInline
}

func (n *Tag) Kind() ast.NodeKind { return KindTag }

func (n *Tag) Dump(source []byte, level int) { ast.DumpHelper(n, source, level, nil, nil) }

// delimProcessor 把成对的 == 或 %% 分隔符转换为 Mark 或 Remark 节点
//
// 分隔符之间的内容按普通行内语法继续解析，可以嵌套加粗、行内代码等。
type delimProcessor struct {
	char    byte
	newNode func() ast.Node
}

func (p *delimProcessor) IsDelimiter(b byte) bool {
	return b == p.char
}

func (p *delimProcessor) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (p *delimProcessor) OnMatch(consumes int) ast.Node {
	return p.newNode()
}

var (
	markProcessor   = &delimProcessor{char: '=', newNode: func() ast.Node { return &Mark{} }}
	remarkProcessor = &delimProcessor{char: '%', newNode: func() ast.Node { return &Remark{} }}
)

// delimParser 识别恰好两个字符的分隔符串
type delimParser struct {
	proc   *delimProcessor
	strict bool // 按 CommonMark 的左右侧规则判定能否开闭
}

func (p *delimParser) Trigger() []byte {
	return []byte{p.proc.char}
}

func (p *delimParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	if before == rune(p.proc.char) {
		return nil
	}
	line, segment := block.PeekLine()
	node := parser.ScanDelimiter(line, before, 2, p.proc)
	if node == nil || node.OriginalLength != 2 {
		return nil
	}
	if !p.strict {
		// 备注允许内容两端留空白：后面还有字符即可开启，任何位置都可闭合
		after := line[2:]
		node = parser.NewDelimiter(len(bytes.TrimFunc(after, kutil.IsSpace)) > 0, true, 2, p.proc.char, p.proc)
	}
	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

func (p *delimParser) CloseBlock(parent ast.Node, pc parser.Context) {}

type tagParser struct{}

func (p *tagParser) Trigger() []byte {
	return []byte{'#'}
}

func (p *tagParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	prev := block.PrecendingCharacter()
	if kutil.IsWordRune(prev) || prev == '#' || prev == '&' {
		return nil
	}
	line, seg := block.PeekLine()
	i := 1
	for i < len(line) {
		r, size := utf8.DecodeRune(line[i:])
		if !kutil.IsWordRune(r) {
			break
		}
		i += size
	}
	if i == 1 {
		return nil
	}
	node := &Tag{}
	node.AppendChild(node, ast.NewTextSegment(text.NewSegment(seg.Start+1, seg.Start+i)))
	consumed := i
	if i < len(line) && line[i] == '#' {
		consumed++
	}
	block.Advance(consumed)
	return node
}

// HTMLRenderer renders the extension nodes as protyle style spans.
type HTMLRenderer struct {
	html.Config
}

// NewHTMLRenderer returns a renderer for Mark, Remark and Tag nodes.
func NewHTMLRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &HTMLRenderer{Config: html.NewConfig()}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMark, spanRenderer("mark"))
	reg.Register(KindRemark, spanRenderer("inline-memo"))
	reg.Register(KindTag, spanRenderer("tag"))
}

func spanRenderer(dataType string) renderer.NodeRendererFunc {
	return func(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			_, _ = w.WriteString(`<span data-type="` + dataType + `">`)
		} else {
			_, _ = w.WriteString("</span>")
		}
		return ast.WalkContinue, nil
	}
}

type keyInfo struct{}

// KeyInfo 注册 ==、%%、# 三种行内语法及其 HTML 渲染
var KeyInfo goldmark.Extender = &keyInfo{}

func (e *keyInfo) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&delimParser{proc: markProcessor, strict: true}, 500),
		util.Prioritized(&delimParser{proc: remarkProcessor}, 500),
		util.Prioritized(&tagParser{}, 500),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewHTMLRenderer(), 500),
	))
}
