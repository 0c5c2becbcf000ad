// Package lexer scans raw markdown text for key-info markup.
package lexer

import (
	"iter"
	"regexp"
	"strings"

	"github.com/riverfjs/keyinfo-go/internal/extract"
	"github.com/riverfjs/keyinfo-go/internal/types"
	"github.com/riverfjs/keyinfo-go/internal/util"
)

var (
	// 引用前缀 "> "
	quotePrefixRe = regexp.MustCompile(`^[ \t]*(?:>[ \t]?)+`)

	// 列表标记 "- "、"* "、"+ "、"3. "、"3) "
	listPrefixRe = regexp.MustCompile(`^[ \t]*([-*+]|\d{1,9}[.)])[ \t]+`)

	// ATX 标题
	headingRe = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+|$)`)

	// 标题结尾的闭合 #
	closingHashesRe = regexp.MustCompile(`(?:^|[ \t]+)#+[ \t]*$`)
)

// Option configures Scan.
type Option func(*options)

type options struct {
	lines []types.LineRef
	order types.BlockOrder
}

// WithBlocks 使用外部块索引：行 → 块映射与块排序
//
// 未映射的行回退到 types.LineBlockID(line)，其排序键由 order 查找（通常排在最后）。
func WithBlocks(lines []types.LineRef, order types.BlockOrder) Option {
	return func(o *options) {
		o.lines = lines
		o.order = order
	}
}

// Scan returns the key-info items of markdown in appearance order.
//
// The sequence is lazy: lines are scanned as the consumer pulls items,
// and ranging over it again rescans from the start.
func Scan(markdown string, opts ...Option) iter.Seq[types.Item] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return func(yield func(types.Item) bool) {
		if markdown == "" {
			return
		}
		var fence string
		for i, line := range strings.Split(markdown, "\n") {
			line = strings.TrimSuffix(line, "\r")
			if fence != "" {
				if isClosingFence(line, fence) {
					fence = ""
				}
				continue
			}
			if f, ok := openingFence(line); ok {
				fence = f
				continue
			}
			if !o.scanLine(i, line, yield) {
				return
			}
		}
	}
}

// Collect 收集 Scan 的全部结果
func Collect(markdown string, opts ...Option) []types.Item {
	items := make([]types.Item, 0)
	for it := range Scan(markdown, opts...) {
		items = append(items, it)
	}
	return items
}

// openingFence 识别 ``` 或 ~~~ 开头的围栏，返回围栏标记
func openingFence(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(trimmed) && trimmed[n] == ch {
			n++
		}
		if n < 3 {
			continue
		}
		// 反引号围栏的 info string 不能含反引号
		if ch == '`' && strings.IndexByte(trimmed[n:], '`') >= 0 {
			return "", false
		}
		return trimmed[:n], true
	}
	return "", false
}

// isClosingFence 行仅由不短于开启标记的围栏字符组成
func isClosingFence(line, fence string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < len(fence) {
		return false
	}
	return strings.Trim(trimmed, fence[:1]) == ""
}

type lineCtx struct {
	index      int
	runes      []rune
	blockID    string
	blockSort  int
	base       int
	listPrefix string
}

func (o *options) newLineCtx(index int, line string) *lineCtx {
	lc := &lineCtx{
		index:     index,
		runes:     []rune(line),
		blockID:   types.LineBlockID(index),
		blockSort: index,
	}
	if o.lines != nil || o.order != nil {
		if index < len(o.lines) && o.lines[index].BlockID != "" {
			lc.blockID = o.lines[index].BlockID
			lc.base = o.lines[index].Base
		}
		lc.blockSort = o.order.Sort(lc.blockID)
	}
	return lc
}

func (lc *lineCtx) item(typ types.Type, text, raw string, col int) types.Item {
	it := types.Item{
		Type:       typ,
		Text:       text,
		Raw:        raw,
		Offset:     lc.base + col,
		BlockID:    lc.blockID,
		BlockSort:  lc.blockSort,
		ListItem:   lc.listPrefix != "",
		ListPrefix: lc.listPrefix,
	}
	it.ID = extract.ID(extract.SourceMarkdown, it)
	return it
}

func (o *options) scanLine(index int, line string, yield func(types.Item) bool) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	lc := o.newLineCtx(index, line)

	// 前缀按字节定位，再换算为 rune 列
	start := len(quotePrefixRe.FindString(line))
	if m := listPrefixRe.FindStringSubmatch(line[start:]); m != nil {
		lc.listPrefix = m[1] + " "
		start += len(m[0])
	}
	col := util.RuneLen(line[:start])

	if m := headingRe.FindStringIndex(line[start:]); m != nil {
		contentStart := start + m[1]
		content := closingHashesRe.ReplaceAllString(line[contentStart:], "")
		contentCol := util.RuneLen(line[:contentStart])
		title := util.NormalizeText(plain([]rune(content), 0, util.RuneLen(content), true))
		if title != "" {
			// Raw 同样不含行内代码
			raw := strings.TrimSpace(withoutCode(lc.runes))
			if !yield(lc.item(types.TypeTitle, title, raw, col)) {
				return false
			}
		}
		col = contentCol
	}
	return lc.scanInline(col, yield)
}

// scanInline 扫描行内标记，行内代码把一行切成互不相通的片段
func (lc *lineCtx) scanInline(from int, yield func(types.Item) bool) bool {
	for _, seg := range textSegments(lc.runes, from) {
		if !lc.scanRange(seg[0], seg[1], yield) {
			return false
		}
	}
	return true
}

// scanRange 扫描 [from, to)：链接只看其文本，图片、自动链接与 HTML 标签整体跳过
func (lc *lineCtx) scanRange(from, to int, yield func(types.Item) bool) bool {
	for i := from; i < to; {
		m, ok := longestMatch(lc.runes, i, to)
		if !ok {
			i = lc.skipInline(i, to, yield)
			if i < 0 {
				return false
			}
			continue
		}
		text := util.NormalizeText(plain(lc.runes, m.inner[0], m.inner[1], false))
		if text != "" {
			raw := string(lc.runes[m.start:m.stop])
			if !yield(lc.item(m.typ, text, raw, m.start)) {
				return false
			}
		}
		i = m.stop
	}
	return true
}

// skipInline 越过 i 处不含标记的行内语法，返回下一个扫描位置；消费者停止时返回 -1
func (lc *lineCtx) skipInline(i, to int, yield func(types.Item) bool) int {
	if l, ok := matchLink(lc.runes, i, to); ok {
		if !l.image && !lc.scanRange(l.label[0], l.label[1], yield) {
			return -1
		}
		return l.stop
	}
	if _, stop, ok := matchAutolink(lc.runes, i, to); ok {
		return stop
	}
	if stop, ok := matchHTMLTag(lc.runes, i, to); ok {
		return stop
	}
	return i + 1
}

// textSegments 返回 [from, len) 中除去行内代码后的片段
func textSegments(rs []rune, from int) [][2]int {
	var segs [][2]int
	segStart := from
	for i := from; i < len(rs); {
		if rs[i] != '`' {
			i++
			continue
		}
		n := runLen(rs, i, '`')
		end := findRun(rs, i+n, '`', n)
		if end < 0 {
			// 无闭合的反引号按普通字符处理
			i += n
			continue
		}
		if i > segStart {
			segs = append(segs, [2]int{segStart, i})
		}
		i = end + n
		segStart = i
	}
	if segStart < len(rs) {
		segs = append(segs, [2]int{segStart, len(rs)})
	}
	return segs
}

func runLen(rs []rune, i int, ch rune) int {
	n := 0
	for i+n < len(rs) && rs[i+n] == ch {
		n++
	}
	return n
}

// findRun 查找恰好 n 个 ch 组成的连续串
func findRun(rs []rune, from int, ch rune, n int) int {
	for i := from; i < len(rs); {
		if rs[i] != ch {
			i++
			continue
		}
		l := runLen(rs, i, ch)
		if l == n {
			return i
		}
		i += l
	}
	return -1
}

// withoutCode 返回去掉行内代码（含反引号）后的整行
func withoutCode(rs []rune) string {
	var sb strings.Builder
	for _, seg := range textSegments(rs, 0) {
		sb.WriteString(string(rs[seg[0]:seg[1]]))
	}
	return sb.String()
}

// plain 返回 rs[from:to] 渲染后的文本：去除嵌套标记、链接语法与 HTML 标签，
// 再解析转义与字符引用。dropCode 时同时删除行内代码。
func plain(rs []rune, from, to int, dropCode bool) string {
	var sb strings.Builder
	writePlain(&sb, rs, from, to, dropCode)
	return util.Unescape(sb.String())
}

func writePlain(sb *strings.Builder, rs []rune, from, to int, dropCode bool) {
	for i := from; i < to; {
		if rs[i] == '\\' && i+1 < to && isASCIIPunct(rs[i+1]) {
			// 转义原样保留，由 plain 统一解析
			sb.WriteRune(rs[i])
			sb.WriteRune(rs[i+1])
			i += 2
			continue
		}
		if dropCode && rs[i] == '`' {
			n := runLen(rs, i, '`')
			if end := findRun(rs[:to], i+n, '`', n); end >= 0 {
				i = end + n
				continue
			}
		}
		if m, ok := longestMatch(rs, i, to); ok {
			writePlain(sb, rs, m.inner[0], m.inner[1], dropCode)
			i = m.stop
			continue
		}
		if l, ok := matchLink(rs, i, to); ok {
			// 图片的替代文本不是正文
			if !l.image {
				writePlain(sb, rs, l.label[0], l.label[1], dropCode)
			}
			i = l.stop
			continue
		}
		if text, stop, ok := matchAutolink(rs, i, to); ok {
			sb.WriteString(string(rs[text[0]:text[1]]))
			i = stop
			continue
		}
		if stop, ok := matchHTMLTag(rs, i, to); ok {
			i = stop
			continue
		}
		sb.WriteRune(rs[i])
		i++
	}
}
