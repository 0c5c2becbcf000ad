package converter

import (
	"github.com/yuin/goldmark/ast"

	"github.com/riverfjs/keyinfo-go/internal/buffer"
	"github.com/riverfjs/keyinfo-go/internal/mdext"
)

// SpanScope 用于跟踪未闭合的格式片段
type SpanScope struct {
	Tag       string
	Start     buffer.Pos // 渲染文本中的起点，决定 Offset
	TextStart buffer.Pos // 去掉行内代码后的文本起点
	Index     int        // 在 spans 中预留的位置，外层片段排在内层之前
	Code      int        // 打开时块内已出现的行内代码数
	Src       int        // 源码字节起点，未知为 -1
}

// srcStart 返回行内节点在源码中的起点（含开启标记），无法确定时为 -1
func srcStart(n ast.Node, source []byte) int {
	switch n := n.(type) {
	case *ast.Text:
		return n.Segment.Start
	case *ast.RawHTML:
		if n.Segments.Len() == 0 {
			return -1
		}
		return n.Segments.At(0).Start
	case *ast.Emphasis:
		return shift(srcStart(n.FirstChild(), source), -n.Level)
	case *mdext.Mark, *mdext.Remark:
		return shift(srcStart(n.FirstChild(), source), -2)
	case *mdext.Tag:
		return shift(srcStart(n.FirstChild(), source), -1)
	case *ast.Link:
		return shift(srcStart(n.FirstChild(), source), -1)
	case *ast.Image:
		return shift(srcStart(n.FirstChild(), source), -2)
	case *ast.CodeSpan:
		i := srcStart(n.FirstChild(), source)
		if i < 0 {
			return -1
		}
		if i > 1 && source[i-1] == ' ' && source[i-2] == '`' {
			i--
		}
		for i > 0 && source[i-1] == '`' {
			i--
		}
		return i
	}
	return -1
}

// srcStop 返回行内节点在源码中的终点（含闭合标记），无法确定时为 -1
func srcStop(n ast.Node, source []byte) int {
	switch n := n.(type) {
	case *ast.Text:
		return n.Segment.Stop
	case *ast.RawHTML:
		if n.Segments.Len() == 0 {
			return -1
		}
		return n.Segments.At(n.Segments.Len() - 1).Stop
	case *ast.Emphasis:
		return shift(srcStop(n.LastChild(), source), n.Level)
	case *mdext.Mark, *mdext.Remark:
		return shift(srcStop(n.LastChild(), source), 2)
	case *mdext.Tag:
		i := srcStop(n.LastChild(), source)
		if i >= 0 && i < len(source) && source[i] == '#' {
			i++
		}
		return i
	case *ast.Link, *ast.Image:
		return linkEnd(source, srcStop(n.LastChild(), source))
	case *ast.CodeSpan:
		i := srcStop(n.LastChild(), source)
		if i < 0 {
			return -1
		}
		if i+1 < len(source) && source[i] == ' ' && source[i+1] == '`' {
			i++
		}
		for i < len(source) && source[i] == '`' {
			i++
		}
		return i
	}
	return -1
}

func shift(i, d int) int {
	if i < 0 || i+d < 0 {
		return -1
	}
	return i + d
}

// linkEnd 从链接文本的结尾 "]" 开始，返回 "(dest)" 或 "[ref]" 之后的位置
func linkEnd(source []byte, i int) int {
	if i < 0 || i >= len(source) || source[i] != ']' {
		return -1
	}
	i++
	if i >= len(source) {
		return i
	}
	var open, closing byte
	switch source[i] {
	case '(':
		open, closing = '(', ')'
	case '[':
		open, closing = '[', ']'
	default:
		return i
	}
	depth := 0
	for ; i < len(source); i++ {
		switch source[i] {
		case '\\':
			i++
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i + 1
			}
		case '\n':
			if open == '[' {
				return -1
			}
		}
	}
	return -1
}

func lineStart(source []byte, i int) int {
	for i > 0 && source[i-1] != '\n' {
		i--
	}
	return i
}

func lineEnd(source []byte, i int) int {
	for i < len(source) && source[i] != '\n' {
		i++
	}
	if i > 0 && source[i-1] == '\r' {
		i--
	}
	return i
}
