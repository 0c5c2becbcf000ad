package parser

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/riverfjs/keyinfo-go/internal/mdext"
)

// StandardOptions goldmark 扩展配置
var StandardOptions = []goldmark.Option{
	goldmark.WithExtensions(
		extension.GFM,            // GitHub Flavored Markdown (tables, strikethrough, tasklists)
		extension.DefinitionList, // 定义列表
		mdext.KeyInfo,            // ==高亮==、%%备注%%、#标签
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(), // 自动生成标题 ID
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // 保留 <mark>、<sup> 等行内 HTML
	),
}

// New returns a goldmark instance configured with StandardOptions.
func New() goldmark.Markdown {
	return goldmark.New(StandardOptions...)
}

// Document 解析结果：源文本、AST 与块大纲
type Document struct {
	Source  []byte
	Root    ast.Node
	Outline *Outline
}

// Parse 解析 Markdown 并为叶子块分配 ID
//
// 块 ID 与排序索引以属性形式写入 AST（data-node-id），
// 供 converter 与 render 共同读取。
func Parse(markdown string, rootID string) *Document {
	source := []byte(markdown)
	root := New().Parser().Parse(text.NewReader(source))
	return &Document{
		Source:  source,
		Root:    root,
		Outline: buildOutline(source, root, rootID),
	}
}

// ParseAST 仅解析为 AST，不生成大纲
func ParseAST(markdown string) ast.Node {
	return New().Parser().Parse(text.NewReader([]byte(markdown)))
}
