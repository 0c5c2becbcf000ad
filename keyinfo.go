// Package keyinfo 从文档中提取关键信息（标题、加粗、斜体、高亮、备注、标签）
//
// 三路来源：
//   - markdown 源文本的词法扫描
//   - 语法树上的结构化片段列表
//   - 渲染后带块 ID 的 DOM 树
//
// 三路结果融合为一个按文档顺序排列、去重后的列表。Panel 维护当前显示的
// 列表，配合滚动锁处理点击、滚动与刷新。
//
// 主要 API：
//   - Extract(): 本地同步提取，返回有序条目
//   - Engine.Refresh(): 从外部协作者获取输入，返回 Snapshot
//   - Panel: 应用快照、处理用户事件
//
// 示例：
//
//	// 本地提取
//	items := keyinfo.Extract(markdown)
//
//	// 完整刷新
//	engine := keyinfo.NewEngine(file.NewSource(dir))
//	snap, err := engine.Refresh(ctx, "notes")
//	panel := keyinfo.NewPanel()
//	panel.Open("notes")
//	decision, ok := panel.Apply(snap)
package keyinfo

import (
	"github.com/riverfjs/keyinfo-go/internal/dom"
	"github.com/riverfjs/keyinfo-go/internal/extract"
	"github.com/riverfjs/keyinfo-go/internal/fusion"
	"github.com/riverfjs/keyinfo-go/internal/lexer"
	"github.com/riverfjs/keyinfo-go/internal/listctl"
)

// ScanMarkdown 词法扫描 markdown 源文本；BlockSort 为行号
func ScanMarkdown(markdown string) []Item {
	return lexer.Collect(markdown)
}

// ItemsFromSpans 将结构化片段列表转换为条目
func ItemsFromSpans(spans []Span, order BlockOrder) []Item {
	return extract.FromSpans(extract.SourceSpan, spans, order)
}

// ItemsFromHTML 扫描渲染后的 HTML 并转换为条目
func ItemsFromHTML(html string, order BlockOrder) ([]Item, error) {
	spans, err := dom.ExtractString(html)
	if err != nil {
		return nil, err
	}
	return extract.FromSpans(extract.SourceDOM, spans, order), nil
}

// Merge 融合三路条目，见 fusion.Merge
func Merge(markdownItems, spanItems, domItems []Item) []Item {
	return fusion.Merge(markdownItems, spanItems, domItems)
}

// ResolveItems 返回刷新后应显示的条目：总是 latest
func ResolveItems(isSameDoc, hasItems bool, current, latest []Item) []Item {
	return listctl.ResolveItems(listctl.Request{
		IsSameDoc:    isSameDoc,
		HasItems:     hasItems,
		CurrentItems: current,
		LatestItems:  latest,
	})
}
