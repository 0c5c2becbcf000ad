// Package extract turns structural span lists into key-info items.
package extract

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/riverfjs/keyinfo-go/internal/types"
	"github.com/riverfjs/keyinfo-go/internal/util"
)

// Source names used as id prefixes.
const (
	SourceMarkdown = "md"
	SourceSpan     = "span"
	SourceDOM      = "dom"
)

// ID returns a deterministic identity for it within one refresh cycle.
func ID(source string, it types.Item) string {
	d := xxhash.New()
	_, _ = d.WriteString(source)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(string(it.Type))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(it.BlockID)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strconv.Itoa(it.Offset))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(it.Text)
	return source + "-" + strconv.FormatUint(d.Sum64(), 16)
}

// FromSpans 将结构化片段转换为关键信息条目
//
// 规则：
//   - 先用 Coalesce 合并完全嵌套的包裹
//   - 无块 ID 的片段静默丢弃（无法定位文档顺序）
//   - 标签无法映射的片段静默丢弃
//   - 规范化后文本为空的片段丢弃
//   - 同一 (BlockID, Offset) 只保留第一个片段
//
// BlockSort 通过 order 查找，不存在时为 types.UnknownBlockSort。
func FromSpans(source string, spans []types.Span, order types.BlockOrder) []types.Item {
	type pos struct {
		block  string
		offset int
	}
	seen := make(map[pos]bool, len(spans))
	items := make([]types.Item, 0, len(spans))
	for _, sp := range Coalesce(spans) {
		if sp.BlockID == "" {
			continue
		}
		typ, ok := MapTag(sp.Tag)
		if !ok {
			continue
		}
		text := util.NormalizeText(sp.Text)
		if text == "" {
			continue
		}
		key := pos{sp.BlockID, sp.Offset}
		if seen[key] {
			continue
		}
		seen[key] = true

		it := types.Item{
			Type:       typ,
			Text:       text,
			Raw:        sp.Raw,
			Offset:     sp.Offset,
			BlockID:    sp.BlockID,
			BlockSort:  order.Sort(sp.BlockID),
			ListItem:   sp.ListPrefix != "",
			ListPrefix: sp.ListPrefix,
		}
		if it.Raw == "" {
			it.Raw = sp.Text
		}
		it.ID = ID(source, it)
		items = append(items, it)
	}
	return items
}
