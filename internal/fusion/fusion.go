// Package fusion merges the three extraction sources into one ordered list.
package fusion

import (
	"cmp"
	"slices"

	"github.com/riverfjs/keyinfo-go/internal/types"
)

// Merge 融合三路提取结果
//
//  1. 首选集合 = span 条目 ∪ dom 条目；dom 条目与尚未匹配的 span 条目
//     (Type, Text, BlockID) 相同时视为同一片段，只保留 span 条目
//  2. markdown 条目的 (Type, Text) 出现在首选集合中时被抑制
//  3. 拼接后按 (BlockSort, Offset) 稳定排序，重新编号 Order
//
// 首选集合为空时直接返回 markdown 条目（保持原顺序）。
// 同一来源内部的重复不在这里处理。
//
// 抑制只比较 (Type, Text)：同类型同文本、位置不同的 markdown 片段
// 会被任一结构化条目吞掉。
func Merge(markdownItems, spanItems, domItems []types.Item) []types.Item {
	preferred := union(spanItems, domItems)
	if len(preferred) == 0 {
		return renumber(slices.Clone(markdownItems))
	}

	confirmed := make(map[string]bool, len(preferred))
	for _, it := range preferred {
		confirmed[it.Key()] = true
	}

	out := make([]types.Item, 0, len(preferred)+len(markdownItems))
	out = append(out, preferred...)
	for _, it := range markdownItems {
		if !confirmed[it.Key()] {
			out = append(out, it)
		}
	}

	slices.SortStableFunc(out, func(a, b types.Item) int {
		return cmp.Or(cmp.Compare(a.BlockSort, b.BlockSort), cmp.Compare(a.Offset, b.Offset))
	})
	return renumber(out)
}

// union 按多重集合语义合并 span 与 dom 条目
func union(spanItems, domItems []types.Item) []types.Item {
	type key struct {
		typ   types.Type
		text  string
		block string
	}
	pending := make(map[key]int, len(spanItems))
	for _, it := range spanItems {
		pending[key{it.Type, it.Text, it.BlockID}]++
	}

	out := make([]types.Item, 0, len(spanItems)+len(domItems))
	out = append(out, spanItems...)
	for _, it := range domItems {
		k := key{it.Type, it.Text, it.BlockID}
		if pending[k] > 0 {
			pending[k]--
			continue
		}
		out = append(out, it)
	}
	return out
}

func renumber(items []types.Item) []types.Item {
	for i := range items {
		items[i].Order = i
	}
	return items
}
