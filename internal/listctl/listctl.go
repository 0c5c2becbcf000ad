// Package listctl decides what the key-info list shows after a refresh.
package listctl

import "github.com/riverfjs/keyinfo-go/internal/types"

// Request 一次刷新时列表的上下文
type Request struct {
	IsSameDoc    bool
	HasItems     bool
	CurrentItems []types.Item
	LatestItems  []types.Item
}

// ResolveItems 返回要显示的条目：总是 LatestItems 本身
//
// 新快照整体替换当前列表，从不按 ID 合并，否则旧条目可能以错误的
// 顺序留在新条目之间。
func ResolveItems(req Request) []types.Item {
	return req.LatestItems
}

// ScrollAction 刷新后列表的滚动处理
type ScrollAction int

const (
	// ScrollKeep 不做任何程序化滚动（滚动锁生效中）
	ScrollKeep ScrollAction = iota
	// ScrollRestore 恢复刷新前的滚动位置
	ScrollRestore
	// ScrollTop 滚动到顶部
	ScrollTop
)

func (a ScrollAction) String() string {
	switch a {
	case ScrollKeep:
		return "keep"
	case ScrollRestore:
		return "restore"
	case ScrollTop:
		return "top"
	}
	return "unknown"
}

// Decision 条目与滚动处理
type Decision struct {
	Items  []types.Item
	Scroll ScrollAction
}

// Plan 决定刷新后的条目与滚动处理
//
// locked 为当前滚动锁状态：锁定时抑制程序化滚动；同一文档且已有条目时
// 恢复原滚动位置；否则回到顶部。
func Plan(req Request, locked bool) Decision {
	d := Decision{Items: ResolveItems(req)}
	switch {
	case locked:
		d.Scroll = ScrollKeep
	case req.IsSameDoc && req.HasItems:
		d.Scroll = ScrollRestore
	default:
		d.Scroll = ScrollTop
	}
	return d
}
