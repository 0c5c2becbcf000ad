package types

import (
	"log/slog"
	"math"
	"strconv"
	"time"
)

// Type 关键信息类型（封闭集合）
type Type string

const (
	TypeTitle     Type = "title"
	TypeBold      Type = "bold"
	TypeItalic    Type = "italic"
	TypeHighlight Type = "highlight"
	TypeRemark    Type = "remark"
	TypeTag       Type = "tag"
)

// Types lists every Type in a fixed order.
var Types = []Type{TypeTitle, TypeBold, TypeItalic, TypeHighlight, TypeRemark, TypeTag}

// Valid reports whether t is one of the six known types.
func (t Type) Valid() bool {
	switch t {
	case TypeTitle, TypeBold, TypeItalic, TypeHighlight, TypeRemark, TypeTag:
		return true
	}
	return false
}

// UnknownBlockSort 块不在排序索引中时使用的排序键，排在最后
const UnknownBlockSort = math.MaxInt32

// Item 表示一个关键信息片段
type Item struct {
	ID         string `json:"id"`
	Type       Type   `json:"type"`
	Text       string `json:"text"`
	Raw        string `json:"raw"`
	Offset     int    `json:"offset"`
	BlockID    string `json:"blockId"`
	BlockSort  int    `json:"blockSort"`
	Order      int    `json:"order"`
	ListItem   bool   `json:"listItem,omitempty"`
	ListPrefix string `json:"listPrefix,omitempty"`
}

// Key returns the (type, text) pair used for cross-source suppression.
func (it Item) Key() string {
	return string(it.Type) + "\x00" + it.Text
}

// Label 返回带列表前缀的显示文本
func (it Item) Label() string {
	if it.ListItem {
		return it.ListPrefix + it.Text
	}
	return it.Text
}

// Span 结构化来源（AST 或 DOM）产生的原始格式片段
type Span struct {
	Tag        string // 原始格式标签，如 "strong"、"mark sup"
	Text       string
	Raw        string
	BlockID    string
	Offset     int // 块内 rune 偏移
	ListPrefix string
}

// BlockOrder 块 ID → 文档顺序
type BlockOrder map[string]int

// Sort 返回块的排序键，不存在时返回 UnknownBlockSort
func (o BlockOrder) Sort(blockID string) int {
	if rank, ok := o[blockID]; ok {
		return rank
	}
	return UnknownBlockSort
}

// LineRef 将 markdown 行映射到其所属的块
type LineRef struct {
	BlockID string
	Base    int // 该行起点相对块起点的 rune 偏移
}

// LineBlockID names the implicit block of a markdown line.
func LineBlockID(line int) string {
	return "L" + strconv.Itoa(line)
}

// DefaultLockDuration 点击后锁定滚动位置的默认时长
const DefaultLockDuration = 120 * time.Millisecond

// Config 运行配置，显式传入各构造函数
type Config struct {
	// Debug 打开 debug 级别日志
	Debug bool
	// Logger 为 nil 时丢弃所有日志
	Logger *slog.Logger
	// LockDuration 滚动锁时长
	LockDuration time.Duration
	// RootID 文档根块 ID
	RootID string
	// Now 时钟，测试中可替换
	Now func() time.Time
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		LockDuration: DefaultLockDuration,
		RootID:       "root",
		Now:          time.Now,
	}
}
