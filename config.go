package keyinfo

import (
	"sync"

	"github.com/riverfjs/keyinfo-go/internal/listctl"
	"github.com/riverfjs/keyinfo-go/internal/scrolllock"
	"github.com/riverfjs/keyinfo-go/internal/types"
)

// 导出类型别名
type (
	Item       = types.Item
	Type       = types.Type
	Span       = types.Span
	BlockOrder = types.BlockOrder
	Config     = types.Config

	LockState = scrolllock.State
	Locked    = scrolllock.Locked
	Unlocked  = scrolllock.Unlocked

	ScrollAction = listctl.ScrollAction
	Decision     = listctl.Decision
)

const (
	TypeTitle     = types.TypeTitle
	TypeBold      = types.TypeBold
	TypeItalic    = types.TypeItalic
	TypeHighlight = types.TypeHighlight
	TypeRemark    = types.TypeRemark
	TypeTag       = types.TypeTag

	ScrollKeep    = listctl.ScrollKeep
	ScrollRestore = listctl.ScrollRestore
	ScrollTop     = listctl.ScrollTop

	// UnknownBlockSort 不在块排序索引中的块使用的排序键
	UnknownBlockSort = types.UnknownBlockSort

	// DefaultLockDuration 点击后锁定滚动位置的默认时长
	DefaultLockDuration = types.DefaultLockDuration
)

var (
	defaultConfig     *Config
	defaultConfigOnce sync.Once
	defaultConfigMu   sync.Mutex
)

// DefaultConfig returns the shared default configuration (singleton).
//
// Callers that need different settings pass their own Config with
// WithConfig instead of mutating this one.
func DefaultConfig() *Config {
	defaultConfigMu.Lock()
	defer defaultConfigMu.Unlock()
	defaultConfigOnce.Do(func() {
		defaultConfig = types.DefaultConfig()
	})
	return defaultConfig
}

// ResetDefaultConfig discards the shared default configuration so the next
// DefaultConfig call builds a fresh one. Tests use it for isolation.
func ResetDefaultConfig() {
	defaultConfigMu.Lock()
	defer defaultConfigMu.Unlock()
	defaultConfig = nil
	defaultConfigOnce = sync.Once{}
}
