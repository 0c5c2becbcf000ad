// Package scrolllock guards the list scroll position after a click.
//
// A click on a list entry captures the scroll offsets for a short time so
// that the scroll restoration triggered by the next redraw does not fight
// the user. The lock is released by a scroll to different offsets or by
// expiry.
package scrolllock

import (
	"time"

	"github.com/riverfjs/keyinfo-go/internal/types"
)

// State is Unlocked or Locked.
type State interface {
	isState()
}

// Unlocked 未锁定
type Unlocked struct{}

// Locked 点击时捕获的滚动位置及锁定截止时间
type Locked struct {
	Top   int
	Left  int
	Until time.Time
}

func (Unlocked) isState() {}
func (Locked) isState()   {}

// Lock is the scroll lock state machine. The zero value is unlocked and
// uses DefaultDuration.
//
// Lock is not safe for concurrent use; it belongs to the UI goroutine.
type Lock struct {
	duration time.Duration
	state    State
}

// DefaultDuration 默认锁定时长
const DefaultDuration = types.DefaultLockDuration

// New returns an unlocked Lock. A non-positive duration selects DefaultDuration.
func New(duration time.Duration) *Lock {
	return &Lock{duration: duration}
}

// Duration returns the lock duration in effect.
func (l *Lock) Duration() time.Duration {
	if l.duration <= 0 {
		return DefaultDuration
	}
	return l.duration
}

// Click 捕获当前滚动位置；已锁定时重新捕获
func (l *Lock) Click(top, left int, now time.Time) State {
	l.state = Locked{Top: top, Left: left, Until: now.Add(l.Duration())}
	return l.state
}

// Scroll 处理一次滚动事件
//
// 偏移与锁定时相同且未过期：无操作；偏移不同：立即解锁。
func (l *Lock) Scroll(top, left int, now time.Time) State {
	locked, ok := l.State(now).(Locked)
	if !ok {
		return Unlocked{}
	}
	if locked.Top != top || locked.Left != left {
		l.state = Unlocked{}
		return l.state
	}
	return locked
}

// State 返回 now 时刻的状态，now 超过 Until 时锁已过期
func (l *Lock) State(now time.Time) State {
	locked, ok := l.state.(Locked)
	if !ok {
		return Unlocked{}
	}
	if now.After(locked.Until) {
		l.state = Unlocked{}
		return l.state
	}
	return locked
}

// Active reports whether the lock is held at now.
func (l *Lock) Active(now time.Time) bool {
	_, ok := l.State(now).(Locked)
	return ok
}
